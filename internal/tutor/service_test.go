package tutor

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/abhisek/quizdeck/internal/llm"
	"github.com/abhisek/quizdeck/internal/mcq"
)

func testPool() *mcq.Pool {
	return &mcq.Pool{
		Title: "Redes",
		Questions: []mcq.Question{
			{
				ID:     "q1",
				Type:   mcq.TypeSingle,
				Prompt: "¿Qué puerto usa HTTPS por defecto?",
				Options: []mcq.Option{
					{ID: "a", Text: "80"},
					{ID: "b", Text: "443"},
				},
				Answer: []string{"b"},
			},
		},
	}
}

func TestAugment_ExtractsArray(t *testing.T) {
	canned := `Claro, aquí tienes las preguntas:
[{"id":"g1","type":"radio","prompt":"¿Qué es TCP?","options":[{"id":"a","text":"Protocolo"},{"id":"b","text":"Puerto"}],"answer":["a"]}]`
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(canned)})
	svc := NewService(mock, DefaultConfig())

	payload, err := svc.Augment(context.Background(), testPool(), 5)
	if err != nil {
		t.Fatalf("Augment: %v", err)
	}

	var items []map[string]any
	if err := json.Unmarshal(payload, &items); err != nil {
		t.Fatalf("payload is not a JSON array: %v", err)
	}
	if len(items) != 1 || items[0]["id"] != "g1" {
		t.Errorf("unexpected payload: %s", payload)
	}

	if got := mock.Calls[0].Messages[0].Content; !strings.Contains(got, "Genera 5 preguntas") {
		t.Errorf("prompt missing count: %q", got)
	}
	if !strings.Contains(mock.Calls[0].Messages[0].Content, "Pool base:") {
		t.Error("prompt missing pool section")
	}
}

func TestAugment_WrapsUnparseableAsRaw(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("no puedo generar eso")})
	svc := NewService(mock, DefaultConfig())

	payload, err := svc.Augment(context.Background(), testPool(), 3)
	if err != nil {
		t.Fatalf("Augment: %v", err)
	}

	var wrapper struct {
		Raw string `json:"raw"`
	}
	if err := json.Unmarshal(payload, &wrapper); err != nil {
		t.Fatalf("payload is not a raw wrapper: %v", err)
	}
	if wrapper.Raw != "no puedo generar eso" {
		t.Errorf("Raw = %q", wrapper.Raw)
	}
}

func TestAugment_DefaultsCount(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`[]`)})
	svc := NewService(mock, DefaultConfig())

	if _, err := svc.Augment(context.Background(), testPool(), 0); err != nil {
		t.Fatalf("Augment: %v", err)
	}
	if got := mock.Calls[0].Messages[0].Content; !strings.Contains(got, "Genera 10 preguntas") {
		t.Errorf("prompt should default to 10: %q", got)
	}
}

func TestExplain_FiltersToMistakeIDs(t *testing.T) {
	content := `{"explanations":{"q1":"La respuesta correcta es 443 porque HTTPS usa TLS sobre ese puerto.","invented":"sobra"}}`
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(content)})
	svc := NewService(mock, DefaultConfig())

	mistakes := []mcq.Result{
		{ID: "q1", IsCorrect: false, Chosen: []string{"a"}, Correct: []string{"b"}},
	}
	got, err := svc.Explain(context.Background(), testPool().Questions, mistakes)
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("got %d explanations, want 1", len(got))
	}
	if _, ok := got["q1"]; !ok {
		t.Error("missing explanation for q1")
	}
	if _, ok := got["invented"]; ok {
		t.Error("kept explanation for an id that was not asked about")
	}

	req := mock.Calls[0]
	if req.Schema == nil || req.Schema.Name != "mistake-explanations" {
		t.Error("explain request should carry the explanations schema")
	}
	if !strings.Contains(req.Messages[0].Content, "Errores del alumno:") {
		t.Error("prompt missing mistakes section")
	}
}

func TestExplain_NoMistakesSkipsProvider(t *testing.T) {
	mock := llm.NewMockProvider()
	svc := NewService(mock, DefaultConfig())

	got, err := svc.Explain(context.Background(), testPool().Questions, nil)
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d explanations, want 0", len(got))
	}
	if mock.CallCount() != 0 {
		t.Errorf("provider called %d times, want 0", mock.CallCount())
	}
}

func TestExtractPayload(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bare array", `[1,2]`, `[1,2]`},
		{"prose before object", `Aquí va: {"a":1}`, `{"a":1}`},
		{"invalid json wraps raw", `~~~`, `{"raw":"~~~"}`},
		{"bracket but broken", `ver [1,2`, `{"raw":"ver [1,2"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(extractPayload(json.RawMessage(tt.content)))
			if got != tt.want {
				t.Errorf("extractPayload(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

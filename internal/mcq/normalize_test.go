package mcq

import (
	"encoding/json"
	"strings"
	"testing"
)

func basePool() *Pool {
	return &Pool{
		Questions: []Question{
			{
				ID:     "q1",
				Type:   TypeSingle,
				Prompt: "Pregunta base",
				Options: []Option{
					{ID: "a", Text: "A"},
					{ID: "b", Text: "B"},
				},
				Answer: []string{"a"},
				Source: SourceBase,
			},
		},
	}
}

const generatedItem = `{
	"id": "g1",
	"type": "radio",
	"prompt": "Qué protocolo usa el puerto 443?",
	"options": [
		{"id": "a", "text": "HTTP"},
		{"id": "b", "text": "HTTPS"}
	],
	"answer": ["b"],
	"explanation": "443 es el puerto estándar de HTTPS."
}`

func TestNormalizeGenerated_BareArray(t *testing.T) {
	out := NormalizeGenerated(basePool(), json.RawMessage(`[`+generatedItem+`]`))
	if len(out) != 1 {
		t.Fatalf("expected 1 question, got %d", len(out))
	}
	q := out[0]
	if q.ID != "g1" {
		t.Errorf("id not preserved: %q", q.ID)
	}
	if q.Source != SourceGenerated {
		t.Errorf("source not forced to generated: %q", q.Source)
	}
	if q.Explanation == "" {
		t.Error("explanation should pass through")
	}
}

func TestNormalizeGenerated_NilPool(t *testing.T) {
	out := NormalizeGenerated(nil, json.RawMessage(`[`+generatedItem+`]`))
	if len(out) != 1 {
		t.Fatalf("expected 1 question, got %d", len(out))
	}
	if out[0].ID != "g1" {
		t.Errorf("id not preserved: %q", out[0].ID)
	}
}

func TestNormalizeGenerated_QuestionsWrapper(t *testing.T) {
	out := NormalizeGenerated(basePool(), json.RawMessage(`{"questions": [`+generatedItem+`]}`))
	if len(out) != 1 {
		t.Fatalf("expected 1 question, got %d", len(out))
	}
}

func TestNormalizeGenerated_RawWrapper(t *testing.T) {
	embedded := "Claro, aquí están las preguntas:\n[" + generatedItem + "]"
	wrapper, err := json.Marshal(map[string]string{"raw": embedded})
	if err != nil {
		t.Fatal(err)
	}
	out := NormalizeGenerated(basePool(), wrapper)
	if len(out) != 1 {
		t.Fatalf("expected 1 question from raw wrapper, got %d", len(out))
	}
}

func TestNormalizeGenerated_RawWithoutArray(t *testing.T) {
	out := NormalizeGenerated(basePool(), json.RawMessage(`{"raw": "no hay JSON aquí"}`))
	if len(out) != 0 {
		t.Fatalf("expected empty result, got %d", len(out))
	}
}

func TestNormalizeGenerated_Garbage(t *testing.T) {
	for _, raw := range []string{`"texto"`, `42`, `{"otra": true}`, `not json`} {
		if out := NormalizeGenerated(basePool(), json.RawMessage(raw)); len(out) != 0 {
			t.Errorf("input %q: expected empty result, got %d", raw, len(out))
		}
	}
}

func TestNormalizeGenerated_IDCollisions(t *testing.T) {
	// Two items both claiming "q1", which already exists in the pool.
	batch := `[` + strings.ReplaceAll(generatedItem, `"g1"`, `"q1"`) + `,` +
		strings.ReplaceAll(generatedItem, `"g1"`, `"q1"`) + `]`

	out := NormalizeGenerated(basePool(), json.RawMessage(batch))
	if len(out) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(out))
	}
	if out[0].ID != "q1-1" {
		t.Errorf("first collision should suffix -1, got %q", out[0].ID)
	}
	if out[1].ID != "q1-2" {
		t.Errorf("second collision should suffix -2, got %q", out[1].ID)
	}
}

func TestNormalizeGenerated_SynthesizedFields(t *testing.T) {
	raw := json.RawMessage(`[{
		"options": [{}, {"text": "Sí"}],
		"answer": ["opt-0"]
	}]`)
	out := NormalizeGenerated(basePool(), raw)
	if len(out) != 1 {
		t.Fatalf("expected 1 question, got %d", len(out))
	}
	q := out[0]
	if !strings.HasPrefix(q.ID, "ai-") {
		t.Errorf("missing id should be synthesized, got %q", q.ID)
	}
	if q.Prompt != "Pregunta generada #1" {
		t.Errorf("missing prompt should get placeholder, got %q", q.Prompt)
	}
	if q.Options[0].ID != "opt-0" || q.Options[0].Text != "Opción 1" {
		t.Errorf("placeholder option wrong: %+v", q.Options[0])
	}
	if q.Options[1].ID != "opt-1" || q.Options[1].Text != "Sí" {
		t.Errorf("partial option wrong: %+v", q.Options[1])
	}
	if q.Type != TypeSingle {
		t.Errorf("type should default to single-select, got %q", q.Type)
	}
}

func TestNormalizeGenerated_Rejections(t *testing.T) {
	tests := []struct {
		name string
		item string
	}{
		{
			"one option",
			`{"id": "x", "prompt": "p", "options": [{"id": "a", "text": "A"}], "answer": ["a"]}`,
		},
		{
			"no answer",
			`{"id": "x", "prompt": "p",
			  "options": [{"id": "a", "text": "A"}, {"id": "b", "text": "B"}], "answer": []}`,
		},
		{
			"answer not an array",
			`{"id": "x", "prompt": "p",
			  "options": [{"id": "a", "text": "A"}, {"id": "b", "text": "B"}], "answer": "a"}`,
		},
		{
			"answer references missing option",
			`{"id": "x", "prompt": "p",
			  "options": [{"id": "a", "text": "A"}, {"id": "b", "text": "B"}], "answer": ["z"]}`,
		},
		{
			"single-select with two answers",
			`{"id": "x", "type": "radio", "prompt": "p",
			  "options": [{"id": "a", "text": "A"}, {"id": "b", "text": "B"}], "answer": ["a", "b"]}`,
		},
		{
			"options emptied by text filter",
			`{"id": "x", "prompt": "p",
			  "options": [{"id": "a", "text": ""}, {"id": "b", "text": ""}], "answer": ["a"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NormalizeGenerated(basePool(), json.RawMessage(`[`+tt.item+`]`))
			if len(out) != 0 {
				t.Errorf("expected rejection, got %d questions", len(out))
			}
		})
	}
}

func TestNormalizeGenerated_OrderPreserved(t *testing.T) {
	batch := `[
		` + strings.ReplaceAll(generatedItem, `"g1"`, `"gA"`) + `,
		{"id": "bad", "prompt": "p", "options": [], "answer": ["a"]},
		` + strings.ReplaceAll(generatedItem, `"g1"`, `"gB"`) + `
	]`
	out := NormalizeGenerated(basePool(), json.RawMessage(batch))
	if len(out) != 2 {
		t.Fatalf("expected 2 accepted questions, got %d", len(out))
	}
	if out[0].ID != "gA" || out[1].ID != "gB" {
		t.Errorf("order not preserved: %q, %q", out[0].ID, out[1].ID)
	}
}

func TestNormalizeGenerated_MultiSelectOnlyWhenExplicit(t *testing.T) {
	multi := `{"id": "m1", "type": "checkbox", "prompt": "p",
		"options": [{"id": "a", "text": "A"}, {"id": "b", "text": "B"}],
		"answer": ["a", "b"]}`
	out := NormalizeGenerated(basePool(), json.RawMessage(`[`+multi+`]`))
	if len(out) != 1 {
		t.Fatalf("expected 1 question, got %d", len(out))
	}
	if out[0].Type != TypeMulti {
		t.Errorf("explicit checkbox should stay multi-select, got %q", out[0].Type)
	}
}

func TestNormalizeGenerated_NumericAnswerStringified(t *testing.T) {
	item := `{"id": "n1", "prompt": "p",
		"options": [{"id": "1", "text": "Uno"}, {"id": "2", "text": "Dos"}],
		"answer": [2]}`
	out := NormalizeGenerated(basePool(), json.RawMessage(`[`+item+`]`))
	if len(out) != 1 {
		t.Fatalf("expected 1 question, got %d", len(out))
	}
	if out[0].Answer[0] != "2" {
		t.Errorf("numeric answer should stringify, got %q", out[0].Answer[0])
	}
}

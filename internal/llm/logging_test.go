package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

type captureLog struct {
	records []RequestRecord
}

func (c *captureLog) AppendLLMRequest(_ context.Context, rec RequestRecord) error {
	c.records = append(c.records, rec)
	return nil
}

func TestLogging_RecordsSuccess(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"explanations":{}}`),
		Usage:   Usage{InputTokens: 100, OutputTokens: 50, TotalTokens: 150},
	})
	log := &captureLog{}
	p := WithLogging(mock, "openai", log)

	ctx := WithPurpose(context.Background(), "explain")
	_, err := p.Generate(ctx, Request{Messages: []Message{{Role: RoleUser, Content: "hola"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(log.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(log.records))
	}
	rec := log.records[0]
	if rec.Purpose != "explain" {
		t.Errorf("purpose = %q, want explain", rec.Purpose)
	}
	// The backend name and the model are separate columns.
	if rec.Provider != "openai" {
		t.Errorf("provider = %q, want openai", rec.Provider)
	}
	if rec.Model != "mock" {
		t.Errorf("model = %q, want mock", rec.Model)
	}
	if !rec.Success || rec.InputTokens != 100 || rec.OutputTokens != 50 {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestLogging_RecordsFailure(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}})
	log := &captureLog{}
	p := WithLogging(mock, "mock", log)

	_, err := p.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(log.records) != 1 || log.records[0].Success {
		t.Fatalf("failure should be recorded: %+v", log.records)
	}
	if log.records[0].ErrorMessage == "" {
		t.Error("error message missing from record")
	}
}

func TestLogging_NilLogStillTracksUsage(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{}`), Usage: Usage{InputTokens: 20, OutputTokens: 10, TotalTokens: 30}},
	)
	p := WithLogging(mock, "mock", nil)

	for i := 0; i < 2; i++ {
		if _, err := p.Generate(context.Background(), Request{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	requests, total, _, _ := p.Usage().Snapshot()
	if requests != 2 {
		t.Errorf("requests = %d, want 2", requests)
	}
	if total.InputTokens != 30 || total.OutputTokens != 15 || total.TotalTokens != 45 {
		t.Errorf("unexpected totals: %+v", total)
	}
}

func TestUsageTracker_Cost(t *testing.T) {
	tr := NewUsageTracker()
	tr.Add("gpt-4.1-mini", Usage{InputTokens: 1_000_000, OutputTokens: 1_000_000})
	_, _, cost, known := tr.Snapshot()
	if !known {
		t.Fatal("cost should be known for a priced model")
	}
	if cost < 1.99 || cost > 2.01 {
		t.Errorf("cost = %f, want 2.0", cost)
	}

	tr2 := NewUsageTracker()
	tr2.Add("desconocido", Usage{InputTokens: 100, OutputTokens: 100})
	if _, _, _, known := tr2.Snapshot(); known {
		t.Error("cost should be unknown for an unpriced model")
	}
}

// Package tutor is quizdeck's LLM boundary. It turns the question pool
// into prompts for two operations, generating extra questions and
// explaining graded mistakes, and hands the raw model output back in a
// shape the mcq package knows how to normalize.
package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/quizdeck/internal/llm"
	"github.com/abhisek/quizdeck/internal/mcq"
)

// Service issues augment and explain requests against an LLM provider.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a tutor service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Augment asks the model for count additional questions in the style of
// the given pool. The returned payload is whatever JSON could be pulled
// out of the completion; callers normalize it with
// mcq.NormalizeGenerated, which tolerates arrays, wrapper objects and
// raw text alike.
func (s *Service) Augment(ctx context.Context, pool *mcq.Pool, count int) (json.RawMessage, error) {
	ctx = llm.WithPurpose(ctx, "augment")

	if count <= 0 {
		count = 10
	}

	req := llm.Request{
		System: augmentSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildAugmentUserMessage(pool, count)},
		},
		MaxTokens:   s.cfg.AugmentMaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("augment generation: %w", err)
	}

	return extractPayload(resp.Content), nil
}

type explanationsOutput struct {
	Explanations map[string]string `json:"explanations"`
}

// Explain asks the model for brief explanations of the incorrectly
// answered questions. The result maps question id to explanation text;
// ids the model invents that are not among the mistakes are dropped.
func (s *Service) Explain(ctx context.Context, questions []mcq.Question, mistakes []mcq.Result) (map[string]string, error) {
	ctx = llm.WithPurpose(ctx, "explain")

	if len(mistakes) == 0 {
		return map[string]string{}, nil
	}

	req := llm.Request{
		System: explainSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildExplainUserMessage(questions, mistakes)},
		},
		Schema:      ExplanationsSchema,
		MaxTokens:   s.cfg.ExplainMaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("explain generation: %w", err)
	}

	var out explanationsOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse explanations: %w", err)
	}

	asked := make(map[string]bool, len(mistakes))
	for _, m := range mistakes {
		asked[m.ID] = true
	}

	explanations := make(map[string]string, len(out.Explanations))
	for id, text := range out.Explanations {
		if asked[id] && text != "" {
			explanations[id] = text
		}
	}
	return explanations, nil
}

// extractPayload pulls a JSON document out of a completion that may
// carry prose around it. It parses from the first bracket or brace;
// when nothing parseable is found the full text is wrapped as
// {"raw": content} so downstream normalization still sees JSON.
func extractPayload(content json.RawMessage) json.RawMessage {
	start := -1
	for i, c := range content {
		if c == '[' || c == '{' {
			start = i
			break
		}
	}
	if start >= 0 {
		candidate := bytes.TrimSpace(content[start:])
		if json.Valid(candidate) {
			return candidate
		}
	}

	wrapped, err := json.Marshal(map[string]string{"raw": string(content)})
	if err != nil {
		return json.RawMessage(`{"raw":""}`)
	}
	return wrapped
}

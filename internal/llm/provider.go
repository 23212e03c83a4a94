package llm

import (
	"context"
	"encoding/json"
)

// Provider abstracts the text-generation backend the tutor talks to.
// Quizdeck issues two kinds of requests through it: question augmentation
// and mistake explanation.
type Provider interface {
	// Generate sends one request and returns the model's output. When the
	// request carries a Schema, the provider uses its native structured
	// output mechanism and the returned Content is schema-valid JSON;
	// otherwise Content is the raw text of the completion.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured with.
	ModelID() string
}

// Request describes a single LLM call.
type Request struct {
	// System sets the model's role and constraints. Optional.
	System string

	// Messages is the conversation. Quizdeck only ever sends a single
	// user message, but the slice keeps the boundary general.
	Messages []Message

	// Schema, when set, constrains the response to the given JSON shape.
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature in [0, 1]. Zero means deterministic.
	Temperature float64
}

// Message is one turn in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role identifies the message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names and defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies the schema, kebab-case (e.g. "mistake-explanations").
	// Used as the structured-output name where the backend wants one.
	Name string

	// Description tells the model what the schema represents.
	Description string

	// Definition is the JSON Schema document as a map.
	Definition map[string]any
}

// Response is the model's output plus accounting metadata.
type Response struct {
	// Content is the generated output. Schema-validated JSON when the
	// request had a Schema, raw completion text otherwise.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

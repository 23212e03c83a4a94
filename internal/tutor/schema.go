package tutor

import "github.com/abhisek/quizdeck/internal/llm"

// ExplanationsSchema defines the JSON schema for per-question mistake
// explanations, keyed by question id.
var ExplanationsSchema = &llm.Schema{
	Name:        "mistake-explanations",
	Description: "Short explanations for incorrectly answered questions, keyed by question id",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanations": map[string]any{
				"type":        "object",
				"description": "Map from question id to a brief explanation of the correct answer",
				"additionalProperties": map[string]any{
					"type": "string",
				},
			},
		},
		"required":             []any{"explanations"},
		"additionalProperties": false,
	},
}

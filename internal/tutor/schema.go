package tutor

import "github.com/exammentor/exammentor/internal/llm"

// ExplanationSchema defines the JSON schema for structured explanations.
var ExplanationSchema = &llm.Schema{
	Name:        "tutor-explanation",
	Description: "A complete Feynman-style explanation of one exam topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic": map[string]any{"type": "string"},
			"intuition": map[string]any{
				"type":        "string",
				"description": "Simple one-line intuition for the concept",
			},
			"steps": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"step_number": map[string]any{"type": "integer"},
						"title":       map[string]any{"type": "string"},
						"content":     map[string]any{"type": "string"},
						"analogy": map[string]any{
							"type":        "string",
							"description": "Optional analogy to make the concept clearer",
						},
					},
					"required":             []any{"step_number", "title", "content"},
					"additionalProperties": false,
				},
			},
			"real_world_example": map[string]any{"type": "string"},
			"common_pitfall": map[string]any{
				"type":        "string",
				"description": "Common mistake students make with this topic",
			},
			"practice_question": map[string]any{
				"type":        "string",
				"description": "Quick check question",
			},
		},
		"required":             []any{"topic", "intuition", "steps", "real_world_example", "common_pitfall"},
		"additionalProperties": false,
	},
}

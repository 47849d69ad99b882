package router

import "github.com/exammentor/exammentor/internal/llm"

// DecisionSchema defines the JSON schema for routing responses.
var DecisionSchema = &llm.Schema{
	Name:        "route-decision",
	Description: "Classification of a user request into intent, exam, and syllabus scope",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"intent": map[string]any{
				"type": "string",
				"enum": []any{"plan", "explain", "quiz", "autopilot", "unknown"},
			},
			"exam": map[string]any{
				"type": "string",
				"enum": []any{"neet", "jee", "upsc", "cat", "none"},
			},
			"scope": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"subject": map[string]any{
						"type":        "string",
						"description": "Subject the request targets, e.g. physics, polity, quant",
					},
					"sub_subject": map[string]any{
						"type":        "string",
						"description": "Sub-subject when the subject has nested divisions, e.g. organic",
					},
					"topics": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
				},
				"required":             []any{"subject"},
				"additionalProperties": false,
			},
			"confidence": map[string]any{
				"type":    "number",
				"minimum": 0.0,
				"maximum": 1.0,
			},
			"needs_clarification": map[string]any{
				"type": "boolean",
			},
			"clarifying_question": map[string]any{
				"type":        "string",
				"description": "One short question to ask when the request cannot be acted on",
			},
		},
		"required":             []any{"intent", "exam", "scope", "confidence", "needs_clarification"},
		"additionalProperties": false,
	},
}

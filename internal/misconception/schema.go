package misconception

import "github.com/exammentor/exammentor/internal/llm"

// AnalysisSchema defines the JSON schema for misconception diagnoses.
var AnalysisSchema = &llm.Schema{
	Name:        "misconception-analysis",
	Description: "Diagnosis of a wrong answer with a counter-example and redemption question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"wrong_option_chosen": map[string]any{"type": "string"},
			"inferred_confusion": map[string]any{
				"type":        "string",
				"description": "The underlying conceptual mistake inferred from the wrong choice",
			},
			"counter_example": map[string]any{
				"type":        "string",
				"description": "A specific example or logic that breaks the misconception",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Pedagogical explanation of why the logic was flawed",
			},
			"redemption_question": map[string]any{
				"type":        "object",
				"description": "A fresh question to verify the misconception is cleared",
				"properties": map[string]any{
					"id":   map[string]any{"type": "string"},
					"text": map[string]any{"type": "string"},
					"options": map[string]any{
						"type":     "array",
						"items":    map[string]any{"type": "string"},
						"minItems": 4,
						"maxItems": 4,
					},
					"correct_option_index": map[string]any{
						"type":    "integer",
						"minimum": 0,
						"maximum": 3,
					},
					"explanation":    map[string]any{"type": "string"},
					"difficulty":     map[string]any{"type": "string", "enum": []any{"easy", "medium", "hard"}},
					"concept_tested": map[string]any{"type": "string"},
				},
				"required":             []any{"id", "text", "options", "correct_option_index", "explanation", "difficulty", "concept_tested"},
				"additionalProperties": false,
			},
		},
		"required":             []any{"wrong_option_chosen", "inferred_confusion", "counter_example", "explanation", "redemption_question"},
		"additionalProperties": false,
	},
}

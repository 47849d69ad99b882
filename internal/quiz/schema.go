package quiz

import "github.com/exammentor/exammentor/internal/llm"

// QuizSchema defines the JSON schema for generated quizzes.
var QuizSchema = &llm.Schema{
	Name:        "quiz",
	Description: "A multiple-choice quiz on one exam topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic": map[string]any{"type": "string"},
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
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
							"type":        "integer",
							"minimum":     0,
							"maximum":     3,
							"description": "0-based index of the correct option",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Why this answer is correct",
						},
						"difficulty": map[string]any{
							"type": "string",
							"enum": []any{"easy", "medium", "hard"},
						},
						"concept_tested": map[string]any{
							"type":        "string",
							"description": "The specific concept this question tests",
						},
					},
					"required":             []any{"id", "text", "options", "correct_option_index", "explanation", "difficulty", "concept_tested"},
					"additionalProperties": false,
				},
			},
			"time_estimate_minutes": map[string]any{"type": "integer"},
		},
		"required":             []any{"topic", "questions", "time_estimate_minutes"},
		"additionalProperties": false,
	},
}

// EvaluationSchema defines the JSON schema for answer feedback.
var EvaluationSchema = &llm.Schema{
	Name:        "answer-evaluation",
	Description: "Personalized feedback on one submitted quiz answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"is_correct": map[string]any{"type": "boolean"},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Personalized feedback for this answer",
			},
			"misconception": map[string]any{
				"type":        "string",
				"description": "Identified misconception if wrong",
			},
			"hint_for_similar": map[string]any{
				"type":        "string",
				"description": "Tip for similar questions",
			},
		},
		"required":             []any{"is_correct", "feedback", "hint_for_similar"},
		"additionalProperties": false,
	},
}

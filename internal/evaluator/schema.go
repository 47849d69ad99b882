package evaluator

import "github.com/exammentor/exammentor/internal/llm"

// PerformanceAnalysisSchema defines the JSON schema for performance reports.
var PerformanceAnalysisSchema = &llm.Schema{
	Name:        "performance-analysis",
	Description: "Quiz performance analysis with mastery breakdown, misconceptions and recommendations",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"overall_score": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"maximum":     100,
				"description": "Overall performance 0-100",
			},
			"summary": map[string]any{
				"type":        "string",
				"description": "Brief performance summary",
			},
			"topic_mastery": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"topic": map[string]any{"type": "string"},
						"score": map[string]any{
							"type":    "integer",
							"minimum": 0,
							"maximum": 100,
						},
						"status": map[string]any{
							"type": "string",
							"enum": []any{"mastered", "learning", "weak", "pending"},
						},
						"strength": map[string]any{
							"type":        "string",
							"description": "What the student does well",
						},
						"weakness": map[string]any{
							"type":        "string",
							"description": "Where the student struggles",
						},
					},
					"required":             []any{"topic", "score", "status", "strength", "weakness"},
					"additionalProperties": false,
				},
			},
			"misconceptions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"concept": map[string]any{"type": "string"},
						"description": map[string]any{
							"type":        "string",
							"description": "What the student misunderstands",
						},
						"correction": map[string]any{
							"type":        "string",
							"description": "The correct understanding",
						},
						"suggested_review": map[string]any{
							"type":        "string",
							"description": "What to review to fix this",
						},
					},
					"required":             []any{"concept", "description", "correction", "suggested_review"},
					"additionalProperties": false,
				},
			},
			"recommendations": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"priority": map[string]any{
							"type":        "integer",
							"minimum":     1,
							"description": "1 = highest priority",
						},
						"topic": map[string]any{"type": "string"},
						"action": map[string]any{
							"type":        "string",
							"description": "Specific action to take",
						},
						"time_estimate": map[string]any{
							"type":        "string",
							"description": "How long this will take",
						},
					},
					"required":             []any{"priority", "topic", "action", "time_estimate"},
					"additionalProperties": false,
				},
			},
			"encouragement": map[string]any{
				"type":        "string",
				"description": "Motivational message for the student",
			},
		},
		"required":             []any{"overall_score", "summary", "topic_mastery", "misconceptions", "recommendations", "encouragement"},
		"additionalProperties": false,
	},
}

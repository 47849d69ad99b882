package plan

import "github.com/exammentor/exammentor/internal/llm"

// StudyPlanSchema defines the JSON schema for generated study plans.
var StudyPlanSchema = &llm.Schema{
	Name:        "study-plan",
	Description: "A multi-day exam study schedule with per-day topics and workload estimates",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"exam_name": map[string]any{"type": "string"},
			"total_days": map[string]any{
				"type":        "integer",
				"description": "Total duration of the plan in days",
			},
			"overview": map[string]any{
				"type":        "string",
				"description": "Brief strategy summary for the student",
			},
			"schedule": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"day":   map[string]any{"type": "integer"},
						"theme": map[string]any{"type": "string"},
						"topics": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"name": map[string]any{"type": "string"},
									"difficulty": map[string]any{
										"type": "string",
										"enum": []any{"easy", "medium", "hard"},
									},
									"rationale": map[string]any{
										"type":        "string",
										"description": "Why this topic matters for this exam",
									},
								},
								"required":             []any{"name", "difficulty", "rationale"},
								"additionalProperties": false,
							},
						},
						"estimated_hours": map[string]any{"type": "number"},
					},
					"required":             []any{"day", "theme", "topics", "estimated_hours"},
					"additionalProperties": false,
				},
			},
			"critical_topics": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "The 3-5 highest-impact topics",
			},
		},
		"required":             []any{"exam_name", "total_days", "overview", "schedule", "critical_topics"},
		"additionalProperties": false,
	},
}

// VerificationSchema defines the JSON schema for plan critiques.
var VerificationSchema = &llm.Schema{
	Name:        "plan-verification",
	Description: "Critique of a study plan against syllabus coverage and workload constraints",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"is_valid": map[string]any{
				"type":        "boolean",
				"description": "True only when the plan passes every constraint",
			},
			"missing_topics": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"overloaded_days": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "integer"},
				"description": "Day numbers scheduled for more than 8 hours",
			},
			"prerequisite_issues": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"critique": map[string]any{
				"type":        "string",
				"description": "Free-text assessment of the plan's weaknesses",
			},
		},
		"required":             []any{"is_valid", "missing_topics", "overloaded_days", "prerequisite_issues", "critique"},
		"additionalProperties": false,
	},
}

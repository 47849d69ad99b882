package autopilot

import "github.com/exammentor/exammentor/internal/llm"

// topicSelection is the model's next-topic decision.
type topicSelection struct {
	SelectedTopic       string  `json:"selected_topic"`
	Reasoning           string  `json:"reasoning"`
	PriorityScore       float64 `json:"priority_score"`
	PrerequisitesMet    bool    `json:"prerequisites_met"`
	EstimatedDifficulty string  `json:"estimated_difficulty"`
}

// TopicSelectionSchema defines the JSON schema for topic selection decisions.
var TopicSelectionSchema = &llm.Schema{
	Name:        "topic-selection",
	Description: "Decision on which topic to teach next, with priority and reasoning",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"selected_topic": map[string]any{"type": "string"},
			"reasoning": map[string]any{
				"type":        "string",
				"description": "Why this topic was chosen next",
			},
			"priority_score": map[string]any{
				"type":        "number",
				"minimum":     0.0,
				"maximum":     1.0,
				"description": "Topic urgency",
			},
			"prerequisites_met": map[string]any{"type": "boolean"},
			"estimated_difficulty": map[string]any{
				"type": "string",
				"enum": []any{"easy", "medium", "hard"},
			},
		},
		"required":             []any{"selected_topic", "reasoning", "priority_score", "prerequisites_met", "estimated_difficulty"},
		"additionalProperties": false,
	},
}

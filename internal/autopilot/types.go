// Package autopilot runs unattended study sessions: an engine loops through
// topic selection, teaching, quizzing, and misconception analysis, logging
// every decision with its reasoning.
package autopilot

import "time"

// Action tags one entry in a session's run log.
type Action string

const (
	ActionSessionStarted        Action = "session_started"
	ActionTopicSelected         Action = "topic_selected"
	ActionLessonStarted         Action = "lesson_started"
	ActionLessonCompleted       Action = "lesson_completed"
	ActionQuizGenerated         Action = "quiz_generated"
	ActionAnswerEvaluated       Action = "answer_evaluated"
	ActionMisconceptionDetected Action = "misconception_detected"
	ActionMisconceptionBusted   Action = "misconception_busted"
	ActionTopicCompleted        Action = "topic_completed"
	ActionPlanUpdated           Action = "plan_updated"
	ActionSessionPaused         Action = "session_paused"
	ActionSessionCompleted      Action = "session_completed"
	ActionSelfCorrection        Action = "self_correction"
)

// Step is one immutable run-log entry. Steps are appended in causal order
// and never mutated after creation.
type Step struct {
	Timestamp  time.Time      `json:"timestamp"`
	Action     Action         `json:"action"`
	Data       map[string]any `json:"data"`
	Reasoning  string         `json:"reasoning"`
	DurationMS int64          `json:"duration_ms,omitempty"`
}

// Status is a session's lifecycle state.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Session phases within one loop iteration.
const (
	PhaseSelectingTopic = "selecting_topic"
	PhaseTeaching       = "teaching"
	PhaseQuizzing       = "quizzing"
	PhaseAnalyzing      = "analyzing"
)

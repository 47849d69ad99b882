// Package workflow provides the finite-state guard that constrains which
// high-level actions are legal in each phase of a guided study session.
package workflow

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/exammentor/exammentor/internal/store"
)

// Phase is one stage of the guided study workflow.
type Phase string

const (
	PhaseIntake    Phase = "INTAKE"
	PhasePlanning  Phase = "PLANNING"
	PhaseLearning  Phase = "LEARNING"
	PhaseQuizzing  Phase = "QUIZZING"
	PhaseAnalyzing Phase = "ANALYZING"
	PhaseCompleted Phase = "COMPLETED"
)

// Action names a workflow action a caller may attempt from some phase.
type Action string

const (
	ActionGeneratePlan  Action = "generate_plan"
	ActionStartTopic    Action = "start_topic"
	ActionTakeQuiz      Action = "take_quiz"
	ActionSubmitAnswers Action = "submit_answers"
	ActionNextTopic     Action = "next_topic"
	ActionComplete      Action = "complete"
)

// transitions is the fixed phase/action table. Pairs not present leave the
// phase unchanged.
var transitions = map[Phase]map[Action]Phase{
	PhaseIntake:   {ActionGeneratePlan: PhasePlanning},
	PhasePlanning: {ActionStartTopic: PhaseLearning},
	PhaseLearning: {ActionTakeQuiz: PhaseQuizzing},
	PhaseQuizzing: {ActionSubmitAnswers: PhaseAnalyzing},
	PhaseAnalyzing: {
		ActionNextTopic: PhasePlanning,
		ActionComplete:  PhaseCompleted,
	},
}

// Transition returns the phase reached by taking action from phase. Unknown
// pairs return the input phase unchanged so that callers can retry actions
// idempotently without error handling.
func Transition(phase Phase, action Action) Phase {
	if next, ok := transitions[phase][action]; ok {
		return next
	}
	return phase
}

// ValidActions returns the actions with an outgoing transition from phase.
// COMPLETED has none.
func ValidActions(phase Phase) []Action {
	out := transitions[phase]
	if len(out) == 0 {
		return nil
	}
	actions := make([]Action, 0, len(out))
	// Stable order keeps API responses deterministic.
	for _, a := range []Action{
		ActionGeneratePlan, ActionStartTopic, ActionTakeQuiz,
		ActionSubmitAnswers, ActionNextTopic, ActionComplete,
	} {
		if _, ok := out[a]; ok {
			actions = append(actions, a)
		}
	}
	return actions
}

// StudentContext carries the per-session student state the workflow tracks
// across phases.
type StudentContext struct {
	UserID         string         `json:"user_id"`
	SessionID      string         `json:"session_id"`
	CurrentTopic   string         `json:"current_topic,omitempty"`
	LastQuizScore  float64        `json:"last_quiz_score"`
	Misconceptions []string       `json:"misconceptions,omitempty"`
	Extra          map[string]any `json:"extra,omitempty"`
}

// Machine tracks one session's phase and context, persisting both through a
// session repository. Store failures are logged and otherwise ignored: the
// in-memory state stays authoritative.
type Machine struct {
	sessionID string
	phase     Phase
	studentCtx StudentContext
	sessions  store.SessionRepo
	logger    *slog.Logger
}

// NewMachine returns a machine in the INTAKE phase. sessions may be nil, in
// which case the machine runs purely in memory.
func NewMachine(sessionID string, sessions store.SessionRepo, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	return &Machine{
		sessionID: sessionID,
		phase:     PhaseIntake,
		studentCtx: StudentContext{
			SessionID: sessionID,
		},
		sessions: sessions,
		logger:   logger,
	}
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.phase }

// Context returns the current student context.
func (m *Machine) Context() StudentContext { return m.studentCtx }

// SetContext replaces the student context.
func (m *Machine) SetContext(sc StudentContext) { m.studentCtx = sc }

// Apply takes action from the current phase, logs it, and persists the new
// state. The returned phase equals the old one when the action has no
// transition.
func (m *Machine) Apply(ctx context.Context, action Action, metadata map[string]any) Phase {
	from := m.phase
	m.phase = Transition(m.phase, action)
	m.LogAction(ctx, action, metadata)
	if m.phase != from {
		m.Save(ctx)
	}
	return m.phase
}

// Save persists the current phase and context. Errors are logged, not
// returned.
func (m *Machine) Save(ctx context.Context) {
	if m.sessions == nil {
		return
	}
	raw, err := json.Marshal(m.studentCtx)
	if err != nil {
		m.logger.Warn("failed to serialize student context", "session_id", m.sessionID, "error", err)
		return
	}
	if err := m.sessions.SaveState(ctx, m.sessionID, string(m.phase), string(raw)); err != nil {
		m.logger.Warn("failed to persist session state", "session_id", m.sessionID, "error", err)
	}
}

// Load restores phase and context from the store. A missing record or store
// error leaves the machine untouched and returns false.
func (m *Machine) Load(ctx context.Context) bool {
	if m.sessions == nil {
		return false
	}
	rec, err := m.sessions.LoadState(ctx, m.sessionID)
	if err != nil {
		m.logger.Warn("failed to load session state", "session_id", m.sessionID, "error", err)
		return false
	}
	if rec == nil {
		return false
	}
	var sc StudentContext
	if err := json.Unmarshal([]byte(rec.Context), &sc); err != nil {
		m.logger.Warn("failed to decode stored student context", "session_id", m.sessionID, "error", err)
		return false
	}
	m.phase = Phase(rec.Phase)
	m.studentCtx = sc
	return true
}

// LogAction appends one entry to the session's action history. Errors are
// logged, not returned.
func (m *Machine) LogAction(ctx context.Context, action Action, metadata map[string]any) {
	if m.sessions == nil {
		return
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	raw, err := json.Marshal(metadata)
	if err != nil {
		m.logger.Warn("failed to serialize action metadata", "session_id", m.sessionID, "error", err)
		return
	}
	if err := m.sessions.AppendAction(ctx, m.sessionID, string(action), string(raw)); err != nil {
		m.logger.Warn("failed to record session action", "session_id", m.sessionID, "error", err)
	}
}

package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/exammentor/exammentor/internal/store"
)

func TestTransition_Table(t *testing.T) {
	cases := []struct {
		from   Phase
		action Action
		want   Phase
	}{
		{PhaseIntake, ActionGeneratePlan, PhasePlanning},
		{PhasePlanning, ActionStartTopic, PhaseLearning},
		{PhaseLearning, ActionTakeQuiz, PhaseQuizzing},
		{PhaseQuizzing, ActionSubmitAnswers, PhaseAnalyzing},
		{PhaseAnalyzing, ActionNextTopic, PhasePlanning},
		{PhaseAnalyzing, ActionComplete, PhaseCompleted},
	}
	for _, tc := range cases {
		if got := Transition(tc.from, tc.action); got != tc.want {
			t.Errorf("Transition(%s, %s) = %s, want %s", tc.from, tc.action, got, tc.want)
		}
	}
}

func TestTransition_UnknownPairsStayPut(t *testing.T) {
	phases := []Phase{
		PhaseIntake, PhasePlanning, PhaseLearning,
		PhaseQuizzing, PhaseAnalyzing, PhaseCompleted,
	}
	actions := []Action{
		ActionGeneratePlan, ActionStartTopic, ActionTakeQuiz,
		ActionSubmitAnswers, ActionNextTopic, ActionComplete,
		Action("bogus"), Action(""),
	}
	for _, p := range phases {
		for _, a := range actions {
			got := Transition(p, a)
			if _, inTable := transitions[p][a]; !inTable && got != p {
				t.Errorf("Transition(%s, %s) = %s, want unchanged %s", p, a, got, p)
			}
		}
	}
}

func TestValidActions(t *testing.T) {
	if got := ValidActions(PhaseCompleted); got != nil {
		t.Errorf("expected no actions from COMPLETED, got %v", got)
	}
	got := ValidActions(PhaseAnalyzing)
	if len(got) != 2 || got[0] != ActionNextTopic || got[1] != ActionComplete {
		t.Errorf("unexpected actions from ANALYZING: %v", got)
	}
}

// failingRepo rejects every store operation.
type failingRepo struct{}

var errStore = errors.New("store unavailable")

func (failingRepo) SaveState(context.Context, string, string, string) error { return errStore }
func (failingRepo) LoadState(context.Context, string) (*store.SessionRecord, error) {
	return nil, errStore
}
func (failingRepo) AppendAction(context.Context, string, string, string) error { return errStore }
func (failingRepo) History(context.Context, string) ([]store.ActionRecord, error) {
	return nil, errStore
}

func TestMachine_SurvivesStoreFailure(t *testing.T) {
	m := NewMachine("s-1", failingRepo{}, nil)
	ctx := context.Background()

	if got := m.Apply(ctx, ActionGeneratePlan, nil); got != PhasePlanning {
		t.Errorf("expected PLANNING after generate_plan, got %s", got)
	}
	if m.Load(ctx) {
		t.Error("Load should report false when the store fails")
	}
	if m.Phase() != PhasePlanning {
		t.Errorf("failed load must not disturb in-memory phase, got %s", m.Phase())
	}
}

func TestMachine_ApplyInvalidActionKeepsPhase(t *testing.T) {
	m := NewMachine("s-2", nil, nil)
	if got := m.Apply(context.Background(), ActionTakeQuiz, nil); got != PhaseIntake {
		t.Errorf("invalid action from INTAKE should stay put, got %s", got)
	}
}

func TestNewMachine_GeneratesSessionID(t *testing.T) {
	m := NewMachine("", nil, nil)
	if m.Context().SessionID == "" {
		t.Error("expected a generated session ID for an empty one")
	}
	if other := NewMachine("", nil, nil); other.Context().SessionID == m.Context().SessionID {
		t.Error("generated session IDs must be unique")
	}
}

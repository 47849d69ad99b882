package misconception

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/exammentor/exammentor/internal/llm"
	"github.com/exammentor/exammentor/internal/quiz"
)

func sampleQuestion() quiz.Question {
	return quiz.Question{
		ID:                 "q1",
		Text:               "What happens to boiling point at altitude?",
		Options:            []string{"Increases", "Decreases", "Unchanged", "Doubles"},
		CorrectOptionIndex: 1,
		Difficulty:         "medium",
		ConceptTested:      "Vapor pressure",
	}
}

func TestDiagnose(t *testing.T) {
	want := Analysis{
		WrongOptionChosen: "Increases",
		InferredConfusion: "believes lower pressure makes boiling harder",
		CounterExample:    "Water boils at 70°C on Everest.",
		Explanation:       "Boiling occurs when vapor pressure equals ambient pressure.",
		RedemptionQuestion: quiz.Question{
			ID:                 "r1",
			Text:               "Why do pressure cookers cook faster?",
			Options:            []string{"Higher boiling point", "Lower boiling point", "Steam is magic", "More oxygen"},
			CorrectOptionIndex: 0,
			Difficulty:         "medium",
			ConceptTested:      "Vapor pressure",
		},
	}
	raw, _ := json.Marshal(want)
	mock := llm.NewMockProvider(llm.MockResponse{Content: raw})

	a := New(mock)
	q := sampleQuestion()
	got, err := a.Diagnose(context.Background(), &q, 0, "pressure and phase changes")
	if err != nil {
		t.Fatalf("Diagnose returned error: %v", err)
	}
	if got.InferredConfusion != want.InferredConfusion {
		t.Errorf("confusion mismatch: %q", got.InferredConfusion)
	}
	if got.RedemptionQuestion.Text == "" {
		t.Error("expected a redemption question")
	}

	msg := mock.Calls[0].Messages[0].Content
	if !strings.Contains(msg, "STUDENT CHOSE: Increases") {
		t.Errorf("prompt should name the chosen option, got:\n%s", msg)
	}
	if !strings.Contains(msg, "CORRECT ANSWER: Decreases") {
		t.Errorf("prompt should name the correct option, got:\n%s", msg)
	}
}

func TestDiagnose_RejectsOutOfRangeIndex(t *testing.T) {
	a := New(llm.NewMockProvider())
	q := sampleQuestion()
	if _, err := a.Diagnose(context.Background(), &q, 9, ""); err == nil {
		t.Error("expected error for out-of-range index")
	}
}

func TestDiagnose_PropagatesProviderFailure(t *testing.T) {
	a := New(llm.NewMockProvider()) // empty queue → provider unavailable
	q := sampleQuestion()
	if _, err := a.Diagnose(context.Background(), &q, 0, ""); err == nil {
		t.Error("expected provider failure to propagate")
	}
}

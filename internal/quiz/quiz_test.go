package quiz

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/exammentor/exammentor/internal/llm"
)

func sampleQuestion() Question {
	return Question{
		ID:                 "q1",
		Text:               "Which enzyme fixes CO2 in the Calvin cycle?",
		Options:            []string{"RuBisCO", "ATP synthase", "Amylase", "Catalase"},
		CorrectOptionIndex: 0,
		Explanation:        "RuBisCO catalyzes carbon fixation.",
		Difficulty:         "medium",
		ConceptTested:      "Carbon fixation",
	}
}

func TestGenerate(t *testing.T) {
	want := Quiz{
		Topic:               "Calvin Cycle",
		Questions:           []Question{sampleQuestion()},
		TimeEstimateMinutes: 5,
	}
	raw, _ := json.Marshal(want)
	mock := llm.NewMockProvider(llm.MockResponse{Content: raw})

	g := NewGenerator(mock, Config{NumQuestions: 3})
	got, err := g.Generate(context.Background(), "Calvin Cycle", "stroma, RuBisCO", nil)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if got.Topic != "Calvin Cycle" || len(got.Questions) != 1 {
		t.Errorf("unexpected quiz: %+v", got)
	}

	msg := mock.Calls[0].Messages[0].Content
	if !strings.Contains(msg, "3-question quiz") {
		t.Errorf("prompt should carry the question count, got:\n%s", msg)
	}
}

func TestGenerate_TargetsPreviousMistakes(t *testing.T) {
	raw, _ := json.Marshal(Quiz{Topic: "Optics"})
	mock := llm.NewMockProvider(llm.MockResponse{Content: raw})

	g := NewGenerator(mock, DefaultConfig())
	_, err := g.Generate(context.Background(), "Optics", "", []string{"confuses real and virtual images"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	msg := mock.Calls[0].Messages[0].Content
	if !strings.Contains(msg, "confuses real and virtual images") {
		t.Errorf("prompt should target previous mistakes, got:\n%s", msg)
	}
}

func TestGrade(t *testing.T) {
	q := sampleQuestion()
	if !Grade(&q, 0) {
		t.Error("index 0 should be correct")
	}
	if Grade(&q, 2) {
		t.Error("index 2 should be wrong")
	}
}

func TestEvaluate_CorrectnessIsLocal(t *testing.T) {
	// The model claims incorrect; local grading overrides it.
	raw, _ := json.Marshal(Evaluation{IsCorrect: false, Feedback: "good", HintForSimilar: "read carefully"})
	mock := llm.NewMockProvider(llm.MockResponse{Content: raw})

	g := NewGenerator(mock, DefaultConfig())
	q := sampleQuestion()
	got, err := g.Evaluate(context.Background(), &q, 0, "context")
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !got.IsCorrect {
		t.Error("local grading should mark index 0 correct regardless of model output")
	}
}

func TestEvaluate_RejectsOutOfRangeIndex(t *testing.T) {
	g := NewGenerator(llm.NewMockProvider(), DefaultConfig())
	q := sampleQuestion()
	if _, err := g.Evaluate(context.Background(), &q, 7, ""); err == nil {
		t.Error("expected error for out-of-range answer index")
	}
}

func TestGenerate_FillsMissingQuestionIDs(t *testing.T) {
	q := sampleQuestion()
	q.ID = ""
	raw, _ := json.Marshal(Quiz{Topic: "Calvin Cycle", Questions: []Question{q}})
	mock := llm.NewMockProvider(llm.MockResponse{Content: raw})

	g := NewGenerator(mock, DefaultConfig())
	got, err := g.Generate(context.Background(), "Calvin Cycle", "", nil)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if got.Questions[0].ID == "" {
		t.Error("expected a generated id for a question without one")
	}
}

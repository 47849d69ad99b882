package evaluator

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/exammentor/exammentor/internal/llm"
)

func sampleAnswers() []QuizAnswer {
	return []QuizAnswer{
		{
			QuestionID:    "q1",
			QuestionText:  "Where does the Calvin Cycle occur?",
			ConceptTested: "Calvin Cycle location",
			StudentAnswer: "Thylakoid",
			CorrectAnswer: "Stroma",
			IsCorrect:     false,
		},
		{
			QuestionID:    "q2",
			QuestionText:  "What is the key enzyme in carbon fixation?",
			ConceptTested: "RuBisCO function",
			StudentAnswer: "RuBisCO",
			CorrectAnswer: "RuBisCO",
			IsCorrect:     true,
		},
	}
}

func TestAnalyze(t *testing.T) {
	want := PerformanceAnalysis{
		OverallScore: 50,
		Summary:      "Solid enzyme knowledge, location confusion remains.",
		TopicMastery: []TopicMastery{
			{Topic: "Calvin Cycle location", Score: 20, Status: "weak", Strength: "none yet", Weakness: "confuses compartments"},
		},
		Misconceptions: []Misconception{
			{Concept: "Chloroplast structure", Description: "mixes up stroma and thylakoid", Correction: "dark reactions run in the stroma", SuggestedReview: "chloroplast anatomy diagram"},
		},
		Recommendations: []StudyRecommendation{
			{Priority: 1, Topic: "Chloroplast structure", Action: "redraw the compartment diagram from memory", TimeEstimate: "20 minutes"},
		},
		Encouragement: "You have the enzymes down - one diagram away from full marks.",
	}
	raw, _ := json.Marshal(want)
	mock := llm.NewMockProvider(llm.MockResponse{Content: raw})

	got, err := New(mock).Analyze(context.Background(), sampleAnswers(), "Photosynthesis", "The Calvin Cycle occurs in the stroma of chloroplasts.")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if got.OverallScore != 50 || len(got.Misconceptions) != 1 || len(got.Recommendations) != 1 {
		t.Errorf("unexpected analysis: %+v", got)
	}

	msg := mock.Calls[0].Messages[0].Content
	if !strings.Contains(msg, "(1/2 correct)") {
		t.Errorf("prompt should carry the correct count, got:\n%s", msg)
	}
	if !strings.Contains(msg, "Student: Thylakoid | Correct: Stroma | WRONG") {
		t.Errorf("prompt should list graded answers, got:\n%s", msg)
	}
	if !strings.Contains(msg, `"Photosynthesis"`) {
		t.Errorf("prompt should name the topic, got:\n%s", msg)
	}
}

func TestAnalyze_RejectsEmptyAnswers(t *testing.T) {
	mock := llm.NewMockProvider()
	if _, err := New(mock).Analyze(context.Background(), nil, "Optics", ""); err == nil {
		t.Fatal("expected an error for an empty answer list")
	}
	if mock.CallCount() != 0 {
		t.Errorf("no provider call expected, got %d", mock.CallCount())
	}
}

func TestAnalyze_TruncatesContext(t *testing.T) {
	raw, _ := json.Marshal(PerformanceAnalysis{OverallScore: 100})
	mock := llm.NewMockProvider(llm.MockResponse{Content: raw})

	long := strings.Repeat("x", maxContextChars+500)
	if _, err := New(mock).Analyze(context.Background(), sampleAnswers(), "Optics", long); err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if msg := mock.Calls[0].Messages[0].Content; strings.Count(msg, "x") > maxContextChars {
		t.Error("study context should be truncated in the prompt")
	}
}

func TestAnalyze_ProviderFailure(t *testing.T) {
	mock := llm.NewMockProvider() // empty queue
	if _, err := New(mock).Analyze(context.Background(), sampleAnswers(), "Optics", ""); err == nil {
		t.Fatal("provider failure must surface")
	}
}

package plan

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exammentor/exammentor/internal/llm"
	"github.com/exammentor/exammentor/internal/router"
)

func planJSON(t *testing.T, exam string, day1Theme string) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(StudyPlan{
		ExamName:  exam,
		TotalDays: 3,
		Overview:  "foundation first, then practice",
		Schedule: []DailyPlan{
			{Day: 1, Theme: day1Theme, Topics: []Topic{{Name: "Kinematics", Difficulty: "medium", Rationale: "high weight"}}, EstimatedHours: 6},
		},
		CriticalTopics: []string{"Kinematics"},
	})
	require.NoError(t, err)
	return raw
}

func verificationJSON(t *testing.T, v Verification) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func TestGenerateVerified_EarlyAccept(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: planJSON(t, "NEET", "Mechanics")},
		llm.MockResponse{Content: verificationJSON(t, Verification{IsValid: true, Critique: "solid"})},
	)
	g := NewGenerator(mock, nil, DefaultConfig(), nil)

	result, err := g.GenerateVerified(context.Background(), Request{
		SyllabusText: "Kinematics, Laws of Motion",
		ExamType:     "NEET",
		Goal:         "score 650+",
		Days:         3,
	})
	require.NoError(t, err)

	assert.Len(t, result.Versions, 1)
	assert.False(t, result.SelfCorrectionApplied)
	assert.True(t, result.Versions[0].Accepted)
	assert.True(t, result.Summary.IsValid)
	assert.Equal(t, 1, result.Summary.IterationsUsed)
	assert.Equal(t, 2, mock.CallCount())
}

func TestGenerateVerified_ExhaustsBudget(t *testing.T) {
	invalid := Verification{
		IsValid:        false,
		MissingTopics:  []string{"Optics", "Waves"},
		OverloadedDays: []int{2},
		Critique:       "missing topics and day 2 is overloaded",
	}
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: planJSON(t, "NEET", "v1")},
		llm.MockResponse{Content: verificationJSON(t, invalid)},
		llm.MockResponse{Content: planJSON(t, "NEET", "v2")},
		llm.MockResponse{Content: verificationJSON(t, invalid)},
		llm.MockResponse{Content: planJSON(t, "NEET", "v3")},
	)
	cfg := DefaultConfig()
	cfg.MaxIterations = 2
	g := NewGenerator(mock, nil, cfg, nil)

	result, err := g.GenerateVerified(context.Background(), Request{
		SyllabusText: "full syllabus",
		ExamType:     "NEET",
		Days:         3,
	})
	require.NoError(t, err)

	// max_iterations + 1 versions, last accepted despite never verifying.
	require.Len(t, result.Versions, 3)
	assert.True(t, result.SelfCorrectionApplied)
	assert.True(t, result.Versions[2].Accepted)
	assert.Nil(t, result.Versions[2].Verification)
	assert.False(t, result.Versions[0].Accepted)
	assert.Equal(t, "v3", result.FinalPlan.Schedule[0].Theme)
	assert.Equal(t, 2, result.Summary.IterationsUsed)
}

func TestGenerateVerified_SummaryClampsCoverage(t *testing.T) {
	// 25 missing topics would push 100 - 5*25 negative; it clamps to zero.
	missing := make([]string, 25)
	for i := range missing {
		missing[i] = "topic"
	}
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: planJSON(t, "UPSC", "v1")},
		llm.MockResponse{Content: verificationJSON(t, Verification{IsValid: false, MissingTopics: missing})},
		llm.MockResponse{Content: planJSON(t, "UPSC", "v2")},
	)
	cfg := DefaultConfig()
	cfg.MaxIterations = 1
	g := NewGenerator(mock, nil, cfg, nil)

	result, err := g.GenerateVerified(context.Background(), Request{SyllabusText: "s", ExamType: "UPSC"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Summary.CoveragePercent)
}

func TestGenerateVerifiedStream_EventOrder(t *testing.T) {
	invalid := Verification{IsValid: false, MissingTopics: []string{"Optics"}, Critique: "gap"}
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: planJSON(t, "JEE", "v1")},
		llm.MockResponse{Content: verificationJSON(t, invalid)},
		llm.MockResponse{Content: planJSON(t, "JEE", "v2")},
		llm.MockResponse{Content: verificationJSON(t, Verification{IsValid: true})},
	)
	g := NewGenerator(mock, nil, DefaultConfig(), nil)

	var events []EventType
	result, err := g.GenerateVerifiedStream(context.Background(), Request{SyllabusText: "s", ExamType: "JEE"}, func(ev Event) {
		events = append(events, ev.Type)
	})
	require.NoError(t, err)

	want := []EventType{
		EventStatus, EventDraft, // draft v1
		EventStatus, EventVerification, // verify v1: invalid
		EventStatus, EventDraft, // fix → v2
		EventStatus, EventVerification, // verify v2: valid
		EventComplete,
	}
	assert.Equal(t, want, events)
	assert.True(t, result.Versions[1].Accepted)
}

func TestGenerateVerified_RouterFailureFallsBack(t *testing.T) {
	// The router's provider is empty, so routing fails; planning must
	// proceed on the unscoped syllabus text.
	scopeRouter := router.New(llm.NewMockProvider())
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: planJSON(t, "CAT", "v1")},
		llm.MockResponse{Content: verificationJSON(t, Verification{IsValid: true})},
	)
	g := NewGenerator(mock, scopeRouter, DefaultConfig(), nil)

	result, err := g.GenerateVerified(context.Background(), Request{
		SyllabusText: "Arithmetic, Algebra",
		ExamType:     "CAT",
		Goal:         "crack quant",
	})
	require.NoError(t, err)
	require.Len(t, result.Versions, 1)

	// The draft prompt must carry the unscoped text.
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "Arithmetic, Algebra")
}

package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exammentor/exammentor/internal/autopilot"
	"github.com/exammentor/exammentor/internal/evaluator"
	"github.com/exammentor/exammentor/internal/llm"
	"github.com/exammentor/exammentor/internal/misconception"
	"github.com/exammentor/exammentor/internal/plan"
	"github.com/exammentor/exammentor/internal/quiz"
	"github.com/exammentor/exammentor/internal/router"
	"github.com/exammentor/exammentor/internal/tutor"
)

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func newTestServer(t *testing.T, mock *llm.MockProvider) *Server {
	t.Helper()
	return NewServer(":0", Deps{
		Provider:  mock,
		Planner:   plan.NewGenerator(mock, nil, plan.Config{MaxIterations: 2}, nil),
		Tutor:     tutor.New(mock, tutor.DefaultConfig()),
		Quiz:      quiz.NewGenerator(mock, quiz.DefaultConfig()),
		Analyzer:  misconception.New(mock),
		Evaluator: evaluator.New(mock),
		Router:    router.New(mock),
		EngineConfig: autopilot.Config{
			LessonsPerTopic: 1,
			AnswerWait:      time.Millisecond,
			PausePoll:       time.Millisecond,
			TopicDelay:      time.Millisecond,
			LessonDelay:     time.Millisecond,
		},
	})
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func samplePlan() plan.StudyPlan {
	return plan.StudyPlan{
		ExamName:  "NEET",
		TotalDays: 1,
		Schedule: []plan.DailyPlan{{
			Day:    1,
			Theme:  "Mechanics",
			Topics: []plan.Topic{{Name: "Kinematics", Difficulty: "medium"}},
		}},
	}
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t, llm.NewMockProvider())
	rec := doRequest(t, s.Handler(), http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeResponse(t, rec).Status)
}

func TestPlanGenerateHandler(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: mustJSON(t, samplePlan())})
	s := newTestServer(t, mock)

	body := `{"syllabus_text": "Physics: Kinematics", "exam_type": "NEET", "days": 1}`
	rec := doRequest(t, s.Handler(), http.MethodPost, "/api/plan/generate", body)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Equal(t, "ok", resp.Status)

	var p plan.StudyPlan
	require.NoError(t, json.Unmarshal(mustRemarshal(t, resp.Result), &p))
	assert.Equal(t, "NEET", p.ExamName)
	assert.Len(t, p.Schedule, 1)
}

func TestPlanGenerateHandlerRejectsMissingFields(t *testing.T) {
	s := newTestServer(t, llm.NewMockProvider())

	rec := doRequest(t, s.Handler(), http.MethodPost, "/api/plan/generate", `{"days": 3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s.Handler(), http.MethodPost, "/api/plan/generate", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlanVerifiedHandler(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: mustJSON(t, samplePlan())},
		llm.MockResponse{Content: mustJSON(t, plan.Verification{IsValid: true, Critique: "covers everything"})},
	)
	s := newTestServer(t, mock)

	body := `{"syllabus_text": "Physics: Kinematics", "exam_type": "NEET"}`
	rec := doRequest(t, s.Handler(), http.MethodPost, "/api/plan/generate-verified", body)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)

	var result plan.Result
	require.NoError(t, json.Unmarshal(mustRemarshal(t, resp.Result), &result))
	assert.True(t, result.Summary.IsValid)
	assert.False(t, result.SelfCorrectionApplied)
	assert.Len(t, result.Versions, 1)
}

func TestPlanVerifiedStreamHandler(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: mustJSON(t, samplePlan())},
		llm.MockResponse{Content: mustJSON(t, plan.Verification{IsValid: true})},
	)
	s := newTestServer(t, mock)

	body := `{"syllabus_text": "Physics: Kinematics", "exam_type": "NEET"}`
	rec := doRequest(t, s.Handler(), http.MethodPost, "/api/plan/generate-verified/stream", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	events := rec.Body.String()
	assert.Contains(t, events, "event: status")
	assert.Contains(t, events, "event: draft")
	assert.Contains(t, events, "event: verification")
	assert.Contains(t, events, "event: complete")
	// complete is the terminal event
	assert.True(t, strings.Index(events, "event: complete") > strings.Index(events, "event: verification"))
}

func TestTutorExplainHandler(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: mustJSON(t, tutor.Explanation{
		Topic:     "Osmosis",
		Intuition: "water moves toward salt",
	})})
	s := newTestServer(t, mock)

	rec := doRequest(t, s.Handler(), http.MethodPost, "/api/tutor/explain", `{"topic": "Osmosis"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var exp tutor.Explanation
	require.NoError(t, json.Unmarshal(mustRemarshal(t, decodeResponse(t, rec).Result), &exp))
	assert.Equal(t, "Osmosis", exp.Topic)
}

func TestTutorStreamHandler(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Chunks: []string{"Osmosis ", "is ", "diffusion."}})
	s := newTestServer(t, mock)

	rec := doRequest(t, s.Handler(), http.MethodPost, "/api/tutor/stream", `{"topic": "Osmosis"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Equal(t, "Osmosis is diffusion.", rec.Body.String())
}

func TestQuizGenerateHandler(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: mustJSON(t, quiz.Quiz{
		Topic: "Kinematics",
		Questions: []quiz.Question{{
			ID:                 "q1",
			Text:               "What is velocity?",
			Options:            []string{"a", "b", "c", "d"},
			CorrectOptionIndex: 1,
		}},
	})})
	s := newTestServer(t, mock)

	rec := doRequest(t, s.Handler(), http.MethodPost, "/api/quiz/generate", `{"topic": "Kinematics"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var qz quiz.Quiz
	require.NoError(t, json.Unmarshal(mustRemarshal(t, decodeResponse(t, rec).Result), &qz))
	require.Len(t, qz.Questions, 1)
	assert.Equal(t, "q1", qz.Questions[0].ID)
}

func TestQuizEvaluateHandler(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: mustJSON(t, quiz.Evaluation{
		IsCorrect: false, // model claims wrong; local grading wins
		Feedback:  "nice work",
	})})
	s := newTestServer(t, mock)

	body := mustJSON(t, quizEvaluateRequest{
		Question: quiz.Question{
			Text:               "2+2?",
			Options:            []string{"3", "4", "5", "6"},
			CorrectOptionIndex: 1,
		},
		AnswerIndex: 1,
	})
	rec := doRequest(t, s.Handler(), http.MethodPost, "/api/quiz/evaluate", string(body))

	require.Equal(t, http.StatusOK, rec.Code)
	var eval quiz.Evaluation
	require.NoError(t, json.Unmarshal(mustRemarshal(t, decodeResponse(t, rec).Result), &eval))
	assert.True(t, eval.IsCorrect)
}

func TestQuizEvaluateHandlerRejectsOutOfRangeIndex(t *testing.T) {
	s := newTestServer(t, llm.NewMockProvider())

	body := mustJSON(t, quizEvaluateRequest{
		Question:    quiz.Question{Options: []string{"a", "b"}},
		AnswerIndex: 5,
	})
	rec := doRequest(t, s.Handler(), http.MethodPost, "/api/quiz/evaluate", string(body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMisconceptionHandler(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: mustJSON(t, misconception.Analysis{
		InferredConfusion: "confuses speed with velocity",
	})})
	s := newTestServer(t, mock)

	body := mustJSON(t, misconceptionRequest{
		Question: quiz.Question{
			Text:               "What is velocity?",
			Options:            []string{"a", "b", "c", "d"},
			CorrectOptionIndex: 0,
		},
		WrongAnswerIndex: 2,
	})
	rec := doRequest(t, s.Handler(), http.MethodPost, "/api/misconception/analyze", string(body))

	require.Equal(t, http.StatusOK, rec.Code)
	var analysis misconception.Analysis
	require.NoError(t, json.Unmarshal(mustRemarshal(t, decodeResponse(t, rec).Result), &analysis))
	assert.Equal(t, "confuses speed with velocity", analysis.InferredConfusion)
}

func TestPerformanceHandler(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: mustJSON(t, evaluator.PerformanceAnalysis{
		OverallScore: 50,
		Summary:      "solid start with gaps in cell biology",
		TopicMastery: []evaluator.TopicMastery{
			{Topic: "Photosynthesis", Score: 50, Status: "learning"},
		},
	})})
	s := newTestServer(t, mock)

	body := mustJSON(t, performanceRequest{
		QuizAnswers: []evaluator.QuizAnswer{
			{QuestionID: "q1", ConceptTested: "light reactions", StudentAnswer: "Thylakoid", CorrectAnswer: "Thylakoid", IsCorrect: true},
			{QuestionID: "q2", ConceptTested: "Calvin cycle", StudentAnswer: "Thylakoid", CorrectAnswer: "Stroma", IsCorrect: false},
		},
		Topic: "Photosynthesis",
	})
	rec := doRequest(t, s.Handler(), http.MethodPost, "/api/analyze/performance", string(body))

	require.Equal(t, http.StatusOK, rec.Code)
	var analysis evaluator.PerformanceAnalysis
	require.NoError(t, json.Unmarshal(mustRemarshal(t, decodeResponse(t, rec).Result), &analysis))
	assert.Equal(t, 50, analysis.OverallScore)
	assert.Len(t, analysis.TopicMastery, 1)
}

func TestPerformanceHandlerRejectsEmptyAnswers(t *testing.T) {
	s := newTestServer(t, llm.NewMockProvider())

	rec := doRequest(t, s.Handler(), http.MethodPost, "/api/analyze/performance", `{"quiz_answers": [], "topic": "Optics"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", decodeResponse(t, rec).Status)
}

func TestRouteHandler(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: mustJSON(t, router.Decision{
		Intent:     router.IntentQuiz,
		Exam:       router.ExamNEET,
		Confidence: 0.9,
	})})
	s := newTestServer(t, mock)

	rec := doRequest(t, s.Handler(), http.MethodPost, "/api/route", `{"text": "quiz me on optics"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var d router.Decision
	require.NoError(t, json.Unmarshal(mustRemarshal(t, decodeResponse(t, rec).Result), &d))
	assert.Equal(t, router.IntentQuiz, d.Intent)
}

func TestRouteHandlerSurfacesProviderFailure(t *testing.T) {
	s := newTestServer(t, llm.NewMockProvider()) // empty queue: provider unavailable

	rec := doRequest(t, s.Handler(), http.MethodPost, "/api/route", `{"text": "quiz me"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "error", decodeResponse(t, rec).Status)
}

func TestAutopilotLifecycle(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"selected_topic": "Kinematics", "reasoning": "only topic left", "priority_score": 0.9, "prerequisites_met": true, "estimated_difficulty": "medium"}`)},
		llm.MockResponse{Content: mustJSON(t, tutor.Explanation{Topic: "Kinematics", Intuition: "motion basics"})},
		llm.MockResponse{Content: mustJSON(t, quiz.Quiz{
			Topic: "Kinematics",
			Questions: []quiz.Question{{
				ID:                 "q1",
				Text:               "What is velocity?",
				Options:            []string{"a", "b", "c", "d"},
				CorrectOptionIndex: 0,
			}},
		})},
	)
	s := newTestServer(t, mock)
	h := s.Handler()

	p := samplePlan()
	startBody := mustJSON(t, autopilotStartRequest{Plan: &p, ExamType: "NEET", DurationMinutes: 30})
	rec := doRequest(t, h, http.MethodPost, "/api/autopilot/sess-1/start", string(startBody))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Eventually(t, func() bool {
		status := doRequest(t, h, http.MethodGet, "/api/autopilot/sess-1/status", "")
		if status.Code != http.StatusOK {
			return false
		}
		var snap autopilot.Snapshot
		if err := json.Unmarshal(mustRemarshal(t, decodeResponse(t, status).Result), &snap); err != nil {
			return false
		}
		return snap.Status == autopilot.StatusCompleted
	}, 5*time.Second, 5*time.Millisecond)

	status := doRequest(t, h, http.MethodGet, "/api/autopilot/sess-1/status", "")
	var snap autopilot.Snapshot
	require.NoError(t, json.Unmarshal(mustRemarshal(t, decodeResponse(t, status).Result), &snap))
	assert.Equal(t, 1, snap.TopicsCompleted)
	assert.NotEmpty(t, snap.Steps)
}

func TestAutopilotStartRejectsEmptyPlan(t *testing.T) {
	s := newTestServer(t, llm.NewMockProvider())

	rec := doRequest(t, s.Handler(), http.MethodPost, "/api/autopilot/sess-2/start", `{"exam_type": "NEET"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAutopilotControlUnknownSession(t *testing.T) {
	s := newTestServer(t, llm.NewMockProvider())
	h := s.Handler()

	for _, action := range []string{"pause", "resume", "stop", "answer"} {
		rec := doRequest(t, h, http.MethodPost, fmt.Sprintf("/api/autopilot/ghost/%s", action), `{}`)
		assert.Equal(t, http.StatusNotFound, rec.Code, action)
	}

	rec := doRequest(t, h, http.MethodGet, "/api/autopilot/ghost/status", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// mustRemarshal round-trips a decoded Result back to JSON so it can be
// unmarshaled into its concrete type.
func mustRemarshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

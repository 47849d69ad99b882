package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/exammentor/exammentor/internal/evaluator"
	"github.com/exammentor/exammentor/internal/quiz"
)

type tutorRequest struct {
	Topic      string `json:"topic"`
	Context    string `json:"context"`
	Difficulty string `json:"difficulty"`
}

func (s *Server) tutorExplainHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req tutorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("Server.tutorExplainHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, Error("Invalid JSON format"))
		return
	}
	if req.Topic == "" {
		writeJSONResponse(w, http.StatusBadRequest, Error("topic is required"))
		return
	}

	explanation, err := s.deps.Tutor.Explain(r.Context(), req.Topic, req.Context, req.Difficulty)
	if err != nil {
		s.logger.Error("Server.tutorExplainHandler: explanation failed", "topic", req.Topic, "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, Error(err.Error()))
		return
	}
	writeJSONResponse(w, http.StatusOK, Success(explanation))
}

// tutorStreamHandler writes explanation fragments as plain text as they
// arrive from the provider.
func (s *Server) tutorStreamHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req tutorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("Server.tutorStreamHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, Error("Invalid JSON format"))
		return
	}
	if req.Topic == "" {
		writeJSONResponse(w, http.StatusBadRequest, Error("topic is required"))
		return
	}

	stream, err := s.deps.Tutor.StreamExplain(r.Context(), req.Topic, req.Context, req.Difficulty)
	if err != nil {
		s.logger.Error("Server.tutorStreamHandler: stream failed", "topic", req.Topic, "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, Error(err.Error()))
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	flusher, _ := w.(http.Flusher)
	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			return
		}
		if err != nil {
			s.logger.Warn("Server.tutorStreamHandler: stream interrupted", "topic", req.Topic, "error", err)
			return
		}
		if _, err := io.WriteString(w, chunk); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

type quizGenerateRequest struct {
	Topic            string   `json:"topic"`
	Context          string   `json:"context"`
	PreviousMistakes []string `json:"previous_mistakes"`
}

func (s *Server) quizGenerateHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req quizGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("Server.quizGenerateHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, Error("Invalid JSON format"))
		return
	}
	if req.Topic == "" {
		writeJSONResponse(w, http.StatusBadRequest, Error("topic is required"))
		return
	}

	qz, err := s.deps.Quiz.Generate(r.Context(), req.Topic, req.Context, req.PreviousMistakes)
	if err != nil {
		s.logger.Error("Server.quizGenerateHandler: generation failed", "topic", req.Topic, "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, Error(err.Error()))
		return
	}
	writeJSONResponse(w, http.StatusOK, Success(qz))
}

type quizEvaluateRequest struct {
	Question    quiz.Question `json:"question"`
	AnswerIndex int           `json:"answer_index"`
	Context     string        `json:"context"`
}

func (s *Server) quizEvaluateHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req quizEvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("Server.quizEvaluateHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, Error("Invalid JSON format"))
		return
	}
	if len(req.Question.Options) == 0 {
		writeJSONResponse(w, http.StatusBadRequest, Error("question with options is required"))
		return
	}
	if req.AnswerIndex < 0 || req.AnswerIndex >= len(req.Question.Options) {
		writeJSONResponse(w, http.StatusBadRequest, Error("answer_index out of range"))
		return
	}

	eval, err := s.deps.Quiz.Evaluate(r.Context(), &req.Question, req.AnswerIndex, req.Context)
	if err != nil {
		s.logger.Error("Server.quizEvaluateHandler: evaluation failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, Error(err.Error()))
		return
	}
	writeJSONResponse(w, http.StatusOK, Success(eval))
}

type misconceptionRequest struct {
	Question         quiz.Question `json:"question"`
	WrongAnswerIndex int           `json:"wrong_answer_index"`
	Context          string        `json:"context"`
}

func (s *Server) misconceptionHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req misconceptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("Server.misconceptionHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, Error("Invalid JSON format"))
		return
	}
	if len(req.Question.Options) == 0 {
		writeJSONResponse(w, http.StatusBadRequest, Error("question with options is required"))
		return
	}
	if req.WrongAnswerIndex < 0 || req.WrongAnswerIndex >= len(req.Question.Options) {
		writeJSONResponse(w, http.StatusBadRequest, Error("wrong_answer_index out of range"))
		return
	}

	analysis, err := s.deps.Analyzer.Diagnose(r.Context(), &req.Question, req.WrongAnswerIndex, req.Context)
	if err != nil {
		s.logger.Error("Server.misconceptionHandler: diagnosis failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, Error(err.Error()))
		return
	}
	writeJSONResponse(w, http.StatusOK, Success(analysis))
}

type performanceRequest struct {
	QuizAnswers []evaluator.QuizAnswer `json:"quiz_answers"`
	Topic       string                 `json:"topic"`
	Context     string                 `json:"context"`
}

func (s *Server) performanceHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req performanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("Server.performanceHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, Error("Invalid JSON format"))
		return
	}
	if len(req.QuizAnswers) == 0 {
		writeJSONResponse(w, http.StatusBadRequest, Error("quiz_answers is required"))
		return
	}

	analysis, err := s.deps.Evaluator.Analyze(r.Context(), req.QuizAnswers, req.Topic, req.Context)
	if err != nil {
		s.logger.Error("Server.performanceHandler: analysis failed", "topic", req.Topic, "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, Error(err.Error()))
		return
	}
	writeJSONResponse(w, http.StatusOK, Success(analysis))
}

type routeRequest struct {
	Text        string `json:"text"`
	CurrentExam string `json:"current_exam"`
}

func (s *Server) routeHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("Server.routeHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, Error("Invalid JSON format"))
		return
	}
	if req.Text == "" {
		writeJSONResponse(w, http.StatusBadRequest, Error("text is required"))
		return
	}

	decision, err := s.deps.Router.Route(r.Context(), req.Text, req.CurrentExam)
	if err != nil {
		s.logger.Error("Server.routeHandler: routing failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, Error(err.Error()))
		return
	}
	writeJSONResponse(w, http.StatusOK, Success(decision))
}

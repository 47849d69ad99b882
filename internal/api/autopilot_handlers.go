package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/exammentor/exammentor/internal/autopilot"
	"github.com/exammentor/exammentor/internal/plan"
)

type autopilotStartRequest struct {
	Plan            *plan.StudyPlan `json:"plan"`
	ExamType        string          `json:"exam_type"`
	DurationMinutes int             `json:"duration_minutes"`
}

func (s *Server) autopilotStartHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	id := r.PathValue("id")

	var req autopilotStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("Server.autopilotStartHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, Error("Invalid JSON format"))
		return
	}
	if req.Plan == nil || len(req.Plan.Schedule) == 0 {
		writeJSONResponse(w, http.StatusBadRequest, Error("plan with a schedule is required"))
		return
	}
	if req.DurationMinutes <= 0 {
		req.DurationMinutes = 30
	}

	if _, ok := s.deps.Registry.Engine(id); ok {
		writeJSONResponse(w, http.StatusConflict, Error("session is already running"))
		return
	}

	session := s.deps.Registry.GetOrCreate(id)
	session.Configure(req.Plan, req.ExamType, time.Duration(req.DurationMinutes)*time.Minute)

	engine := autopilot.NewEngine(session, autopilot.Deps{
		Provider: s.deps.Provider,
		Tutor:    s.deps.Tutor,
		Quiz:     s.deps.Quiz,
		Analyzer: s.deps.Analyzer,
		Sessions: s.deps.Sessions,
		Logger:   s.logger,
		OnExit:   func() { s.deps.Registry.RemoveEngine(id) },
	}, s.deps.EngineConfig)
	s.deps.Registry.PutEngine(id, engine)

	// The engine outlives this request, so it runs on its own context.
	engine.Start(context.Background())

	s.logger.Info("Server.autopilotStartHandler: session started", "session_id", id)
	writeJSONResponse(w, http.StatusOK, Success(session.Snapshot()))
}

func (s *Server) autopilotPauseHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	engine, ok := s.deps.Registry.Engine(id)
	if !ok {
		writeJSONResponse(w, http.StatusNotFound, Error("no running session with that id"))
		return
	}
	engine.Pause()
	s.snapshotResponse(w, id)
}

func (s *Server) autopilotResumeHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	engine, ok := s.deps.Registry.Engine(id)
	if !ok {
		writeJSONResponse(w, http.StatusNotFound, Error("no running session with that id"))
		return
	}
	engine.Resume()
	s.snapshotResponse(w, id)
}

func (s *Server) autopilotStopHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	engine, ok := s.deps.Registry.Engine(id)
	if !ok {
		writeJSONResponse(w, http.StatusNotFound, Error("no running session with that id"))
		return
	}
	engine.Stop()
	s.snapshotResponse(w, id)
}

type autopilotAnswerRequest struct {
	AnswerIndex int `json:"answer_index"`
}

func (s *Server) autopilotAnswerHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	id := r.PathValue("id")

	engine, ok := s.deps.Registry.Engine(id)
	if !ok {
		writeJSONResponse(w, http.StatusNotFound, Error("no running session with that id"))
		return
	}

	var req autopilotAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("Server.autopilotAnswerHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, Error("Invalid JSON format"))
		return
	}

	engine.SubmitAnswer(req.AnswerIndex)
	writeJSONResponse(w, http.StatusOK, SuccessWithMessage("Answer queued", nil))
}

func (s *Server) autopilotStatusHandler(w http.ResponseWriter, r *http.Request) {
	s.snapshotResponse(w, r.PathValue("id"))
}

func (s *Server) snapshotResponse(w http.ResponseWriter, id string) {
	session, ok := s.deps.Registry.Get(id)
	if !ok {
		writeJSONResponse(w, http.StatusNotFound, Error("unknown session"))
		return
	}
	writeJSONResponse(w, http.StatusOK, Success(session.Snapshot()))
}

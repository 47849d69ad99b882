package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/exammentor/exammentor/internal/plan"
)

type planRequest struct {
	SyllabusText string `json:"syllabus_text"`
	ExamType     string `json:"exam_type"`
	Goal         string `json:"goal"`
	Days         int    `json:"days"`
}

func (r planRequest) toPlanRequest() plan.Request {
	return plan.Request{
		SyllabusText: r.SyllabusText,
		ExamType:     r.ExamType,
		Goal:         r.Goal,
		Days:         r.Days,
	}
}

func (s *Server) planGenerateHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("Server.planGenerateHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, Error("Invalid JSON format"))
		return
	}
	if req.SyllabusText == "" || req.ExamType == "" {
		writeJSONResponse(w, http.StatusBadRequest, Error("syllabus_text and exam_type are required"))
		return
	}

	p, err := s.deps.Planner.Generate(r.Context(), req.toPlanRequest())
	if err != nil {
		s.logger.Error("Server.planGenerateHandler: generation failed", "exam", req.ExamType, "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, Error(err.Error()))
		return
	}
	writeJSONResponse(w, http.StatusOK, Success(p))
}

func (s *Server) planVerifiedHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("Server.planVerifiedHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, Error("Invalid JSON format"))
		return
	}
	if req.SyllabusText == "" || req.ExamType == "" {
		writeJSONResponse(w, http.StatusBadRequest, Error("syllabus_text and exam_type are required"))
		return
	}

	result, err := s.deps.Planner.GenerateVerified(r.Context(), req.toPlanRequest())
	if err != nil {
		s.logger.Error("Server.planVerifiedHandler: generation failed", "exam", req.ExamType, "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, Error(err.Error()))
		return
	}
	writeJSONResponse(w, http.StatusOK, Success(result))
}

// planVerifiedStreamHandler runs the correction loop while streaming its
// progress as server-sent events, one event per loop notification.
func (s *Server) planVerifiedStreamHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("Server.planVerifiedStreamHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, Error("Invalid JSON format"))
		return
	}
	if req.SyllabusText == "" || req.ExamType == "" {
		writeJSONResponse(w, http.StatusBadRequest, Error("syllabus_text and exam_type are required"))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSONResponse(w, http.StatusInternalServerError, Error("streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	emit := func(ev plan.Event) {
		data, err := json.Marshal(ev)
		if err != nil {
			s.logger.Warn("Server.planVerifiedStreamHandler: failed to marshal event", "type", ev.Type, "error", err)
			return
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
		flusher.Flush()
	}

	if _, err := s.deps.Planner.GenerateVerifiedStream(r.Context(), req.toPlanRequest(), emit); err != nil {
		s.logger.Error("Server.planVerifiedStreamHandler: generation failed", "exam", req.ExamType, "error", err)
		fmt.Fprintf(w, "event: error\ndata: %q\n\n", err.Error())
		flusher.Flush()
	}
}

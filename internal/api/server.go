package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/exammentor/exammentor/internal/autopilot"
	"github.com/exammentor/exammentor/internal/evaluator"
	"github.com/exammentor/exammentor/internal/llm"
	"github.com/exammentor/exammentor/internal/misconception"
	"github.com/exammentor/exammentor/internal/plan"
	"github.com/exammentor/exammentor/internal/quiz"
	"github.com/exammentor/exammentor/internal/router"
	"github.com/exammentor/exammentor/internal/store"
	"github.com/exammentor/exammentor/internal/tutor"
)

// Deps are the services the server exposes over HTTP.
type Deps struct {
	Provider  llm.Provider
	Planner   *plan.Generator
	Tutor     *tutor.Tutor
	Quiz      *quiz.Generator
	Analyzer  *misconception.Analyzer
	Evaluator *evaluator.Evaluator
	Router    *router.Router
	Registry  *autopilot.Registry
	Sessions  store.SessionRepo

	// EngineConfig paces autopilot engines started through the API.
	EngineConfig autopilot.Config
	Logger       *slog.Logger
}

// Server is the HTTP front for the study-coaching services.
type Server struct {
	addr   string
	deps   Deps
	logger *slog.Logger
}

// NewServer creates a server bound to addr.
func NewServer(addr string, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Registry == nil {
		deps.Registry = autopilot.NewRegistry()
	}
	return &Server{addr: addr, deps: deps, logger: deps.Logger}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	mux.HandleFunc("POST /api/plan/generate", s.planGenerateHandler)
	mux.HandleFunc("POST /api/plan/generate-verified", s.planVerifiedHandler)
	mux.HandleFunc("POST /api/plan/generate-verified/stream", s.planVerifiedStreamHandler)

	mux.HandleFunc("POST /api/tutor/explain", s.tutorExplainHandler)
	mux.HandleFunc("POST /api/tutor/stream", s.tutorStreamHandler)

	mux.HandleFunc("POST /api/quiz/generate", s.quizGenerateHandler)
	mux.HandleFunc("POST /api/quiz/evaluate", s.quizEvaluateHandler)
	mux.HandleFunc("POST /api/misconception/analyze", s.misconceptionHandler)
	mux.HandleFunc("POST /api/analyze/performance", s.performanceHandler)

	mux.HandleFunc("POST /api/route", s.routeHandler)

	mux.HandleFunc("POST /api/autopilot/{id}/start", s.autopilotStartHandler)
	mux.HandleFunc("POST /api/autopilot/{id}/pause", s.autopilotPauseHandler)
	mux.HandleFunc("POST /api/autopilot/{id}/resume", s.autopilotResumeHandler)
	mux.HandleFunc("POST /api/autopilot/{id}/stop", s.autopilotStopHandler)
	mux.HandleFunc("POST /api/autopilot/{id}/answer", s.autopilotAnswerHandler)
	mux.HandleFunc("GET /api/autopilot/{id}/status", s.autopilotStatusHandler)

	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSONResponse(w, http.StatusOK, Success(map[string]string{"status": "healthy"}))
}

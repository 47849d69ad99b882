package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/exammentor/exammentor/internal/api"
	"github.com/exammentor/exammentor/internal/autopilot"
	"github.com/exammentor/exammentor/internal/evaluator"
	"github.com/exammentor/exammentor/internal/misconception"
	"github.com/exammentor/exammentor/internal/plan"
	"github.com/exammentor/exammentor/internal/quiz"
	"github.com/exammentor/exammentor/internal/router"
	"github.com/exammentor/exammentor/internal/store"
	"github.com/exammentor/exammentor/internal/tutor"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ExamMentor HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		slog.SetDefault(logger)

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		provider, err := newProvider(ctx, st.Events())
		if err != nil {
			return fmt.Errorf("configure LLM provider: %w", err)
		}

		scopeRouter := router.New(provider)
		server := api.NewServer(addr, api.Deps{
			Provider:     provider,
			Planner:      plan.NewGenerator(provider, scopeRouter, plan.DefaultConfig(), logger),
			Tutor:        tutor.New(provider, tutor.DefaultConfig()),
			Quiz:         quiz.NewGenerator(provider, quiz.DefaultConfig()),
			Analyzer:     misconception.New(provider),
			Evaluator:    evaluator.New(provider),
			Router:       scopeRouter,
			Registry:     autopilot.NewRegistry(),
			Sessions:     st.Sessions(),
			EngineConfig: autopilot.DefaultConfig(),
			Logger:       logger,
		})

		return server.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "HTTP listen address")
}

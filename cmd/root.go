package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/exammentor/exammentor/internal/llm"
	"github.com/exammentor/exammentor/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "exammentor",
	Short: "AI study coach for competitive exams",
	Long:  "ExamMentor — AI study-coaching service for NEET, JEE, UPSC and CAT: verified study plans, tutoring, quizzes, misconception diagnosis and autopilot sessions.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Best-effort; a missing .env is not an error.
		_ = godotenv.Load()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MENTOR_DB env var)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then MENTOR_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if p := os.Getenv("MENTOR_DB"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// newProvider builds the content-generation provider from the environment,
// logging every call to the event repo.
func newProvider(ctx context.Context, events store.EventRepo) (llm.Provider, error) {
	cfg := llm.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		discovered, ok := llm.DiscoverConfig()
		if !ok {
			return nil, fmt.Errorf("no LLM provider configured: %w", err)
		}
		cfg = discovered
	}
	return llm.NewProvider(ctx, cfg, events)
}

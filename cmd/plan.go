package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/exammentor/exammentor/internal/plan"
	"github.com/exammentor/exammentor/internal/router"
	"github.com/exammentor/exammentor/internal/store"
)

var planCmd = &cobra.Command{
	Use:   "plan <syllabus-file>",
	Short: "Generate a verified study plan from a syllabus file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		examType, _ := cmd.Flags().GetString("exam")
		goal, _ := cmd.Flags().GetString("goal")
		days, _ := cmd.Flags().GetInt("days")

		syllabus, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read syllabus: %w", err)
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		ctx := cmd.Context()
		provider, err := newProvider(ctx, st.Events())
		if err != nil {
			return fmt.Errorf("configure LLM provider: %w", err)
		}

		generator := plan.NewGenerator(provider, router.New(provider), plan.DefaultConfig(), nil)
		result, err := generator.GenerateVerified(ctx, plan.Request{
			SyllabusText: string(syllabus),
			ExamType:     examType,
			Goal:         goal,
			Days:         days,
		})
		if err != nil {
			return fmt.Errorf("generate plan: %w", err)
		}

		fmt.Printf("Plan for %s — %d day(s), %d version(s)\n",
			result.FinalPlan.ExamName, result.FinalPlan.TotalDays, len(result.Versions))
		fmt.Printf("Coverage: %.0f%%  Overloaded days: %d  Prerequisite issues: %d  Valid: %v  Iterations: %d\n",
			result.Summary.CoveragePercent,
			result.Summary.OverloadedDaysCount,
			result.Summary.PrerequisiteIssuesCount,
			result.Summary.IsValid,
			result.Summary.IterationsUsed)
		if result.SelfCorrectionApplied {
			fmt.Println("Self-correction was applied.")
		}
		fmt.Println()

		out, err := json.MarshalIndent(result.FinalPlan, "", "  ")
		if err != nil {
			return fmt.Errorf("encode plan: %w", err)
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	planCmd.Flags().String("exam", "NEET", "Exam type (NEET, JEE, UPSC, CAT)")
	planCmd.Flags().String("goal", "", "Free-text study goal used to narrow scope")
	planCmd.Flags().Int("days", 7, "Number of days to plan")
}

package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/exammentor/exammentor/internal/router"
	"github.com/exammentor/exammentor/internal/store"
)

var routeCmd = &cobra.Command{
	Use:   "route <text...>",
	Short: "Classify a free-text study request into intent, exam and scope",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exam, _ := cmd.Flags().GetString("exam")

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

		decision, err := router.New(provider).Route(ctx, strings.Join(args, " "), exam)
		if err != nil {
			return fmt.Errorf("route request: %w", err)
		}

		out, err := json.MarshalIndent(decision, "", "  ")
		if err != nil {
			return fmt.Errorf("encode decision: %w", err)
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	routeCmd.Flags().String("exam", "", "Current exam context (neet, jee, upsc, cat)")
}

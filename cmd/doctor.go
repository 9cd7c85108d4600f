package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/koopa0/risen/internal/app"
	"github.com/koopa0/risen/internal/config"
	"github.com/koopa0/risen/internal/health"
	"github.com/koopa0/risen/internal/log"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run startup diagnostics",
	Long: `doctor checks that the server can start: the database is reachable,
queries respond within the configured time, and the database size and
memory usage stay under the configured health thresholds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDoctor(cmd)
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	a, err := app.Setup(cmd.Context(), cfg, log.New(log.Config{Level: slog.LevelWarn}))
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer a.Close()

	checks := health.NewChecker(a.DB, cfg).Run(cmd.Context())
	for _, c := range checks {
		mark := "✓"
		if !c.OK {
			mark = "✗"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", mark, c.Name, c.Detail)
	}

	if !health.Healthy(checks) {
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Fprintln(cmd.OutOrStdout(), "All checks passed.")
	return nil
}

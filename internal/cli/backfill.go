package cli

import (
	"github.com/spf13/cobra"

	"github.com/slametrics/sentinel/internal/monitor"
)

// newBackfillCommand runs the one-shot state reconstruction over stored
// history and exits.
func newBackfillCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backfill",
		Short: "Reconstruct the current alert state from stored readings",
		Long:  "Evaluates the latest reading of every monitored item against its recent history and opens alerts for conditions that hold right now. Safe to re-run; existing active alerts are never duplicated.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.bootstrap(); err != nil {
				return err
			}
			defer a.close()

			backfiller := monitor.NewBackfiller(a.evaluator, a.readings, a.log)
			return backfiller.Run(cmd.Context())
		},
	}
}

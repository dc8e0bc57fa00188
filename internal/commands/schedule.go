package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newScheduleCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Repayment schedule maintenance",
	}
	cmd.AddCommand(newScheduleAdvanceCommand(e))
	return cmd
}

func newScheduleAdvanceCommand(e *env) *cobra.Command {
	var batchSize int

	cmd := &cobra.Command{
		Use:   "advance",
		Short: "Move late instalments to DUE or OVERDUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gdb, closeDB, err := e.openDB()
			if err != nil {
				return err
			}
			defer closeDB()

			if batchSize <= 0 {
				batchSize = e.cfg.Schedule.BatchSize
			}
			e.cfg.Schedule.BatchSize = batchSize
			app := NewApp(e.cfg, gdb, e.log)

			res, err := app.Schedule.Advance(cmd.Context())
			if err != nil {
				return fmt.Errorf("advance schedules: %w", err)
			}
			out, _ := json.Marshal(map[string]any{
				"changed":    res.Changed(),
				"scanned":    res.Scanned,
				"to_due":     res.ToDue,
				"to_overdue": res.ToOverdue,
				"batches":    res.Batches,
			})
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "rows per transaction (default SCHEDULE_BATCH_SIZE)")

	return cmd
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"coop-lending/internal/adapter/repository/gormrepo"
)

func newMigrateCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gdb, closeDB, err := e.openDB()
			if err != nil {
				return err
			}
			defer closeDB()

			if err := gormrepo.AutoMigrate(gdb.WithContext(cmd.Context())); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			e.log.Info("schema migrated", zap.Int("tables", len(gormrepo.Models())))
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

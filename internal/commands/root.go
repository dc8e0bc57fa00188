package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"coop-lending/internal/config"
	"coop-lending/internal/infrastructure/db"
	"coop-lending/internal/infrastructure/logger"
)

// Version is overridden at build time with -ldflags "-X coop-lending/internal/commands.Version=...".
var Version = "dev"

// env is filled by the root command before any subcommand runs.
type env struct {
	cfg *config.Config
	log *zap.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	e := &env{}
	rootCmd := &cobra.Command{
		Use:     "loanctl",
		Short:   "Cooperative loan core: applications, guarantors, disbursement and schedules",
		Version: Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config: %w", err)
			}
			e.cfg = cfg
			e.log = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: cfg.LogOutput})
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if e.log != nil {
				_ = e.log.Sync()
			}
		},
	}

	rootCmd.AddCommand(newServeCommand(e))
	rootCmd.AddCommand(newMigrateCommand(e))
	rootCmd.AddCommand(newScheduleCommand(e))

	return rootCmd
}

// openDB opens the configured database and hands back a closer.
func (e *env) openDB() (*gorm.DB, func(), error) {
	gdb, err := db.OpenGorm(e.cfg, e.log)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	closeFn := func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return gdb, closeFn, nil
}

// Execute runs the CLI until ctx is cancelled.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

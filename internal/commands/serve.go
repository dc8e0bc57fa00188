package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"coop-lending/internal/adapter/middleware"
	"coop-lending/internal/adapter/repository/gormrepo"
	"coop-lending/internal/infrastructure/cache"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(e *env) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.serve(cmd.Context(), migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "run schema migration before serving")

	return cmd
}

func (e *env) serve(ctx context.Context, migrate bool) error {
	gdb, closeDB, err := e.openDB()
	if err != nil {
		return err
	}
	defer closeDB()

	if migrate {
		if err := gormrepo.AutoMigrate(gdb); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	rdb, err := cache.FromConfig(ctx, e.cfg)
	if err != nil {
		return err
	}
	defer rdb.Close()

	srv := NewApp(e.cfg, gdb, e.log).Echo(rdb, middleware.Idempotency(rdb, cache.IdempotencyTTL(e.cfg), e.log))

	addr := ":" + e.cfg.AppPort
	errCh := make(chan error, 1)
	go func() {
		e.log.Info("listening", zap.String("addr", addr), zap.String("env", e.cfg.AppEnv))
		errCh <- srv.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	e.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

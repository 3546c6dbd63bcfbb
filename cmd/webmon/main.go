package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/webmon/internal/config"
	"github.com/hamed0406/webmon/internal/httpapi"
	"github.com/hamed0406/webmon/internal/logging"
	"github.com/hamed0406/webmon/internal/probe"
	"github.com/hamed0406/webmon/internal/repo"
	"github.com/hamed0406/webmon/internal/repo/postgres"
	"github.com/hamed0406/webmon/internal/repo/sqlite"
	"github.com/hamed0406/webmon/internal/scheduler"
	"github.com/hamed0406/webmon/internal/status"
)

const defaultPort = 5000

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "webmon:", err)
		os.Exit(1)
	}
}

func run() error {
	interval := pflag.Int("interval", 0, "check interval in seconds, overrides the config file")
	file := pflag.String("file", config.DefaultConfigPath, "config file path")
	port := pflag.Int("port", defaultPort, "dashboard server port")
	pflag.Parse()

	cfg, err := config.Load(*file, *interval)
	if err != nil {
		return err
	}
	env := config.FromEnv()

	logger, err := logging.NewLogger(env.LogDir)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, env, logger)
	if err != nil {
		return fmt.Errorf("open log store: %w", err)
	}

	ivl := cfg.IntervalDuration()
	executor := probe.NewExecutor(st, logger, ivl)
	monitor := scheduler.NewMonitor(logger, st, executor, cfg.DomainTargets(), ivl)
	rec := status.New(st)
	api := httpapi.NewServer(logger, st, rec, ivl)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: api.Router(),
	}

	go monitor.Run(ctx)

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		shutdownErr <- srv.Shutdown(sctx)
	}()

	logger.Info("dashboard_listen",
		zap.Int("port", *port),
		zap.Int("targets", len(cfg.Targets)),
		zap.Duration("interval", ivl),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return multierr.Append(err, closeStore())
	}
	return multierr.Combine(<-shutdownErr, closeStore())
}

// openStore picks the log store backend: PostgreSQL when DATABASE_URL is
// set, the local sqlite file otherwise.
func openStore(ctx context.Context, env config.Env, logger *zap.Logger) (repo.LogStore, func() error, error) {
	if env.DatabaseURL != "" {
		s, err := postgres.New(ctx, env.DatabaseURL, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}
	s, err := sqlite.New(ctx, env.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return s, s.Close, nil
}

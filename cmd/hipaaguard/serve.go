package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/hipaaguard/hipaaguard/internal/collector"
	"github.com/hipaaguard/hipaaguard/internal/config"
	httpapp "github.com/hipaaguard/hipaaguard/internal/http"
	"github.com/hipaaguard/hipaaguard/internal/http/handlers"
	"github.com/hipaaguard/hipaaguard/internal/logging"
	"github.com/hipaaguard/hipaaguard/internal/metrics"
	"github.com/hipaaguard/hipaaguard/internal/scan"
	"github.com/hipaaguard/hipaaguard/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, metrics endpoint, and background scan loop.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.BootstrapFromEnv(logging.BootstrapOptions{Command: "serve"})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	index, err := store.NewIndex(pool)
	if err != nil {
		return err
	}
	archive, err := buildArchive(ctx, cfg)
	if err != nil {
		return err
	}
	library, err := buildLibrary(cfg)
	if err != nil {
		return err
	}

	scanner := &scan.Scanner{
		Collector: collector.FileCollector{Dir: cfg.SnapshotDir},
		Library:   library,
		Index:     index,
		Archive:   archive,
		Workers:   cfg.ScanWorkers,
		Logger:    logger,
	}

	scheduler := scan.Scheduler{
		Scanner:  scanner,
		Projects: cfg.ScanProjects,
		Interval: cfg.ScanInterval,
	}
	go scheduler.Run(ctx)

	_, metricsErrCh := metrics.StartServer(ctx, cfg.MetricsAddr)

	srv := httpapp.NewEchoServer(&handlers.Handlers{
		Scanner: scanner,
		Index:   index,
		Archive: archive,
		Library: library,
	}, logger)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", cfg.HTTPAddr)
		errCh <- srv.Start(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-metricsErrCh:
		return err
	}
}

func buildArchive(ctx context.Context, cfg config.Config) (store.Archive, error) {
	if cfg.ReportBucket != "" {
		return store.NewS3Archive(ctx, cfg.ReportBucket, cfg.AWSRegion)
	}
	return store.DirArchive{Dir: cfg.ArchiveDir}, nil
}

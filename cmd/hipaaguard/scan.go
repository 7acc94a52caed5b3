package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hipaaguard/hipaaguard/internal/collector"
	"github.com/hipaaguard/hipaaguard/internal/config"
	"github.com/hipaaguard/hipaaguard/internal/logging"
	"github.com/hipaaguard/hipaaguard/internal/scan"
)

var scanCmd = &cobra.Command{
	Use:   "scan <project-id>",
	Short: "Run one scan from a snapshot file and print the report as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(cmd, args[0])
	},
}

var scanArchiveFlag bool

func init() {
	scanCmd.Flags().BoolVar(&scanArchiveFlag, "archive", false, "also write the report to the configured archive")
}

// runScan is the one-shot path: no database, no server. The report goes to
// stdout; a non-zero exit reports collection or scoring failure.
func runScan(cmd *cobra.Command, projectID string) error {
	cfg, err := config.LoadOptionalDB()
	if err != nil {
		return err
	}
	logger, err := logging.BootstrapFromEnv(logging.BootstrapOptions{Command: "scan", Writer: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	library, err := buildLibrary(cfg)
	if err != nil {
		return err
	}

	scanner := &scan.Scanner{
		Collector: collector.FileCollector{Dir: cfg.SnapshotDir},
		Library:   library,
		Workers:   cfg.ScanWorkers,
		Logger:    logger,
	}
	if scanArchiveFlag {
		archive, err := buildArchive(ctx, cfg)
		if err != nil {
			return err
		}
		scanner.Archive = archive
	}

	rep, runErr := scanner.Run(ctx, projectID)
	if runErr != nil && rep.ScanID == "" {
		return runErr
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return err
	}
	if runErr != nil {
		return &exitError{code: 2, err: runErr, silent: true}
	}
	return nil
}

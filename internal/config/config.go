package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr    = ":8080"
	defaultMetricsAddr = ":9090"

	defaultScanInterval = 1 * time.Hour
	defaultScanWorkers  = 4
	defaultArchiveDir   = "data/archive"
)

type Config struct {
	DatabaseURL string
	HTTPAddr    string
	MetricsAddr string

	// Scan settings
	ScanProjects []string
	ScanInterval time.Duration
	ScanWorkers  int
	SnapshotDir  string

	// Policy settings
	PolicyOverlayPath string

	// Archive settings
	ReportBucket string
	AWSRegion    string
	ArchiveDir   string
}

type LoadOptions struct {
	RequireDatabaseURL bool
}

func Load() (Config, error) {
	return LoadWithOptions(LoadOptions{RequireDatabaseURL: true})
}

func LoadOptionalDB() (Config, error) {
	return LoadWithOptions(LoadOptions{RequireDatabaseURL: false})
}

func LoadWithOptions(opts LoadOptions) (Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, err
		}
	}

	cfg := Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		HTTPAddr:          getenvDefault("HTTP_ADDR", defaultHTTPAddr),
		MetricsAddr:       getenvDefault("METRICS_ADDR", defaultMetricsAddr),
		ScanProjects:      splitProjects(os.Getenv("SCAN_PROJECTS")),
		ScanInterval:      defaultScanInterval,
		ScanWorkers:       getenvIntDefault("SCAN_WORKERS", defaultScanWorkers),
		SnapshotDir:       getenvDefault("SNAPSHOT_DIR", "data/snapshots"),
		PolicyOverlayPath: os.Getenv("POLICY_OVERLAY"),
		ReportBucket:      os.Getenv("REPORT_BUCKET"),
		AWSRegion:         os.Getenv("AWS_REGION"),
		ArchiveDir:        getenvDefault("ARCHIVE_DIR", defaultArchiveDir),
	}

	if v := os.Getenv("SCAN_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.ScanInterval = d
		}
	}

	if opts.RequireDatabaseURL && cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	return cfg, nil
}

// splitProjects parses a comma-separated project list, dropping blanks.
func splitProjects(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}

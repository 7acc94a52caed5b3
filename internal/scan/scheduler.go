package scan

import (
	"context"
	"log/slog"
	"time"
)

// Scheduler re-scans the configured projects on a fixed interval.
type Scheduler struct {
	Scanner  *Scanner
	Projects []string
	Interval time.Duration
}

func (s *Scheduler) Run(ctx context.Context) {
	if s.Scanner == nil || s.Interval <= 0 || len(s.Projects) == 0 {
		return
	}

	// Scan immediately at startup.
	s.scanAll(ctx)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.scanAll(ctx)
		}
	}
}

func (s *Scheduler) scanAll(ctx context.Context) {
	for _, project := range s.Projects {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.Scanner.Run(ctx, project); err != nil {
			slog.Error("scheduled scan failed", "project_id", project, "err", err)
		}
	}
}

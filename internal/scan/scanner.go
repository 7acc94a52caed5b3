// Package scan orchestrates one compliance scan: collect the inventory,
// evaluate it, score it, assemble the report, and persist the result.
package scan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hipaaguard/hipaaguard/internal/collector"
	"github.com/hipaaguard/hipaaguard/internal/evaluate"
	"github.com/hipaaguard/hipaaguard/internal/metrics"
	"github.com/hipaaguard/hipaaguard/internal/policy"
	"github.com/hipaaguard/hipaaguard/internal/report"
	"github.com/hipaaguard/hipaaguard/internal/store"
)

// Indexer records scan summaries. Satisfied by *store.Index; nil-safe fakes
// are used in tests.
type Indexer interface {
	Insert(ctx context.Context, rep report.Report) error
}

// Scanner runs scans end to end. Collector and Library are required; Index
// and Archive are optional so the one-shot CLI path can run without
// infrastructure.
type Scanner struct {
	Collector collector.Collector
	Library   *policy.Library
	Index     Indexer
	Archive   store.Archive
	Workers   int
	Logger    *slog.Logger

	now   func() time.Time
	newID func() string
}

// Run executes one scan for a project. The returned report is complete even
// when persistence fails; persistence errors are returned alongside it so
// callers can still surface the findings.
func (s *Scanner) Run(ctx context.Context, projectID string) (report.Report, error) {
	log := s.logger().With("project_id", projectID)
	started := s.clock()()
	scanID := s.idgen()()
	log.Info("scan started", "scan_id", scanID)

	assets, err := s.Collector.Collect(ctx, projectID)
	if err != nil {
		metrics.ScansTotal.WithLabelValues(projectID, "error").Inc()
		return report.Report{}, fmt.Errorf("scan %s: %w", scanID, err)
	}

	eval := evaluate.Evaluator{Library: s.Library, Workers: s.Workers, Logger: log}
	result, err := eval.Run(ctx, assets)
	if err != nil {
		metrics.ScansTotal.WithLabelValues(projectID, "error").Inc()
		return report.Report{}, fmt.Errorf("scan %s: %w", scanID, err)
	}

	meta := report.Metadata{
		ScanID:    scanID,
		ProjectID: projectID,
		Timestamp: started,
		Duration:  s.clock()().Sub(started),
	}
	rep, scoreErr := report.Assemble(meta, result)
	s.observe(rep, result)

	if scoreErr != nil {
		log.Error("scan could not be scored", "scan_id", scanID, "err", scoreErr)
	} else {
		log.Info("scan completed",
			"scan_id", scanID,
			"assets", rep.TotalAssets,
			"violations", rep.TotalViolations,
			"score", *rep.ComplianceScore,
			"duration_ms", rep.DurationMillis,
		)
	}

	if err := s.persist(ctx, rep); err != nil {
		return rep, fmt.Errorf("scan %s: %w", scanID, err)
	}
	return rep, scoreErr
}

func (s *Scanner) persist(ctx context.Context, rep report.Report) error {
	if s.Archive != nil {
		if err := s.Archive.Put(ctx, rep); err != nil {
			return err
		}
	}
	if s.Index != nil {
		if err := s.Index.Insert(ctx, rep); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scanner) observe(rep report.Report, result evaluate.Result) {
	project := rep.ProjectID
	metrics.ScanDuration.WithLabelValues(project).Observe(float64(rep.DurationMillis) / 1000)
	metrics.ScansTotal.WithLabelValues(project, rep.Status).Inc()
	metrics.AssetsScanned.WithLabelValues(project).Set(float64(rep.TotalAssets))
	if result.SkippedAssets > 0 {
		metrics.AssetsSkippedTotal.WithLabelValues(project).Add(float64(result.SkippedAssets))
	}
	if result.RuleErrors > 0 {
		metrics.RulePredicateErrorsTotal.WithLabelValues(project).Add(float64(result.RuleErrors))
	}
	if rep.ComplianceScore != nil {
		metrics.ComplianceScore.WithLabelValues(project).Set(float64(*rep.ComplianceScore))
	}
	metrics.ViolationsFound.WithLabelValues(project, string(policy.SeverityCritical)).Set(float64(rep.CriticalCount))
	metrics.ViolationsFound.WithLabelValues(project, string(policy.SeverityHigh)).Set(float64(rep.HighCount))
	metrics.ViolationsFound.WithLabelValues(project, string(policy.SeverityMedium)).Set(float64(rep.MediumCount))
	metrics.ViolationsFound.WithLabelValues(project, string(policy.SeverityLow)).Set(float64(rep.LowCount))
}

func (s *Scanner) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Scanner) clock() func() time.Time {
	if s.now != nil {
		return s.now
	}
	return time.Now
}

func (s *Scanner) idgen() func() string {
	if s.newID != nil {
		return s.newID
	}
	return func() string { return uuid.NewString() }
}

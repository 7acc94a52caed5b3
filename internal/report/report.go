// Package report assembles evaluation output, the compliance score, and scan
// metadata into the persisted report shape.
package report

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hipaaguard/hipaaguard/internal/evaluate"
	"github.com/hipaaguard/hipaaguard/internal/policy"
	"github.com/hipaaguard/hipaaguard/internal/score"
)

// Scan statuses. A failed status means the score could not be computed; the
// engine never substitutes a fabricated number.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Metadata is supplied by the scan orchestrator, not produced by the engine.
type Metadata struct {
	ScanID    string
	ProjectID string
	Timestamp time.Time
	Duration  time.Duration
}

// Violation is the wire form of one finding.
type Violation struct {
	ID               string   `json:"id"`
	Type             string   `json:"type"`
	Severity         string   `json:"severity"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	ResourceType     string   `json:"resource_type"`
	ResourceName     string   `json:"resource_name"`
	HIPAASection     string   `json:"hipaa_section"`
	BusinessImpact   string   `json:"business_impact"`
	RemediationSteps []string `json:"remediation_steps"`
	RiskLevel        string   `json:"risk_level"`
	EstimatedFixTime string   `json:"estimated_fix_time"`
}

// Report is the immutable record of one scan. A re-scan produces a new
// report, never an update.
type Report struct {
	ScanID           string      `json:"scan_id"`
	ProjectID        string      `json:"project_id"`
	ScanTimestamp    time.Time   `json:"scan_timestamp"`
	Status           string      `json:"status"`
	ComplianceScore  *int        `json:"compliance_score"`
	TotalViolations  int         `json:"total_violations"`
	CriticalCount    int         `json:"critical_violations"`
	HighCount        int         `json:"high_violations"`
	MediumCount      int         `json:"medium_violations"`
	LowCount         int         `json:"low_violations"`
	TotalAssets      int         `json:"total_assets"`
	SkippedAssets    int         `json:"skipped_assets"`
	Violations       []Violation `json:"violations"`
	DurationMillis   int64       `json:"duration_ms"`
}

// Assemble builds the report for one scan. Inputs are never mutated. On a
// scoring failure the report carries a nil score and failed status, and the
// failure is returned for the caller to surface; the violation detail is
// still preserved for the customer.
func Assemble(meta Metadata, eval evaluate.Result) (Report, error) {
	rep := Report{
		ScanID:          meta.ScanID,
		ProjectID:       meta.ProjectID,
		ScanTimestamp:   meta.Timestamp.UTC(),
		Status:          StatusCompleted,
		TotalViolations: len(eval.Violations),
		TotalAssets:     eval.AssetCount,
		SkippedAssets:   eval.SkippedAssets,
		Violations:      make([]Violation, 0, len(eval.Violations)),
		DurationMillis:  meta.Duration.Milliseconds(),
	}

	for _, v := range eval.Violations {
		rep.Violations = append(rep.Violations, wireViolation(v))
		switch v.Severity {
		case policy.SeverityCritical:
			rep.CriticalCount++
		case policy.SeverityHigh:
			rep.HighCount++
		case policy.SeverityMedium:
			rep.MediumCount++
		case policy.SeverityLow:
			rep.LowCount++
		}
	}

	total, err := score.Compute(eval.Violations)
	if err != nil {
		rep.Status = StatusFailed
		return rep, err
	}
	rep.ComplianceScore = &total
	return rep, nil
}

func wireViolation(v policy.Violation) Violation {
	return Violation{
		ID:               violationID(v),
		Type:             "hipaa_violation",
		Severity:         string(v.Severity),
		Title:            v.Title,
		Description:      v.Description,
		ResourceType:     v.AssetType,
		ResourceName:     v.ResourceName,
		HIPAASection:     v.Citation,
		BusinessImpact:   v.BusinessImpact,
		RemediationSteps: v.Remediation,
		RiskLevel:        riskLevel(v.Severity),
		EstimatedFixTime: estimatedFixTime(v.Severity),
	}
}

// violationID derives a stable id from the dedup key, so re-running a scan
// over the same inventory yields byte-identical reports.
func violationID(v policy.Violation) string {
	sum := sha256.Sum256([]byte(v.RuleID + "|" + v.ResourceName))
	return hex.EncodeToString(sum[:6])
}

func riskLevel(s policy.Severity) string {
	switch s {
	case policy.SeverityCritical:
		return "Critical"
	case policy.SeverityHigh:
		return "High"
	case policy.SeverityMedium:
		return "Medium"
	default:
		return "Low"
	}
}

// estimatedFixTime is coarse remediation-planning guidance keyed on severity.
func estimatedFixTime(s policy.Severity) string {
	switch s {
	case policy.SeverityCritical:
		return "2-4 hours"
	case policy.SeverityHigh:
		return "1-2 days"
	case policy.SeverityMedium:
		return "1 week"
	default:
		return "next maintenance window"
	}
}

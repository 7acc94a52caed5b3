package hipaa

import (
	"fmt"

	"github.com/hipaaguard/hipaaguard/internal/asset"
	"github.com/hipaaguard/hipaaguard/internal/policy"
)

// minLogRetentionDays is the shortest log retention accepted for breach
// investigation trails.
const minLogRetentionDays = 180

// Technical safeguards — audit controls (§164.312(b)).
func registerAuditControls(l *policy.Library) {
	l.MustRegister(policy.Rule{
		ID:             "storage-access-logging",
		AssetTypes:     []string{"storage.bucket"},
		Severity:       policy.SeverityMedium,
		Category:       policy.CategoryAuditControls,
		Citation:       "§164.312(b)",
		Title:          "Storage bucket access logging is disabled",
		BusinessImpact: "Access to PHI objects leaves no audit trail",
		Remediation: []string{
			"Create a log bucket for access logs",
			"Enable usage and storage logging on the bucket",
		},
		Predicate: func(a asset.Asset) (string, bool) {
			if dest, ok := a.String("logging.logBucket"); ok && dest != "" {
				return "", false
			}
			return fmt.Sprintf("Storage bucket %q has no access logging destination", a.ShortName()), true
		},
	})

	l.MustRegister(policy.Rule{
		ID:             "logsink-destination",
		AssetTypes:     []string{"logging.sink"},
		Severity:       policy.SeverityHigh,
		Category:       policy.CategoryAuditControls,
		Citation:       "§164.312(b)",
		Title:          "Log sink has no long-term storage destination",
		BusinessImpact: "Cannot detect or investigate potential PHI breaches",
		Remediation: []string{
			"Configure log retention and monitoring for breach detection",
			"Route the sink to a storage or BigQuery destination with retention",
		},
		Predicate: func(a asset.Asset) (string, bool) {
			if dest, ok := a.String("destination"); ok && dest != "" {
				return "", false
			}
			return fmt.Sprintf("Log sink %q is not configured for long-term storage required for breach detection", a.ShortName()), true
		},
	})

	l.MustRegister(policy.Rule{
		ID:             "logging-bucket-retention",
		AssetTypes:     []string{"logging.bucket"},
		Severity:       policy.SeverityMedium,
		Category:       policy.CategoryAuditControls,
		Citation:       "§164.312(b)",
		Title:          "Log bucket retention is too short",
		BusinessImpact: "Incomplete audit trail for compliance investigations",
		Remediation: []string{
			fmt.Sprintf("Raise log bucket retention to at least %d days", minLogRetentionDays),
			"Enable comprehensive logging with proper retention policies",
		},
		Predicate: func(a asset.Asset) (string, bool) {
			v, ok := a.Lookup("retentionDays")
			days, isNum := v.(float64)
			if ok && isNum && days >= minLogRetentionDays {
				return "", false
			}
			return fmt.Sprintf("Log bucket %q retains logs for fewer than %d days", a.ShortName(), minLogRetentionDays), true
		},
	})

	l.MustRegister(policy.Rule{
		ID:             "gke-cluster-logging",
		AssetTypes:     []string{"container.cluster"},
		Severity:       policy.SeverityMedium,
		Category:       policy.CategoryAuditControls,
		Citation:       "§164.312(b)",
		Title:          "GKE cluster logging is disabled",
		BusinessImpact: "Workload activity on PHI systems is not captured for audit",
		Remediation: []string{
			"Enable the cluster logging service",
			"Route cluster logs into the project's retained log buckets",
		},
		Predicate: func(a asset.Asset) (string, bool) {
			if svc, ok := a.String("loggingService"); ok && svc != "" && svc != "none" {
				return "", false
			}
			return fmt.Sprintf("GKE cluster %q does not ship logs to a logging service", a.ShortName()), true
		},
	})
}

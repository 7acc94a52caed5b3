package hipaa

import (
	"fmt"

	"github.com/hipaaguard/hipaaguard/internal/asset"
	"github.com/hipaaguard/hipaaguard/internal/policy"
)

// Physical safeguards (§164.310): for managed cloud resources these reduce to
// data backup and disposal controls.
func registerPhysical(l *policy.Library) {
	l.MustRegister(policy.Rule{
		ID:             "sql-automated-backups",
		AssetTypes:     []string{"sql.instance"},
		Severity:       policy.SeverityMedium,
		Category:       policy.CategoryPhysical,
		Citation:       "§164.310(d)(2)(iv)",
		Title:          "Cloud SQL instance has no automated backups",
		BusinessImpact: "PHI could be unrecoverable after data loss or corruption",
		Remediation: []string{
			"Enable automated backups on the instance",
			"Configure a backup window and retention policy",
			"Document backup and disaster recovery procedures",
		},
		Predicate: func(a asset.Asset) (string, bool) {
			if enabled, ok := a.Bool("settings.backupConfiguration.enabled"); ok && enabled {
				return "", false
			}
			return fmt.Sprintf("Cloud SQL instance %q does not have automated backups enabled", a.ShortName()), true
		},
	})

	l.MustRegister(policy.Rule{
		ID:             "sql-deletion-protection",
		AssetTypes:     []string{"sql.instance"},
		Severity:       policy.SeverityLow,
		Category:       policy.CategoryPhysical,
		Citation:       "§164.310(d)(2)",
		Title:          "Cloud SQL instance is not protected against deletion",
		BusinessImpact: "Accidental deletion would destroy PHI and its audit history",
		Remediation: []string{
			"Enable deletion protection on the instance",
			"Restrict instance delete permissions to break-glass roles",
		},
		Predicate: func(a asset.Asset) (string, bool) {
			if protected, ok := a.Bool("settings.deletionProtectionEnabled"); ok && protected {
				return "", false
			}
			return fmt.Sprintf("Cloud SQL instance %q can be deleted without deletion protection", a.ShortName()), true
		},
	})
}

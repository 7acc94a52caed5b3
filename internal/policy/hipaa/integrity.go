package hipaa

import (
	"fmt"

	"github.com/hipaaguard/hipaaguard/internal/asset"
	"github.com/hipaaguard/hipaaguard/internal/policy"
)

// Technical safeguards — integrity controls (§164.312(c)(1)).
func registerIntegrity(l *policy.Library) {
	l.MustRegister(policy.Rule{
		ID:             "storage-versioning",
		AssetTypes:     []string{"storage.bucket"},
		Severity:       policy.SeverityMedium,
		Category:       policy.CategoryIntegrityControls,
		Citation:       "§164.312(c)(1)",
		Title:          "Storage bucket versioning is disabled",
		BusinessImpact: "Improper alteration or destruction of PHI objects cannot be reversed",
		Remediation: []string{
			"Enable object versioning on the bucket",
			"Add lifecycle rules to bound noncurrent version growth",
		},
		Predicate: func(a asset.Asset) (string, bool) {
			if enabled, ok := a.Bool("versioning.enabled"); ok && enabled {
				return "", false
			}
			return fmt.Sprintf("Storage bucket %q does not version objects", a.ShortName()), true
		},
	})

	l.MustRegister(policy.Rule{
		ID:             "instance-integrity-monitoring",
		AssetTypes:     []string{"compute.instance"},
		Severity:       policy.SeverityLow,
		Category:       policy.CategoryIntegrityControls,
		Citation:       "§164.312(c)(1)",
		Title:          "Compute instance boot integrity is not monitored",
		BusinessImpact: "Boot-level tampering on PHI systems would go unnoticed",
		Remediation: []string{
			"Enable Shielded VM integrity monitoring",
			"Enable secure boot where workload drivers allow it",
		},
		Predicate: func(a asset.Asset) (string, bool) {
			if enabled, ok := a.Bool("shieldedInstanceConfig.enableIntegrityMonitoring"); ok && enabled {
				return "", false
			}
			return fmt.Sprintf("Compute instance %q does not monitor boot integrity", a.ShortName()), true
		},
	})
}

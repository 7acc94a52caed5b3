package hipaa

import (
	"fmt"

	"github.com/hipaaguard/hipaaguard/internal/asset"
	"github.com/hipaaguard/hipaaguard/internal/policy"
)

// Technical safeguards — access control (§164.312(a)(1)).
//
// Absence of a control is treated as the control being disabled: a bucket
// whose iamConfiguration carries no public access prevention setting is
// flagged exactly like one where prevention is explicitly inherited.
func registerAccessControl(l *policy.Library) {
	l.MustRegister(policy.Rule{
		ID:             "storage-public-access-prevention",
		AssetTypes:     []string{"storage.bucket"},
		Severity:       policy.SeverityHigh,
		Category:       policy.CategoryAccessControl,
		Citation:       "§164.312(a)(1)",
		Title:          "Storage bucket does not enforce public access prevention",
		BusinessImpact: "PHI data could be publicly accessible on the internet",
		Remediation: []string{
			"Review bucket IAM policies",
			"Set public access prevention to enforced",
			"Remove public access permissions",
			"Implement least privilege access",
		},
		Predicate: func(a asset.Asset) (string, bool) {
			if v, ok := a.String("iamConfiguration.publicAccessPrevention"); ok && v == "enforced" {
				return "", false
			}
			return fmt.Sprintf("Storage bucket %q does not enforce public access prevention", a.ShortName()), true
		},
	})

	l.MustRegister(policy.Rule{
		ID:             "storage-uniform-bucket-access",
		AssetTypes:     []string{"storage.bucket"},
		Severity:       policy.SeverityMedium,
		Category:       policy.CategoryAccessControl,
		Citation:       "§164.312(a)(1)",
		Title:          "Storage bucket allows per-object ACLs",
		BusinessImpact: "Object-level ACLs can silently grant access outside bucket IAM policy",
		Remediation: []string{
			"Enable uniform bucket-level access",
			"Migrate object ACL grants into bucket IAM bindings",
		},
		Predicate: func(a asset.Asset) (string, bool) {
			if enabled, ok := a.Bool("iamConfiguration.uniformBucketLevelAccess.enabled"); ok && enabled {
				return "", false
			}
			return fmt.Sprintf("Storage bucket %q does not use uniform bucket-level access", a.ShortName()), true
		},
	})

	l.MustRegister(policy.Rule{
		ID:             "instance-block-project-ssh-keys",
		AssetTypes:     []string{"compute.instance"},
		Severity:       policy.SeverityLow,
		Category:       policy.CategoryAccessControl,
		Citation:       "§164.312(a)(1)",
		Title:          "Compute instance accepts project-wide SSH keys",
		BusinessImpact: "Anyone holding a project-wide key can log into PHI systems",
		Remediation: []string{
			"Set block-project-ssh-keys in instance metadata",
			"Manage access through instance-level keys or OS Login",
		},
		Predicate: func(a asset.Asset) (string, bool) {
			if v, ok := metadataValue(a, "block-project-ssh-keys"); ok && v == "true" {
				return "", false
			}
			return fmt.Sprintf("Compute instance %q does not block project-wide SSH keys", a.ShortName()), true
		},
	})
}

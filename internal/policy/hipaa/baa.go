package hipaa

import (
	"fmt"

	"github.com/hipaaguard/hipaaguard/internal/asset"
	"github.com/hipaaguard/hipaaguard/internal/policy"
)

// labeledAssetTypes are the resource kinds expected to carry environment and
// data classification labels for business associate accounting.
var labeledAssetTypes = []string{"storage.bucket", "compute.instance", "sql.instance"}

// Business associate checks (§164.308(b)): resources handling PHI must be
// attributable to an environment and a data classification so BAA coverage
// can be audited.
func registerBusinessAssociate(l *policy.Library) {
	l.MustRegister(policy.Rule{
		ID:             "resource-environment-label",
		AssetTypes:     labeledAssetTypes,
		Severity:       policy.SeverityLow,
		Category:       policy.CategoryBusinessAssociate,
		Citation:       "§164.308(b)(1)",
		Title:          "Resource has no environment label",
		BusinessImpact: "Production PHI systems cannot be separated from development resources in audits",
		Remediation: []string{
			"Implement environment tagging strategy (dev/staging/prod)",
			"Apply consistent labels to all cloud resources",
			"Set up automated tagging policies and compliance monitoring",
		},
		Predicate: func(a asset.Asset) (string, bool) {
			if v, ok := label(a, "env"); ok && v != "" {
				return "", false
			}
			if v, ok := label(a, "environment"); ok && v != "" {
				return "", false
			}
			return fmt.Sprintf("Resource %q carries no environment label", a.ShortName()), true
		},
	})

	l.MustRegister(policy.Rule{
		ID:             "resource-data-classification-label",
		AssetTypes:     labeledAssetTypes,
		Severity:       policy.SeverityLow,
		Category:       policy.CategoryBusinessAssociate,
		Citation:       "§164.308(b)(1)",
		Title:          "Resource has no data classification label",
		BusinessImpact: "PHI-bearing resources cannot be distinguished from non-sensitive ones",
		Remediation: []string{
			"Define data classification levels including PHI",
			"Label every storage and database resource with its classification",
			"Document environment classification procedures",
		},
		Predicate: func(a asset.Asset) (string, bool) {
			if v, ok := label(a, "data-classification"); ok && v != "" {
				return "", false
			}
			return fmt.Sprintf("Resource %q carries no data classification label", a.ShortName()), true
		},
	})
}

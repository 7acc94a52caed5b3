package hipaa

import (
	"fmt"
	"strings"

	"github.com/hipaaguard/hipaaguard/internal/asset"
	"github.com/hipaaguard/hipaaguard/internal/policy"
)

const defaultComputeSASuffix = "-compute@developer.gserviceaccount.com"

// Administrative safeguards (§164.308): workforce access management and
// least-privilege service account hygiene.
func registerAdministrative(l *policy.Library) {
	l.MustRegister(policy.Rule{
		ID:             "instance-default-service-account",
		AssetTypes:     []string{"compute.instance"},
		Severity:       policy.SeverityHigh,
		Category:       policy.CategoryAdministrative,
		Citation:       "§164.308(a)(3)",
		Title:          "Compute instance runs as the default service account",
		BusinessImpact: "Default accounts have excessive permissions and poor audit trails",
		Remediation: []string{
			"Create dedicated service accounts with minimal required permissions",
			"Assign the custom service account to the instance",
			"Remove default service account usage",
			"Implement service account key rotation",
		},
		Predicate: func(a asset.Asset) (string, bool) {
			accounts, ok := a.Slice("serviceAccounts")
			if !ok {
				return "", false
			}
			for _, raw := range accounts {
				sa, ok := asset.AsMap(raw)
				if !ok {
					continue
				}
				email, _ := sa["email"].(string)
				if strings.HasSuffix(email, defaultComputeSASuffix) {
					return fmt.Sprintf("Compute instance %q is attached to the default service account %q", a.ShortName(), email), true
				}
			}
			return "", false
		},
	})

	l.MustRegister(policy.Rule{
		ID:             "iam-default-service-account-active",
		AssetTypes:     []string{"iam.serviceAccount"},
		Severity:       policy.SeverityMedium,
		Category:       policy.CategoryAdministrative,
		Citation:       "§164.308(a)(4)",
		Title:          "Default service account is active",
		BusinessImpact: "Excessive permissions could lead to unauthorized PHI access",
		Remediation: []string{
			"Review and apply principle of least privilege to all service accounts",
			"Disable the default service account once workloads use dedicated accounts",
		},
		Predicate: func(a asset.Asset) (string, bool) {
			email, _ := a.String("email")
			if email == "" {
				email = a.ShortName()
			}
			isDefault := strings.HasSuffix(email, defaultComputeSASuffix) ||
				strings.HasSuffix(email, "@appspot.gserviceaccount.com")
			if !isDefault {
				return "", false
			}
			if disabled, ok := a.Bool("disabled"); ok && disabled {
				return "", false
			}
			return fmt.Sprintf("Default service account %q is active and usable for PHI access", email), true
		},
	})
}

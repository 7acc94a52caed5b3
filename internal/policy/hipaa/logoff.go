package hipaa

import (
	"fmt"

	"github.com/hipaaguard/hipaaguard/internal/asset"
	"github.com/hipaaguard/hipaaguard/internal/policy"
)

// Technical safeguards — automatic logoff (§164.312(a)(2)(iii)).
func registerAutomaticLogoff(l *policy.Library) {
	l.MustRegister(policy.Rule{
		ID:             "instance-session-timeout",
		AssetTypes:     []string{"compute.instance"},
		Severity:       policy.SeverityHigh,
		Category:       policy.CategoryAutomaticLogoff,
		Citation:       "§164.312(a)(2)(iii)",
		Title:          "Compute instance lacks session timeout configuration",
		BusinessImpact: "Users may remain logged in beyond necessary timeframes",
		Remediation: []string{
			"Configure automatic session timeouts for all compute instances accessing PHI",
			"Set the session-timeout metadata key to the approved idle limit",
		},
		Predicate: func(a asset.Asset) (string, bool) {
			if v, ok := metadataValue(a, "session-timeout"); ok && v != "" {
				return "", false
			}
			return fmt.Sprintf("Compute instance %q lacks session timeout configuration", a.ShortName()), true
		},
	})
}

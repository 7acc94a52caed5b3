package hipaa

import (
	"fmt"

	"github.com/hipaaguard/hipaaguard/internal/asset"
	"github.com/hipaaguard/hipaaguard/internal/policy"
)

// Technical safeguards — encryption at rest (§164.312(a)(2)(iv)) and in
// transit (§164.312(e)(2)(ii)).
func registerEncryption(l *policy.Library) {
	l.MustRegister(policy.Rule{
		ID:             "sql-require-ssl",
		AssetTypes:     []string{"sql.instance"},
		Severity:       policy.SeverityHigh,
		Category:       policy.CategoryEncryptionInTransit,
		Citation:       "§164.312(e)(2)(ii)",
		Title:          "Cloud SQL instance accepts unencrypted connections",
		BusinessImpact: "PHI in transit between applications and the database can be intercepted",
		Remediation: []string{
			"Require SSL/TLS for all connections to the instance",
			"Rotate server certificates and update clients",
			"Verify no clients still connect without TLS",
		},
		Predicate: func(a asset.Asset) (string, bool) {
			if required, ok := a.Bool("settings.ipConfiguration.requireSsl"); ok && required {
				return "", false
			}
			return fmt.Sprintf("Cloud SQL instance %q does not require SSL for connections", a.ShortName()), true
		},
	})

	l.MustRegister(policy.Rule{
		ID:             "sql-disk-encryption",
		AssetTypes:     []string{"sql.instance"},
		Severity:       policy.SeverityHigh,
		Category:       policy.CategoryEncryptionAtRest,
		Citation:       "§164.312(a)(2)(iv)",
		Title:          "Cloud SQL instance has no disk encryption configuration",
		BusinessImpact: "PHI at rest is not protected by a customer-controlled encryption key",
		Remediation: []string{
			"Configure disk encryption with a customer-managed key",
			"Document key management and rotation procedures",
		},
		Predicate: func(a asset.Asset) (string, bool) {
			if _, ok := a.Lookup("diskEncryptionConfiguration"); ok {
				return "", false
			}
			return fmt.Sprintf("Cloud SQL instance %q has no disk encryption configuration", a.ShortName()), true
		},
	})

	l.MustRegister(policy.Rule{
		ID:             "storage-cmek",
		AssetTypes:     []string{"storage.bucket"},
		Severity:       policy.SeverityLow,
		Category:       policy.CategoryEncryptionAtRest,
		Citation:       "§164.312(a)(2)(iv)",
		Title:          "Storage bucket uses no customer-managed encryption key",
		BusinessImpact: "Key custody for PHI at rest remains entirely with the provider",
		Remediation: []string{
			"Create a KMS key ring and key for the bucket",
			"Set the bucket's default KMS key",
		},
		Predicate: func(a asset.Asset) (string, bool) {
			if key, ok := a.String("encryption.defaultKmsKeyName"); ok && key != "" {
				return "", false
			}
			return fmt.Sprintf("Storage bucket %q has no default customer-managed encryption key", a.ShortName()), true
		},
	})

	l.MustRegister(policy.Rule{
		ID:             "gke-database-encryption",
		AssetTypes:     []string{"container.cluster"},
		Severity:       policy.SeverityHigh,
		Category:       policy.CategoryEncryptionAtRest,
		Citation:       "§164.312(a)(2)(iv)",
		Title:          "GKE cluster secrets are not encrypted at the application layer",
		BusinessImpact: "Kubernetes secrets holding PHI credentials are readable from etcd storage",
		Remediation: []string{
			"Enable application-layer secrets encryption with a KMS key",
			"Rotate existing secrets after enabling encryption",
		},
		Predicate: func(a asset.Asset) (string, bool) {
			if state, ok := a.String("databaseEncryption.state"); ok && state == "ENCRYPTED" {
				return "", false
			}
			return fmt.Sprintf("GKE cluster %q does not encrypt secrets with a KMS key", a.ShortName()), true
		},
	})
}

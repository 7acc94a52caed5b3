// Package hipaa defines the HIPAA Security Rule compliance library: one
// static registry of rules over GCP resource metadata, grouped by safeguard
// category. The library is built once at process start.
package hipaa

import (
	"github.com/hipaaguard/hipaaguard/internal/asset"
	"github.com/hipaaguard/hipaaguard/internal/policy"
)

// Library builds the full HIPAA rule set. Category order mirrors the
// Security Rule: administrative, physical, technical safeguards, then
// network security and business associate checks. Order within a category is
// insertion order and is part of the engine's deterministic-output contract.
func Library() *policy.Library {
	l := policy.NewLibrary()
	registerAdministrative(l)
	registerPhysical(l)
	registerAccessControl(l)
	registerEncryption(l)
	registerAuditControls(l)
	registerAutomaticLogoff(l)
	registerIntegrity(l)
	registerNetworkSecurity(l)
	registerBusinessAssociate(l)
	return l
}

// metadataValue reads a compute instance metadata entry by key. Instance
// metadata is a list of {key, value} items under metadata.items.
func metadataValue(a asset.Asset, key string) (string, bool) {
	items, ok := a.Slice("metadata.items")
	if !ok {
		return "", false
	}
	for _, raw := range items {
		item, ok := asset.AsMap(raw)
		if !ok {
			continue
		}
		k, _ := item["key"].(string)
		if k != key {
			continue
		}
		v, _ := item["value"].(string)
		return v, true
	}
	return "", false
}

// label reads a resource label, looking in both the common labels map and
// Cloud SQL's settings.userLabels location.
func label(a asset.Asset, key string) (string, bool) {
	for _, path := range []string{"labels." + key, "settings.userLabels." + key} {
		if v, ok := a.Lookup(path); ok {
			s, _ := v.(string)
			return s, true
		}
	}
	return "", false
}

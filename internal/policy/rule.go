// Package policy holds the compliance rule model and the process-wide rule
// library. Rules are defined statically at startup and never mutated at
// runtime, so the library is safe for concurrent reads across scans.
package policy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hipaaguard/hipaaguard/internal/asset"
)

// Category groups rules by HIPAA Security Rule safeguard.
type Category string

const (
	CategoryAdministrative      Category = "administrative_safeguards"
	CategoryPhysical            Category = "physical_safeguards"
	CategoryAccessControl       Category = "technical_access_control"
	CategoryEncryptionAtRest    Category = "technical_encryption_at_rest"
	CategoryEncryptionInTransit Category = "technical_encryption_in_transit"
	CategoryAuditControls       Category = "technical_audit_controls"
	CategoryAutomaticLogoff     Category = "technical_automatic_logoff"
	CategoryIntegrityControls   Category = "technical_integrity_controls"
	CategoryNetworkSecurity     Category = "network_security"
	CategoryBusinessAssociate   Category = "business_associate"
)

// Predicate decides whether one asset violates the rule. It returns a
// resource-specific detail sentence and true when a violation exists.
// Predicates probe property paths fail-closed: an absent security control is
// treated as disabled, not as unknown.
type Predicate func(a asset.Asset) (string, bool)

// Rule is one compliance check: static metadata plus a pure predicate over a
// single asset.
type Rule struct {
	ID             string
	AssetTypes     []string
	Severity       Severity
	Category       Category
	Citation       string
	Title          string
	BusinessImpact string
	Remediation    []string
	Predicate      Predicate
}

func (r Rule) validate() error {
	var errs []error
	if strings.TrimSpace(r.ID) == "" {
		errs = append(errs, errors.New("missing id"))
	}
	if len(r.AssetTypes) == 0 {
		errs = append(errs, fmt.Errorf("%s: no asset types", r.ID))
	}
	if !r.Severity.Known() {
		errs = append(errs, fmt.Errorf("%s: unknown severity %q", r.ID, r.Severity))
	}
	if strings.TrimSpace(r.Citation) == "" {
		errs = append(errs, fmt.Errorf("%s: missing citation", r.ID))
	}
	if r.Predicate == nil {
		errs = append(errs, fmt.Errorf("%s: missing predicate", r.ID))
	}
	return errors.Join(errs...)
}

// Evaluate runs the rule against one asset and returns the violation, or nil
// when the asset is compliant or the rule does not apply to its type.
func (r Rule) Evaluate(a asset.Asset) *Violation {
	if !r.appliesTo(a.Type) {
		return nil
	}
	detail, violated := r.Predicate(a)
	if !violated {
		return nil
	}
	return &Violation{
		RuleID:         r.ID,
		AssetType:      a.Type,
		ResourceName:   a.Name,
		Severity:       r.Severity,
		Category:       r.Category,
		Citation:       r.Citation,
		Title:          r.Title,
		Description:    detail,
		BusinessImpact: r.BusinessImpact,
		Remediation:    r.Remediation,
	}
}

func (r Rule) appliesTo(assetType string) bool {
	for _, t := range r.AssetTypes {
		if t == assetType {
			return true
		}
	}
	return false
}

// Violation is a structured finding that one asset fails one rule. Immutable
// once created.
type Violation struct {
	RuleID         string   `json:"rule_id"`
	AssetType      string   `json:"asset_type"`
	ResourceName   string   `json:"resource_name"`
	Severity       Severity `json:"severity"`
	Category       Category `json:"category"`
	Citation       string   `json:"citation"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	BusinessImpact string   `json:"business_impact"`
	Remediation    []string `json:"remediation_steps"`
}

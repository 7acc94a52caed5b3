package policy

import (
	"strings"
	"testing"

	"github.com/hipaaguard/hipaaguard/internal/asset"
)

func testRule(id string, sev Severity, types ...string) Rule {
	return Rule{
		ID:         id,
		AssetTypes: types,
		Severity:   sev,
		Category:   CategoryAccessControl,
		Citation:   "164.312(a)(1)",
		Title:      "test rule " + id,
		Predicate:  func(asset.Asset) (string, bool) { return "violated", true },
	}
}

func TestLibraryRegisterAndLookup(t *testing.T) {
	lib := NewLibrary()
	if err := lib.Register(testRule("a", SeverityHigh, "storage.bucket")); err != nil {
		t.Fatalf("Register(a) error = %v", err)
	}
	if err := lib.Register(testRule("b", SeverityLow, "storage.bucket", "sql.instance")); err != nil {
		t.Fatalf("Register(b) error = %v", err)
	}

	if lib.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", lib.Len())
	}

	bucketRules := lib.RulesFor("storage.bucket")
	if len(bucketRules) != 2 || bucketRules[0].ID != "a" || bucketRules[1].ID != "b" {
		t.Fatalf("RulesFor(storage.bucket) = %v", ruleIDs(bucketRules))
	}
	if got := lib.RulesFor("compute.instance"); got != nil {
		t.Fatalf("RulesFor(compute.instance) = %v, want nil", ruleIDs(got))
	}

	r, ok := lib.Rule("b")
	if !ok || r.Severity != SeverityLow {
		t.Fatalf("Rule(b) = %v, %v", r.ID, ok)
	}
}

func TestLibraryRejectsDuplicateID(t *testing.T) {
	lib := NewLibrary()
	if err := lib.Register(testRule("dup", SeverityHigh, "storage.bucket")); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	err := lib.Register(testRule("dup", SeverityLow, "sql.instance"))
	if err == nil || !strings.Contains(err.Error(), "duplicate id") {
		t.Fatalf("Register(duplicate) error = %v", err)
	}
}

func TestLibraryRejectsInvalidRule(t *testing.T) {
	lib := NewLibrary()
	bad := Rule{ID: "no-predicate", AssetTypes: []string{"x"}, Severity: SeverityHigh, Citation: "164.312"}
	if err := lib.Register(bad); err == nil {
		t.Fatal("rule without predicate should be rejected")
	}
	if err := lib.Register(testRule("bad-sev", Severity("URGENT"), "x")); err == nil {
		t.Fatal("unknown severity should be rejected")
	}
}

func TestRuleEvaluate(t *testing.T) {
	r := Rule{
		ID:         "bucket-check",
		AssetTypes: []string{"storage.bucket"},
		Severity:   SeverityHigh,
		Category:   CategoryAccessControl,
		Citation:   "164.312(a)(1)",
		Title:      "Bucket misconfigured",
		Predicate: func(a asset.Asset) (string, bool) {
			if _, ok := a.Bool("locked"); ok {
				return "", false
			}
			return "bucket is not locked", true
		},
	}

	v := r.Evaluate(asset.Asset{Type: "storage.bucket", Name: "b1", Properties: map[string]any{}})
	if v == nil {
		t.Fatal("expected violation")
	}
	if v.RuleID != "bucket-check" || v.ResourceName != "b1" || v.Description != "bucket is not locked" {
		t.Fatalf("violation = %+v", v)
	}

	if v := r.Evaluate(asset.Asset{Type: "sql.instance", Name: "db"}); v != nil {
		t.Fatalf("rule should not apply to sql.instance, got %+v", v)
	}
	if v := r.Evaluate(asset.Asset{Type: "storage.bucket", Name: "b2", Properties: map[string]any{"locked": true}}); v != nil {
		t.Fatalf("compliant asset should not violate, got %+v", v)
	}
}

func TestSeverityRank(t *testing.T) {
	order := []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() <= order[i].Rank() {
			t.Fatalf("%s should rank above %s", order[i-1], order[i])
		}
	}
	if Severity("bogus").Rank() != 0 {
		t.Fatal("unknown severity should rank 0")
	}
}

func ruleIDs(rules []Rule) []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.ID)
	}
	return out
}

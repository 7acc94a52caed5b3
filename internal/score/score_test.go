package score

import (
	"errors"
	"testing"

	"github.com/hipaaguard/hipaaguard/internal/policy"
)

func violations(severities ...policy.Severity) []policy.Violation {
	out := make([]policy.Violation, 0, len(severities))
	for i, s := range severities {
		out = append(out, policy.Violation{RuleID: "r", ResourceName: string(rune('a' + i)), Severity: s})
	}
	return out
}

func TestComputeEmptyIsHundred(t *testing.T) {
	got, err := Compute(nil)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if got != 100 {
		t.Fatalf("Compute(nil) = %d, want 100", got)
	}
}

func TestComputePenalties(t *testing.T) {
	cases := []struct {
		severities []policy.Severity
		want       int
	}{
		{[]policy.Severity{policy.SeverityCritical}, 85},
		{[]policy.Severity{policy.SeverityHigh}, 92},
		{[]policy.Severity{policy.SeverityMedium}, 96},
		{[]policy.Severity{policy.SeverityLow}, 99},
		{[]policy.Severity{policy.SeverityCritical, policy.SeverityHigh, policy.SeverityMedium, policy.SeverityLow}, 72},
	}
	for _, tc := range cases {
		got, err := Compute(violations(tc.severities...))
		if err != nil {
			t.Fatalf("Compute(%v) error = %v", tc.severities, err)
		}
		if got != tc.want {
			t.Fatalf("Compute(%v) = %d, want %d", tc.severities, got, tc.want)
		}
	}
}

func TestComputeFloorsAtZero(t *testing.T) {
	many := make([]policy.Severity, 10)
	for i := range many {
		many[i] = policy.SeverityCritical
	}
	got, err := Compute(violations(many...))
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if got != 0 {
		t.Fatalf("Compute(10 critical) = %d, want 0", got)
	}
}

func TestComputeOrderIndependent(t *testing.T) {
	a, err := Compute(violations(policy.SeverityLow, policy.SeverityCritical, policy.SeverityHigh))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Compute(violations(policy.SeverityHigh, policy.SeverityLow, policy.SeverityCritical))
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("order changed the score: %d vs %d", a, b)
	}
}

func TestComputeUnknownSeverityFails(t *testing.T) {
	_, err := Compute([]policy.Violation{{RuleID: "weird", Severity: policy.Severity("SEVERE")}})
	if err == nil {
		t.Fatal("expected scoring failure")
	}
	var failure Failure
	if !errors.As(err, &failure) {
		t.Fatalf("error type = %T, want Failure", err)
	}
	if failure.RuleID != "weird" {
		t.Fatalf("Failure.RuleID = %q", failure.RuleID)
	}
}

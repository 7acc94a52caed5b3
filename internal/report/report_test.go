package report

import (
	"reflect"
	"testing"
	"time"

	"github.com/hipaaguard/hipaaguard/internal/evaluate"
	"github.com/hipaaguard/hipaaguard/internal/policy"
)

func sampleMeta() Metadata {
	return Metadata{
		ScanID:    "scan-1",
		ProjectID: "prod-phi",
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Duration:  1500 * time.Millisecond,
	}
}

func sampleEval() evaluate.Result {
	return evaluate.Result{
		AssetCount:    10,
		SkippedAssets: 1,
		Violations: []policy.Violation{
			{RuleID: "r-crit", ResourceName: "fw", AssetType: "compute.firewall", Severity: policy.SeverityCritical, Citation: "§164.312(e)(1)", Title: "open ssh", Remediation: []string{"close it"}},
			{RuleID: "r-high", ResourceName: "bucket", AssetType: "storage.bucket", Severity: policy.SeverityHigh, Citation: "§164.312(a)(1)", Title: "public bucket"},
			{RuleID: "r-low", ResourceName: "db", AssetType: "sql.instance", Severity: policy.SeverityLow, Citation: "§164.310(d)(2)", Title: "no deletion protection"},
		},
	}
}

func TestAssemble(t *testing.T) {
	rep, err := Assemble(sampleMeta(), sampleEval())
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if rep.Status != StatusCompleted {
		t.Fatalf("Status = %q", rep.Status)
	}
	if rep.ComplianceScore == nil || *rep.ComplianceScore != 76 {
		t.Fatalf("ComplianceScore = %v, want 76", rep.ComplianceScore)
	}
	if rep.TotalViolations != 3 || rep.CriticalCount != 1 || rep.HighCount != 1 || rep.MediumCount != 0 || rep.LowCount != 1 {
		t.Fatalf("counts = %d/%d/%d/%d/%d", rep.TotalViolations, rep.CriticalCount, rep.HighCount, rep.MediumCount, rep.LowCount)
	}
	if rep.TotalAssets != 10 || rep.SkippedAssets != 1 {
		t.Fatalf("assets = %d skipped %d", rep.TotalAssets, rep.SkippedAssets)
	}
	if rep.DurationMillis != 1500 {
		t.Fatalf("DurationMillis = %d", rep.DurationMillis)
	}

	v := rep.Violations[0]
	if v.Type != "hipaa_violation" {
		t.Fatalf("Type = %q", v.Type)
	}
	if v.HIPAASection != "§164.312(e)(1)" {
		t.Fatalf("HIPAASection = %q", v.HIPAASection)
	}
	if v.RiskLevel != "Critical" || v.EstimatedFixTime != "2-4 hours" {
		t.Fatalf("risk/fix = %q/%q", v.RiskLevel, v.EstimatedFixTime)
	}
}

func TestAssembleDeterministicIDs(t *testing.T) {
	first, err := Assemble(sampleMeta(), sampleEval())
	if err != nil {
		t.Fatal(err)
	}
	meta := sampleMeta()
	meta.ScanID = "scan-2"
	second, err := Assemble(meta, sampleEval())
	if err != nil {
		t.Fatal(err)
	}

	ids := func(r Report) []string {
		out := make([]string, 0, len(r.Violations))
		for _, v := range r.Violations {
			out = append(out, v.ID)
		}
		return out
	}
	if !reflect.DeepEqual(ids(first), ids(second)) {
		t.Fatalf("violation ids changed across scans: %v vs %v", ids(first), ids(second))
	}
}

func TestAssembleScoringFailure(t *testing.T) {
	eval := sampleEval()
	eval.Violations = append(eval.Violations, policy.Violation{RuleID: "bad", Severity: policy.Severity("SEVERE")})

	rep, err := Assemble(sampleMeta(), eval)
	if err == nil {
		t.Fatal("expected scoring failure")
	}
	if rep.Status != StatusFailed {
		t.Fatalf("Status = %q, want failed", rep.Status)
	}
	if rep.ComplianceScore != nil {
		t.Fatalf("ComplianceScore = %v, want nil", rep.ComplianceScore)
	}
	// Violation detail survives the failure.
	if len(rep.Violations) != 4 {
		t.Fatalf("Violations = %d, want 4", len(rep.Violations))
	}
}

func TestAssembleEmptyInventory(t *testing.T) {
	rep, err := Assemble(sampleMeta(), evaluate.Result{})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if rep.ComplianceScore == nil || *rep.ComplianceScore != 100 {
		t.Fatalf("ComplianceScore = %v, want 100", rep.ComplianceScore)
	}
	if len(rep.Violations) != 0 || rep.TotalViolations != 0 {
		t.Fatalf("Violations = %+v", rep.Violations)
	}
}

// Package score reduces a violation list to the 0–100 compliance score.
package score

import (
	"fmt"

	"github.com/hipaaguard/hipaaguard/internal/policy"
)

// Per-severity penalties. The score starts at 100, subtracts one penalty per
// violation, and floors at 0. These are fixed, documented constants: the
// score is a pure function of the violation severity multiset, independent
// of asset count, ordering, and wall-clock time.
const (
	PenaltyCritical = 15
	PenaltyHigh     = 8
	PenaltyMedium   = 4
	PenaltyLow      = 1
)

// Failure marks a violation list the scorer cannot price, e.g. an unknown
// severity value. It is fail-hard: a wrong compliance score is worse than no
// score, so the caller must surface a failed scan instead of a default.
type Failure struct {
	RuleID   string
	Severity policy.Severity
}

func (e Failure) Error() string {
	return fmt.Sprintf("cannot score violation from rule %s: unknown severity %q", e.RuleID, e.Severity)
}

// Compute returns the compliance score for a violation list. Zero violations
// is exactly 100.
func Compute(violations []policy.Violation) (int, error) {
	total := 100
	for _, v := range violations {
		switch v.Severity {
		case policy.SeverityCritical:
			total -= PenaltyCritical
		case policy.SeverityHigh:
			total -= PenaltyHigh
		case policy.SeverityMedium:
			total -= PenaltyMedium
		case policy.SeverityLow:
			total -= PenaltyLow
		default:
			return 0, Failure{RuleID: v.RuleID, Severity: v.Severity}
		}
	}
	if total < 0 {
		total = 0
	}
	return total, nil
}

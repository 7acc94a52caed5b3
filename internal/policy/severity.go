package policy

import (
	"fmt"
	"strings"
)

// Severity is the ordinal ranking of a violation, CRITICAL highest.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// Rank returns the sort weight of the severity, higher meaning more severe.
// Unknown severities rank below LOW.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Known reports whether s is one of the four defined severities.
func (s Severity) Known() bool {
	return s.Rank() > 0
}

// ParseSeverity parses a severity name case-insensitively.
func ParseSeverity(raw string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(SeverityCritical):
		return SeverityCritical, nil
	case string(SeverityHigh):
		return SeverityHigh, nil
	case string(SeverityMedium):
		return SeverityMedium, nil
	case string(SeverityLow):
		return SeverityLow, nil
	default:
		return "", fmt.Errorf("unknown severity %q", raw)
	}
}

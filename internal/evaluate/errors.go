package evaluate

import "fmt"

// MalformedAssetError marks an inventory entry missing its identity fields.
// The asset is skipped with a recorded warning; the scan continues.
type MalformedAssetError struct {
	Index  int
	Reason string
}

func (e MalformedAssetError) Error() string {
	return fmt.Sprintf("asset %d skipped: %s", e.Index, e.Reason)
}

// RulePredicateError marks a predicate that panicked while probing an
// asset's properties. The pairing is treated as "no violation" and logged;
// the remaining pairings still run.
type RulePredicateError struct {
	RuleID    string
	AssetName string
	Cause     any
}

func (e RulePredicateError) Error() string {
	return fmt.Sprintf("rule %s on %s: predicate failed: %v", e.RuleID, e.AssetName, e.Cause)
}

// Package evaluate runs an asset inventory through the rule library and
// assembles the deduplicated, deterministically ordered violation list.
package evaluate

import (
	"context"
	"log/slog"
	"sort"

	"github.com/hipaaguard/hipaaguard/internal/asset"
	"github.com/hipaaguard/hipaaguard/internal/policy"
)

// Result is one evaluation pass over an inventory.
type Result struct {
	Violations    []policy.Violation
	AssetCount    int
	SkippedAssets int
	RuleErrors    int
	Warnings      []string
}

// Evaluator evaluates inventories against a read-only rule library. A zero
// Workers value runs sequentially; higher values fan the asset loop out over
// a bounded worker pool. Output order is identical either way.
type Evaluator struct {
	Library *policy.Library
	Workers int
	Logger  *slog.Logger
}

type assetOutcome struct {
	violations []policy.Violation
	warnings   []string
	skipped    bool
	ruleErrors int
}

// Run evaluates every asset against the applicable rules. Malformed assets
// and panicking predicates are contained per pairing: partial input never
// aborts the scan. Two runs over the same inventory produce identical output.
func (e *Evaluator) Run(ctx context.Context, assets []asset.Asset) (Result, error) {
	outcomes := make([]assetOutcome, len(assets))

	process := func(ctx context.Context, idx int) (assetOutcome, error) {
		return e.evaluateAsset(idx, assets[idx]), nil
	}

	if e.Workers > 1 && len(assets) > 1 {
		indices := make([]int, len(assets))
		for i := range indices {
			indices[i] = i
		}
		collected, err := parallelCollect(ctx, indices, e.Workers, process)
		if err != nil {
			return Result{}, err
		}
		for i, out := range collected {
			outcomes[i] = out
		}
	} else {
		for i := range assets {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
			outcomes[i] = e.evaluateAsset(i, assets[i])
		}
	}

	res := Result{AssetCount: len(assets)}
	seen := make(map[violationKey]struct{})
	for _, out := range outcomes {
		if out.skipped {
			res.SkippedAssets++
		}
		res.RuleErrors += out.ruleErrors
		res.Warnings = append(res.Warnings, out.warnings...)
		for _, v := range out.violations {
			key := violationKey{ruleID: v.RuleID, resource: v.ResourceName}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			res.Violations = append(res.Violations, v)
		}
	}

	sortViolations(res.Violations)
	return res, nil
}

func (e *Evaluator) evaluateAsset(idx int, a asset.Asset) assetOutcome {
	var out assetOutcome

	if err := a.Validate(); err != nil {
		warn := MalformedAssetError{Index: idx, Reason: err.Error()}
		out.skipped = true
		out.warnings = append(out.warnings, warn.Error())
		e.logger().Warn("asset skipped", "index", idx, "reason", err.Error())
		return out
	}

	for _, rule := range e.Library.RulesFor(a.Type) {
		v, err := evaluateRule(rule, a)
		if err != nil {
			out.ruleErrors++
			out.warnings = append(out.warnings, err.Error())
			e.logger().Error("rule predicate failed", "rule_id", rule.ID, "asset", a.Name, "err", err)
			continue
		}
		if v != nil {
			out.violations = append(out.violations, *v)
		}
	}
	return out
}

// evaluateRule contains predicate panics so one bad rule/asset pairing never
// takes down the remaining pairings.
func evaluateRule(rule policy.Rule, a asset.Asset) (v *policy.Violation, err error) {
	defer func() {
		if r := recover(); r != nil {
			v = nil
			err = RulePredicateError{RuleID: rule.ID, AssetName: a.Name, Cause: r}
		}
	}()
	return rule.Evaluate(a), nil
}

type violationKey struct {
	ruleID   string
	resource string
}

// sortViolations applies the total order the report contract promises:
// severity descending, then citation, resource name, and rule id ascending.
// The rule id tiebreak makes the order total when two rules share a citation
// on one resource.
func sortViolations(violations []policy.Violation) {
	sort.SliceStable(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() > b.Severity.Rank()
		}
		if a.Citation != b.Citation {
			return a.Citation < b.Citation
		}
		if a.ResourceName != b.ResourceName {
			return a.ResourceName < b.ResourceName
		}
		return a.RuleID < b.RuleID
	})
}

func (e *Evaluator) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

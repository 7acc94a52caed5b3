package policy

import (
	"fmt"
	"strings"
)

// Library is an ordered, named collection of rules. Registration happens at
// process start; afterwards the library is read-only and safe to share across
// concurrent scans without locking.
type Library struct {
	rules  []Rule
	byID   map[string]int
	byType map[string][]int
}

// NewLibrary returns an empty rule library.
func NewLibrary() *Library {
	return &Library{
		byID:   make(map[string]int),
		byType: make(map[string][]int),
	}
}

// Register appends a rule. Rule order per asset type is insertion order,
// which keeps evaluation output deterministic and testable.
func (l *Library) Register(r Rule) error {
	if err := r.validate(); err != nil {
		return fmt.Errorf("register rule: %w", err)
	}
	id := strings.TrimSpace(r.ID)
	if _, exists := l.byID[id]; exists {
		return fmt.Errorf("register rule: duplicate id %q", id)
	}

	idx := len(l.rules)
	l.rules = append(l.rules, r)
	l.byID[id] = idx
	for _, t := range r.AssetTypes {
		l.byType[t] = append(l.byType[t], idx)
	}
	return nil
}

// MustRegister registers a rule and panics on definition errors. Rule
// definitions are static program data, so a bad one is a programming error
// caught at startup.
func (l *Library) MustRegister(r Rule) {
	if err := l.Register(r); err != nil {
		panic(err)
	}
}

// RulesFor returns the rules applicable to an asset type, in insertion order.
func (l *Library) RulesFor(assetType string) []Rule {
	idxs := l.byType[assetType]
	if len(idxs) == 0 {
		return nil
	}
	out := make([]Rule, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, l.rules[i])
	}
	return out
}

// Rules returns all rules in insertion order.
func (l *Library) Rules() []Rule {
	out := make([]Rule, len(l.rules))
	copy(out, l.rules)
	return out
}

// Rule returns one rule by id.
func (l *Library) Rule(id string) (Rule, bool) {
	i, ok := l.byID[strings.TrimSpace(id)]
	if !ok {
		return Rule{}, false
	}
	return l.rules[i], true
}

// Len returns the number of registered rules.
func (l *Library) Len() int {
	return len(l.rules)
}

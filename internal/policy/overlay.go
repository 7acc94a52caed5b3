package policy

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Overlay is a deployment-time adjustment to the rule library: individual
// rules can be disabled or given a different severity. Overlays are applied
// once, while the library is being built; they are not a runtime mutation
// surface.
type Overlay struct {
	Rules []OverlayRule `yaml:"rules"`
}

// OverlayRule adjusts a single rule by id.
type OverlayRule struct {
	ID       string `yaml:"id"`
	Enabled  *bool  `yaml:"enabled"`
	Severity string `yaml:"severity"`
}

// LoadOverlay reads an overlay YAML file. A missing path returns an empty
// overlay so deployments without one need no configuration.
func LoadOverlay(path string) (Overlay, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Overlay{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Overlay{}, fmt.Errorf("read policy overlay: %w", err)
	}
	var o Overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return Overlay{}, fmt.Errorf("parse policy overlay: %w", err)
	}
	return o, nil
}

// Apply rebuilds the library with the overlay's adjustments and returns the
// result. The receiver is left untouched.
func (l *Library) Apply(o Overlay) (*Library, error) {
	adjust := make(map[string]OverlayRule, len(o.Rules))
	var errs []error
	for _, or := range o.Rules {
		id := strings.TrimSpace(or.ID)
		if id == "" {
			errs = append(errs, errors.New("overlay rule with empty id"))
			continue
		}
		if _, ok := l.byID[id]; !ok {
			errs = append(errs, fmt.Errorf("overlay references unknown rule %q", id))
			continue
		}
		adjust[id] = or
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	out := NewLibrary()
	for _, r := range l.rules {
		or, ok := adjust[r.ID]
		if ok && or.Enabled != nil && !*or.Enabled {
			continue
		}
		if ok && strings.TrimSpace(or.Severity) != "" {
			sev, err := ParseSeverity(or.Severity)
			if err != nil {
				return nil, fmt.Errorf("overlay rule %q: %w", r.ID, err)
			}
			r.Severity = sev
		}
		if err := out.Register(r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

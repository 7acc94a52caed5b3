// Package asset holds the normalized representation of one scanned cloud
// resource and the safe property lookup used by compliance rules.
package asset

import (
	"fmt"
	"strconv"
	"strings"
)

// Asset is a snapshot of one cloud resource: its kind, its fully qualified
// name, and the provider's native resource representation. Properties carries
// arbitrarily nested JSON; rules probe the paths they care about and treat a
// missing path as "not configured".
type Asset struct {
	Type       string         `json:"asset_type"`
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties"`
}

// Validate reports whether the asset carries the required identity fields.
func (a Asset) Validate() error {
	if strings.TrimSpace(a.Type) == "" {
		return fmt.Errorf("asset %q: missing asset_type", a.Name)
	}
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("asset of type %q: missing name", a.Type)
	}
	return nil
}

// ShortName returns the last path segment of the resource name, which is how
// operators recognize the resource in violation titles.
func (a Asset) ShortName() string {
	name := strings.TrimSpace(a.Name)
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Lookup resolves a dotted property path ("settings.ipConfiguration.requireSsl")
// against the asset's properties. The second return distinguishes "absent"
// from "present but zero-valued": rules rely on that to tell an unconfigured
// control apart from an explicitly disabled one.
func (a Asset) Lookup(path string) (any, bool) {
	return Get(a.Properties, path)
}

// Bool resolves path to a boolean. Non-boolean values report absent.
func (a Asset) Bool(path string) (bool, bool) {
	v, ok := a.Lookup(path)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// String resolves path to a string. Non-string values report absent.
func (a Asset) String(path string) (string, bool) {
	v, ok := a.Lookup(path)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Slice resolves path to a JSON array.
func (a Asset) Slice(path string) ([]any, bool) {
	v, ok := a.Lookup(path)
	if !ok {
		return nil, false
	}
	s, ok := v.([]any)
	return s, ok
}

// Strings resolves path to an array and returns its string elements.
func (a Asset) Strings(path string) ([]string, bool) {
	raw, ok := a.Slice(path)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, true
}

// Get resolves a dotted path against JSON-like values (maps/slices produced
// by encoding/json). It returns (value, true) when every segment resolves and
// (nil, false) when any segment is missing. Numeric segments index arrays.
func Get(doc any, path string) (any, bool) {
	if path == "" {
		return doc, doc != nil
	}

	current := doc
	for _, part := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			v, ok := node[part]
			if !ok {
				return nil, false
			}
			current = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			current = node[i]
		default:
			return nil, false
		}
	}
	return current, true
}

// AsMap narrows a JSON value to an object, for rules iterating array elements.
func AsMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

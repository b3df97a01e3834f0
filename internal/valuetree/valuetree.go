// Package valuetree provides typed accessors over the resolved value tree
// that an external declarative-source parser hands to the config record
// builder (§1 of the format spec keeps that parser itself out of scope;
// only its resolved value tree is an input here). The tree is a plain
// map[string]any, mirroring how the teacher's BuildOptions decodes a
// resolved JSON manifest — but the builder needs looser, per-field typed
// access than a fixed Go struct can give a dynamic TOML/JSON source, so
// this package wraps the map with small helpers instead.
package valuetree

import "fmt"

// Tree wraps a resolved value map with typed accessors.
type Tree map[string]any

// Has reports whether key is present and non-nil.
func (t Tree) Has(key string) bool {
	v, ok := t[key]
	return ok && v != nil
}

// String returns the string value at key, or "" if absent.
func (t Tree) String(key string) string {
	v, ok := t[key]
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Int returns the integer value at key, accepting int, int64, uint32, and
// float64 (the last because JSON-decoded numbers commonly arrive as
// float64). ok is false if key is absent or not a number.
func (t Tree) Int(key string) (int, bool) {
	v, ok := t[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case uint32:
		return int(n), true
	default:
		return 0, false
	}
}

// StringSlice returns the value at key as a []string. Non-string elements
// are stringified with fmt.Sprintf("%v", ...).
func (t Tree) StringSlice(key string) []string {
	v, ok := t[key]
	if !ok || v == nil {
		return nil
	}
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, e := range s {
			if str, ok := e.(string); ok {
				out = append(out, str)
			} else {
				out = append(out, fmt.Sprintf("%v", e))
			}
		}
		return out
	default:
		return nil
	}
}

// SliceOfTrees returns the value at key as a slice of sub-trees, used for
// the parameter list.
func (t Tree) SliceOfTrees(key string) []Tree {
	v, ok := t[key]
	if !ok || v == nil {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Tree, 0, len(raw))
	for _, e := range raw {
		switch m := e.(type) {
		case map[string]any:
			out = append(out, Tree(m))
		case Tree:
			out = append(out, m)
		}
	}
	return out
}

// Package schema defines the diagnostic shape an external JSON-Schema
// validator emits before a program configuration ever reaches the
// builder. Schema validation itself is out of scope here -- only the
// message format is, so vmprog-pack can render a third party validator's
// findings through the same diagnostic sink it uses for its own
// warnings, consistent with what the original TOML schema validator
// tool prints.
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Diagnostic is one schema-validation finding at a JSON Pointer-style
// path within the source document.
type Diagnostic struct {
	Path     string
	Message  string
	Missing  []string
	Allowed  []string
	Expected string
	Actual   string
}

// String renders a Diagnostic the way the reference validator tool
// does: "at '<path>': <message>", with the same "Missing required
// field(s): [...]" and "(allowed: ...)" suffixes for the required/enum
// cases.
func (d Diagnostic) String() string {
	location := "at root"
	if d.Path != "" {
		location = fmt.Sprintf("at '%s'", d.Path)
	}

	msg := d.Message
	if len(d.Missing) > 0 {
		msg = fmt.Sprintf("Missing required field(s): [%s]", strings.Join(d.Missing, ", "))
	} else if len(d.Allowed) > 0 {
		msg = fmt.Sprintf("%s (allowed: %s)", msg, strings.Join(d.Allowed, ", "))
	} else if d.Expected != "" {
		msg = fmt.Sprintf("%s (expected %s, got %s)", msg, d.Expected, d.Actual)
	}

	return fmt.Sprintf("%s: %s", location, msg)
}

// FormatAll renders a sorted, numbered report for a set of diagnostics,
// matching the reference tool's "VALIDATION FAILED: Found N error(s)"
// listing. Diagnostics are sorted by path then message so output is
// stable across runs.
func FormatAll(diags []Diagnostic) string {
	sorted := append([]Diagnostic(nil), diags...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Path != sorted[j].Path {
			return sorted[i].Path < sorted[j].Path
		}
		return sorted[i].String() < sorted[j].String()
	})

	var b strings.Builder
	fmt.Fprintf(&b, "VALIDATION FAILED: Found %d error(s):\n\n", len(sorted))
	for i, d := range sorted {
		fmt.Fprintf(&b, "%d. %s\n", i+1, d.String())
	}
	return b.String()
}

package main

import (
	"strconv"
	"strings"
)

// fieldErrors accumulates per-field validation reasons for one submission.
// Rendered inline by the console; never raised as an exception.
type fieldErrors map[string]string

func (fe fieldErrors) add(field, reason string) {
	if reason != "" && fe[field] == "" {
		fe[field] = reason
	}
}

func (fe fieldErrors) ok() bool { return len(fe) == 0 }

// trim normalizes a free-text field: surrounding whitespace removed, absent
// values become "" so the persisted shape never carries a missing key.
func trim(s string) string { return strings.TrimSpace(s) }

// parseFloat converts an already-validated numeric form value; empty is 0.
func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// sameFieldSet reports whether two normalized field sets are deeply equal.
// Timestamps are excluded by construction (FieldSet never includes them), so
// an edit submission whose set matches the loaded one is a no-op.
func sameFieldSet(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

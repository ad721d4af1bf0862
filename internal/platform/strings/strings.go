// Package strings provides small string and slice helpers
package strings

import std "strings"

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// MustString returns s if it has non whitespace content otherwise panics
// name is used in the panic message so you can tell what was missing
func MustString(s string, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix normalizes a route prefix like /classify: one leading slash, no trailing slash.
// Panics if nothing remains after trimming
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// Truncate shortens s to at most n runes, appending an ellipsis when cut.
// Used to keep comment text in log lines bounded
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos] + "…"
		}
		i++
	}
	return s
}

// NonBlank returns the non-whitespace entries of xs, trimmed, in order
func NonBlank(xs []string) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if v := std.TrimSpace(x); v != "" {
			out = append(out, v)
		}
	}
	return out
}

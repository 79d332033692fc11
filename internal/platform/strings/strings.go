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

// SplitCSV splits a comma separated list, trimming items and dropping blanks
func SplitCSV(s string) []string {
	var out []string
	for p := range std.SplitSeq(s, ",") {
		if p = std.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FirstLine returns the first non empty line of s, trimmed
func FirstLine(s string) string {
	for l := range std.Lines(s) {
		if l = std.TrimSpace(l); l != "" {
			return l
		}
	}
	return ""
}

// NilIfEmpty maps whitespace only strings to a nil interface for nullable columns
func NilIfEmpty(s string) any {
	if std.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// Package ansi provides small helpers for working with ANSI escape
// sequences in rendered template output.
package ansi

import "regexp"

var escapePattern = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// Strip removes all ANSI escape sequences from text.
func Strip(text string) string {
	return escapePattern.ReplaceAllString(text, "")
}

// HasContent reports whether text contains anything beyond ANSI escape
// sequences.
func HasContent(text string) bool {
	return escapePattern.ReplaceAllString(text, "") != ""
}

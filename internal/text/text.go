// Package text provides pure string utilities for terminal output.
// Functions are ANSI-aware where it matters (visible width, truncation,
// padding). This is a leaf package with zero internal imports.
package text

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// ansiPattern matches ANSI escape sequences for stripping.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSI removes all ANSI escape sequences from a string.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// CountVisibleWidth returns the visible width of a string, excluding ANSI codes.
func CountVisibleWidth(s string) int {
	plain := StripANSI(s)
	return utf8.RuneCountInString(plain)
}

// Truncate shortens a string to width visible characters, adding "..." if truncated.
// ANSI-aware: counts visible characters only. When truncation occurs, ANSI codes
// are stripped from the result (reinserting codes at truncation boundaries is not
// supported).
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}

	visible := CountVisibleWidth(s)
	if visible <= width {
		return s
	}

	plain := StripANSI(s)
	runes := []rune(plain)

	if width <= 3 {
		return string(runes[:min(width, len(runes))])
	}

	return string(runes[:width-3]) + "..."
}

// TruncateMiddle shortens a string by removing characters from the middle.
// Useful for paths: "/Users/foo/very/long/path" -> "/Us.../path"
// ANSI-aware: when truncation occurs, ANSI codes are stripped from the result.
func TruncateMiddle(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if width <= 5 {
		return Truncate(s, width)
	}

	plain := StripANSI(s)
	runes := []rune(plain)
	length := len(runes)

	if length <= width {
		return s
	}

	ellipsis := "..."
	available := width - len(ellipsis)
	startLen := available / 2
	endLen := available - startLen

	return string(runes[:startLen]) + ellipsis + string(runes[length-endLen:])
}

// PadRight pads a string on the right to the specified width.
// ANSI-aware: counts visible characters only.
func PadRight(s string, width int) string {
	visible := CountVisibleWidth(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

// Indent prefixes each non-empty line with the given number of spaces.
func Indent(s string, spaces int) string {
	if s == "" || spaces <= 0 {
		return s
	}

	prefix := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// FirstLine returns the first line of a multi-line string.
func FirstLine(s string) string {
	if first, _, found := strings.Cut(s, "\n"); found {
		return first
	}
	return s
}

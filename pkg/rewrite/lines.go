package rewrite

import "strings"

// splitLines splits s into lines. A trailing newline does not start a new
// line, an empty string has no lines, and a '\r' before '\n' is dropped.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}

	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// countLines returns len(splitLines(s)) without allocating.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

package analysis

import "strings"

// SplitLines splits text on "\n". A trailing "\r" is dropped from every
// line so that CRLF documents index the same way as LF ones.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// charAt returns the rune at idx, or false when idx falls outside the line.
func charAt(line []rune, idx int) (rune, bool) {
	if idx < 0 || idx >= len(line) {
		return 0, false
	}
	return line[idx], true
}

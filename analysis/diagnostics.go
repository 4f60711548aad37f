package analysis

import (
	"fmt"
	"unicode/utf8"
)

const (
	DefaultMaxLineLength = 80
	DiagnosticSource     = "hlasmls"
)

type Severity int

const (
	SeverityError       Severity = 1
	SeverityWarning     Severity = iota + 1
	SeverityInformation Severity = iota + 1
	SeverityHint        Severity = iota + 1
)

type Diagnostic struct {
	Severity Severity `json:"severity"`
	Range    Range    `json:"range"`
	Message  string   `json:"message"`
	Source   string   `json:"source"`
}

func lineLengthMessage(maxLen int) string {
	return fmt.Sprintf("Line exceeds the maximum length of %d characters", maxLen)
}

// ValidateLineLength reports one error per line longer than maxLen,
// covering the overflowing columns. A non-positive maxLen falls back to
// DefaultMaxLineLength.
func ValidateLineLength(text string, maxLen int) []Diagnostic {
	if maxLen <= 0 {
		maxLen = DefaultMaxLineLength
	}

	diagnostics := []Diagnostic{}
	for i, line := range SplitLines(text) {
		length := utf8.RuneCountInString(line)
		if length <= maxLen {
			continue
		}

		diagnostics = append(diagnostics, Diagnostic{
			Severity: SeverityError,
			Range: Range{
				Start: Position{Line: i, Character: maxLen},
				End:   Position{Line: i, Character: length},
			},
			Message: lineLengthMessage(maxLen),
			Source:  DiagnosticSource,
		})
	}

	return diagnostics
}

package analysis_test

import (
	"strings"
	"testing"

	"github.com/nedpals/hlasmls/analysis"
)

func TestValidateLineLength(t *testing.T) {
	t.Run("Short line", func(t *testing.T) {
		diags := analysis.ValidateLineLength("LABEL1  EQU  5", 80)
		if len(diags) != 0 {
			t.Errorf("expected no diagnostics, got %v", diags)
		}
	})

	t.Run("Exactly max length", func(t *testing.T) {
		diags := analysis.ValidateLineLength(strings.Repeat("X", 80), 80)
		if len(diags) != 0 {
			t.Errorf("expected no diagnostics, got %v", diags)
		}
	})

	t.Run("Long line", func(t *testing.T) {
		diags := analysis.ValidateLineLength(strings.Repeat("X", 85), 80)
		if len(diags) != 1 {
			t.Fatalf("expected 1 diagnostic, got %d", len(diags))
		}

		d := diags[0]
		exp := analysis.Range{
			Start: analysis.Position{Line: 0, Character: 80},
			End:   analysis.Position{Line: 0, Character: 85},
		}

		if d.Range != exp {
			t.Errorf("expected range %v, got %v", exp, d.Range)
		}

		if d.Severity != analysis.SeverityError {
			t.Errorf("expected error severity, got %d", d.Severity)
		}

		if d.Source != analysis.DiagnosticSource {
			t.Errorf("expected source %s, got %s", analysis.DiagnosticSource, d.Source)
		}

		if !strings.Contains(d.Message, "80") {
			t.Errorf("expected message to mention the limit, got %q", d.Message)
		}
	})

	t.Run("Multiple lines in order", func(t *testing.T) {
		text := strings.Join([]string{
			strings.Repeat("A", 81),
			"SHORT",
			strings.Repeat("B", 90),
			strings.Repeat("C", 72) + "\r",
		}, "\n")

		diags := analysis.ValidateLineLength(text, 72)
		if len(diags) != 2 {
			t.Fatalf("expected 2 diagnostics, got %d", len(diags))
		}

		if diags[0].Range.Start.Line != 0 || diags[0].Range.End.Character != 81 {
			t.Errorf("unexpected first diagnostic %v", diags[0].Range)
		}

		if diags[1].Range.Start.Line != 2 || diags[1].Range.Start.Character != 72 || diags[1].Range.End.Character != 90 {
			t.Errorf("unexpected second diagnostic %v", diags[1].Range)
		}
	})

	t.Run("Default limit", func(t *testing.T) {
		diags := analysis.ValidateLineLength(strings.Repeat("X", 81), 0)
		if len(diags) != 1 {
			t.Fatalf("expected 1 diagnostic, got %d", len(diags))
		}

		if diags[0].Range.Start.Character != analysis.DefaultMaxLineLength {
			t.Errorf("expected start %d, got %d", analysis.DefaultMaxLineLength, diags[0].Range.Start.Character)
		}
	})
}

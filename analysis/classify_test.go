package analysis_test

import (
	"testing"

	"github.com/nedpals/hlasmls/analysis"
)

func TestClassifyLine(t *testing.T) {
	cases := []struct {
		Line         string
		Kind         analysis.LineKind
		IsDefinition bool
	}{
		{Line: "", Kind: analysis.BlankLine},
		{Line: "LABEL1  EQU  5", Kind: analysis.DefinitionLine, IsDefinition: true},
		{Line: " LABEL DSECT", Kind: analysis.ContinuationLine},
		{Line: "* a comment", Kind: analysis.CommentLine},
		{Line: "*", Kind: analysis.CommentLine},
		{Line: "X", Kind: analysis.DefinitionLine, IsDefinition: true},
		{Line: "\tTAB", Kind: analysis.DefinitionLine, IsDefinition: true},
		{Line: "@WORK DS F", Kind: analysis.DefinitionLine, IsDefinition: true},
	}

	for _, c := range cases {
		t.Run(c.Line, func(t *testing.T) {
			kind := analysis.ClassifyLine(c.Line)
			if kind != c.Kind {
				t.Errorf("expected kind %d, got %d", c.Kind, kind)
			}

			if kind.IsDefinition() != c.IsDefinition {
				t.Errorf("expected IsDefinition %v, got %v", c.IsDefinition, kind.IsDefinition())
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	lines := analysis.SplitLines("A\r\nB\n\nC")
	exp := []string{"A", "B", "", "C"}

	if len(lines) != len(exp) {
		t.Fatalf("expected %d lines, got %d", len(exp), len(lines))
	}

	for i := range exp {
		if lines[i] != exp[i] {
			t.Errorf("line %d: expected %q, got %q", i, exp[i], lines[i])
		}
	}
}

package journal_test

import (
	"path/filepath"
	"testing"

	"github.com/nedpals/hlasmls/analysis"
	"github.com/nedpals/hlasmls/journal"
	"go.lsp.dev/uri"
)

func lineTooLong(line, length int) analysis.Diagnostic {
	return analysis.Diagnostic{
		Severity: analysis.SeverityWarning,
		Range: analysis.Range{
			Start: analysis.Position{Line: line, Character: 80},
			End:   analysis.Position{Line: line, Character: length},
		},
		Message: "Line exceeds the maximum length of 80 characters",
		Source:  analysis.DiagnosticSource,
	}
}

func TestJournal_Record(t *testing.T) {
	j, err := journal.NewMemoryJournal()
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()

	if len(j.SessionId()) == 0 {
		t.Fatal("Expected a session id to be generated")
	}

	docUri := uri.URI("file:///a.asm")
	err = j.Record(docUri, 3, []analysis.Diagnostic{lineTooLong(0, 81), lineTooLong(4, 90)})
	if err != nil {
		t.Fatal(err)
	}

	entries, err := j.Entries(journal.Filter{})
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	got := entries[1]
	if got.URI != string(docUri) {
		t.Errorf("Expected %s, got %s", docUri, got.URI)
	}

	if got.Version != 3 {
		t.Errorf("Expected version 3, got %d", got.Version)
	}

	if got.Line != 4 || got.StartColumn != 80 || got.EndColumn != 90 {
		t.Errorf("Expected 4:80-90, got %d:%d-%d", got.Line, got.StartColumn, got.EndColumn)
	}

	if got.SessionId != j.SessionId() {
		t.Errorf("Expected %s, got %s", j.SessionId(), got.SessionId)
	}

	if !got.CreatedAt.Valid {
		t.Errorf("Expected created_at to be set")
	}
}

func TestJournal_RecordEmpty(t *testing.T) {
	j, err := journal.NewMemoryJournal()
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()

	if err := j.Record("file:///a.asm", 1, nil); err != nil {
		t.Fatal(err)
	}

	entries, err := j.Entries(journal.Filter{})
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 0 {
		t.Errorf("Expected 0 entries, got %d", len(entries))
	}
}

func TestJournal_EntriesFilter(t *testing.T) {
	j, err := journal.NewMemoryJournal()
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()

	for i, name := range []string{"file:///a.asm", "file:///b.asm", "file:///a.asm"} {
		if err := j.Record(uri.URI(name), int32(i), []analysis.Diagnostic{lineTooLong(i, 100)}); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("URI", func(t *testing.T) {
		entries, err := j.Entries(journal.Filter{URI: "file:///a.asm"})
		if err != nil {
			t.Fatal(err)
		}

		if len(entries) != 2 {
			t.Fatalf("Expected 2 entries, got %d", len(entries))
		}

		if entries[0].Line != 0 || entries[1].Line != 2 {
			t.Errorf("Expected lines 0 and 2, got %d and %d", entries[0].Line, entries[1].Line)
		}
	})

	t.Run("SessionId", func(t *testing.T) {
		entries, err := j.Entries(journal.Filter{SessionId: "unknown-session"})
		if err != nil {
			t.Fatal(err)
		}

		if len(entries) != 0 {
			t.Errorf("Expected 0 entries, got %d", len(entries))
		}
	})
}

func TestJournal_Summarize(t *testing.T) {
	path := filepath.Join(t.TempDir(), journal.FileName)

	// two sessions sharing the same file
	for session := 0; session < 2; session++ {
		j, err := journal.NewJournalFromPath(path)
		if err != nil {
			t.Fatal(err)
		}

		err = j.Record("file:///a.asm", 1, []analysis.Diagnostic{lineTooLong(0, 81), lineTooLong(1, 82)})
		if err == nil && session == 0 {
			err = j.Record("file:///b.asm", 1, []analysis.Diagnostic{lineTooLong(7, 120)})
		}
		if err != nil {
			t.Fatal(err)
		}

		if err := j.Close(); err != nil {
			t.Fatal(err)
		}
	}

	j, err := journal.NewJournalFromPath(path)
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()

	summaries, err := j.Summarize()
	if err != nil {
		t.Fatal(err)
	}

	exp := []journal.Summary{
		{URI: "file:///a.asm", Diagnostics: 4, Lines: 2, Sessions: 2},
		{URI: "file:///b.asm", Diagnostics: 1, Lines: 1, Sessions: 1},
	}

	if len(summaries) != len(exp) {
		t.Fatalf("Expected %d summaries, got %d", len(exp), len(summaries))
	}

	for i := range exp {
		if summaries[i] != exp[i] {
			t.Errorf("Expected %v, got %v", exp[i], summaries[i])
		}
	}
}

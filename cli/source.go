package main

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/nedpals/hlasmls/analysis"
	symbolStore "github.com/nedpals/hlasmls/analysis/store"
	"github.com/nedpals/hlasmls/helpers"
	"go.lsp.dev/uri"
)

// nearestMaxDistance bounds the edit distance of "did you mean" suggestions.
const nearestMaxDistance = 3

func loadSource(sfs *helpers.SharedFS, path string) (uri.URI, string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", "", err
	}

	content, err := sfs.ReadFile(absPath)
	if err != nil {
		return "", "", fmt.Errorf("unable to read %s: %w", path, err)
	}

	return uri.File(absPath), string(content), nil
}

func indexFile(sfs *helpers.SharedFS, symbols *symbolStore.SymbolStore, path string) ([]analysis.Symbol, error) {
	docUri, text, err := loadSource(sfs, path)
	if err != nil {
		return nil, err
	}

	return analysis.ExtractSymbols(text, docUri, symbols), nil
}

func filterSymbols(listing []analysis.Symbol, names []string) []analysis.Symbol {
	filtered := []analysis.Symbol{}
	for _, sym := range listing {
		if slices.Contains(names, sym.Name) {
			filtered = append(filtered, sym)
		}
	}
	return filtered
}

// writeSymbols prints one symbol per line as path:line:column with 1-based
// positions.
func writeSymbols(w io.Writer, path string, listing []analysis.Symbol) {
	for _, sym := range listing {
		start := sym.Location.Range.Start
		fmt.Fprintf(w, "%s:%d:%d: %s %s\n", path, start.Line+1, start.Character+1, sym.Kind, sym.Name)
	}
}

// resolveDefinition indexes path and prints the definitions of the name at
// the 1-based line and column. On a miss it suggests the closest known name.
func resolveDefinition(w io.Writer, sfs *helpers.SharedFS, path string, line, column int) (bool, error) {
	docUri, text, err := loadSource(sfs, path)
	if err != nil {
		return false, err
	}

	symbols := symbolStore.NewSymbolStore()
	analysis.ExtractSymbols(text, docUri, symbols)

	pos := analysis.Position{Line: line - 1, Character: column - 1}
	locations, ok := analysis.ResolveDefinition(text, pos, symbols)
	if ok {
		for _, loc := range locations {
			fmt.Fprintf(w, "%s:%d:%d\n", loc.URI.Filename(), loc.Range.Start.Line+1, loc.Range.Start.Character+1)
		}
		return true, nil
	}

	lines := analysis.SplitLines(text)
	if pos.Line < 0 || pos.Line >= len(lines) {
		fmt.Fprintf(w, "no definition found\n")
		return false, nil
	}

	name, hasName := analysis.IdentifierAt(lines[pos.Line], pos.Character)
	if !hasName {
		fmt.Fprintf(w, "no definition found\n")
		return false, nil
	}

	if nearest, ok := symbols.Nearest(name, nearestMaxDistance); ok {
		fmt.Fprintf(w, "no definition found for %s, did you mean %s?\n", name, nearest)
	} else {
		fmt.Fprintf(w, "no definition found for %s\n", name)
	}
	return false, nil
}

// checkFiles validates every file matched by patterns and returns the number
// of problems found.
func checkFiles(w io.Writer, sfs *helpers.SharedFS, patterns []string, maxLen int) (int, error) {
	problems := 0

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return problems, err
		} else if len(matches) == 0 {
			return problems, fmt.Errorf("%s: no such file", pattern)
		}

		for _, match := range matches {
			n, err := checkFile(w, sfs, match, maxLen)
			problems += n
			if err != nil {
				return problems, err
			}
		}
	}

	return problems, nil
}

func checkFile(w io.Writer, sfs *helpers.SharedFS, path string, maxLen int) (int, error) {
	_, text, err := loadSource(sfs, path)
	if err != nil {
		return 0, err
	}

	diagnostics := analysis.ValidateLineLength(text, maxLen)
	for _, d := range diagnostics {
		fmt.Fprintf(w, "%s:%d:%d: %s\n", path, d.Range.Start.Line+1, d.Range.Start.Character+1, d.Message)
	}
	return len(diagnostics), nil
}

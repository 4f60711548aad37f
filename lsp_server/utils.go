package lsp_server

import (
	"github.com/nedpals/hlasmls/analysis"
	lsp "go.lsp.dev/protocol"
)

func toLspPosition(pos analysis.Position) lsp.Position {
	return lsp.Position{
		Line:      uint32(pos.Line),
		Character: uint32(pos.Character),
	}
}

func fromLspPosition(pos lsp.Position) analysis.Position {
	return analysis.Position{
		Line:      int(pos.Line),
		Character: int(pos.Character),
	}
}

func toLspRange(rng analysis.Range) lsp.Range {
	return lsp.Range{
		Start: toLspPosition(rng.Start),
		End:   toLspPosition(rng.End),
	}
}

func toLspLocation(loc analysis.Location) lsp.Location {
	return lsp.Location{
		URI:   loc.URI,
		Range: toLspRange(loc.Range),
	}
}

func toLspLocations(locs []analysis.Location) []lsp.Location {
	result := make([]lsp.Location, 0, len(locs))
	for _, loc := range locs {
		result = append(result, toLspLocation(loc))
	}
	return result
}

func toLspSymbolKind(kind analysis.SymbolKind) lsp.SymbolKind {
	if kind == analysis.SymbolObject {
		return lsp.SymbolKindObject
	}
	return lsp.SymbolKindConstant
}

func toLspSymbols(symbols []analysis.Symbol) []lsp.SymbolInformation {
	result := make([]lsp.SymbolInformation, 0, len(symbols))
	for _, sym := range symbols {
		result = append(result, lsp.SymbolInformation{
			Name:     sym.Name,
			Kind:     toLspSymbolKind(sym.Kind),
			Location: toLspLocation(sym.Location),
		})
	}
	return result
}

func toLspDiagnostics(diagnostics []analysis.Diagnostic) []lsp.Diagnostic {
	result := make([]lsp.Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		result = append(result, lsp.Diagnostic{
			Severity: lsp.DiagnosticSeverity(d.Severity),
			Range:    toLspRange(d.Range),
			Message:  d.Message,
			Source:   d.Source,
		})
	}
	return result
}

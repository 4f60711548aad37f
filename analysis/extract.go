package analysis

import (
	"strings"
	"unicode/utf8"

	"go.lsp.dev/uri"
)

const dsectMnemonic = "DSECT"

// ExtractSymbols rescans the whole document and rebuilds cache from
// scratch. The returned listing keeps every definition line in source
// order, while the cache only remembers the last definition of a name.
func ExtractSymbols(text string, docUri uri.URI, cache SymbolCache) []Symbol {
	cache.Reset()

	symbols := []Symbol{}
	for i, line := range SplitLines(text) {
		if !ClassifyLine(line).IsDefinition() {
			continue
		}

		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}

		kind := SymbolConstant
		if len(tokens) > 1 && tokens[1] == dsectMnemonic {
			kind = SymbolObject
		}

		sym := Symbol{
			Name: tokens[0],
			Kind: kind,
			Location: Location{
				URI: docUri,
				Range: Range{
					Start: Position{Line: i, Character: 0},
					End:   Position{Line: i, Character: utf8.RuneCountInString(tokens[0])},
				},
			},
		}

		symbols = append(symbols, sym)
		cache.Put(sym.Name, sym.Location)
	}

	return symbols
}

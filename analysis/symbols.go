package analysis

import "go.lsp.dev/uri"

type SymbolKind int

const (
	SymbolConstant SymbolKind = 0
	SymbolObject   SymbolKind = iota
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolObject:
		return "object"
	default:
		return "constant"
	}
}

// Position is a zero-based line/character pair. Characters are counted
// in runes.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type Location struct {
	URI   uri.URI `json:"uri"`
	Range Range   `json:"range"`
}

type Symbol struct {
	Name     string     `json:"name"`
	Kind     SymbolKind `json:"kind"`
	Location Location   `json:"location"`
}

// SymbolCache maps a symbol name to the locations where it was last
// defined. Implementations are expected to keep at most one location per
// name.
type SymbolCache interface {
	Reset()
	Put(name string, loc Location)
	Lookup(name string) ([]Location, bool)
}

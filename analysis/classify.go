package analysis

type LineKind int

const (
	BlankLine        LineKind = 0
	DefinitionLine   LineKind = iota
	ContinuationLine LineKind = iota
	CommentLine      LineKind = iota
)

// ClassifyLine looks at column 1 only. Anything other than a space or an
// asterisk there starts a label.
func ClassifyLine(line string) LineKind {
	first, ok := charAt([]rune(line), 0)
	if !ok {
		return BlankLine
	}

	switch first {
	case ' ':
		return ContinuationLine
	case '*':
		return CommentLine
	default:
		return DefinitionLine
	}
}

func (k LineKind) IsDefinition() bool {
	return k == DefinitionLine
}

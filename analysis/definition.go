package analysis

// IsIdentifierChar reports whether ch may appear in an assembler symbol.
func IsIdentifierChar(ch rune) bool {
	switch {
	case ch >= 'a' && ch <= 'z':
		return true
	case ch >= 'A' && ch <= 'Z':
		return true
	case ch >= '0' && ch <= '9':
		return true
	case ch == '@' || ch == '#' || ch == '$':
		return true
	}
	return false
}

// IdentifierAt returns the run of identifier characters that contains the
// given character offset of line.
func IdentifierAt(line string, character int) (string, bool) {
	runes := []rune(line)
	if ch, ok := charAt(runes, character); !ok || !IsIdentifierChar(ch) {
		return "", false
	}

	start := character
	for {
		ch, ok := charAt(runes, start-1)
		if !ok || !IsIdentifierChar(ch) {
			break
		}
		start--
	}

	end := character
	for {
		ch, ok := charAt(runes, end+1)
		if !ok || !IsIdentifierChar(ch) {
			break
		}
		end++
	}

	return string(runes[start : end+1]), true
}

// ResolveDefinition only scans the line under pos. The answer comes from
// whatever the last symbol listing left in cache, so it may be stale.
func ResolveDefinition(text string, pos Position, cache SymbolCache) ([]Location, bool) {
	lines := SplitLines(text)
	if pos.Line < 0 || pos.Line >= len(lines) {
		return nil, false
	}

	name, ok := IdentifierAt(lines[pos.Line], pos.Character)
	if !ok {
		return nil, false
	}

	return cache.Lookup(name)
}

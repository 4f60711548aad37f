package store

import (
	"slices"
	"sort"
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/nedpals/hlasmls/analysis"
	"golang.org/x/exp/maps"
)

// SymbolStore is the name -> definition table shared by the symbol
// listing and go to definition. One store belongs to one server.
type SymbolStore struct {
	mu      sync.RWMutex
	symbols map[string][]analysis.Location
}

func NewSymbolStore() *SymbolStore {
	return &SymbolStore{
		symbols: map[string][]analysis.Location{},
	}
}

func (st *SymbolStore) Reset() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.symbols = map[string][]analysis.Location{}
}

// Put replaces whatever was stored for name.
func (st *SymbolStore) Put(name string, loc analysis.Location) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.symbols[name] = []analysis.Location{loc}
}

func (st *SymbolStore) Lookup(name string) ([]analysis.Location, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	locs, ok := st.symbols[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(locs), true
}

func (st *SymbolStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.symbols)
}

// Names returns the stored names in lexical order.
func (st *SymbolStore) Names() []string {
	st.mu.RLock()
	names := maps.Keys(st.symbols)
	st.mu.RUnlock()

	slices.Sort(names)
	return names
}

// Search ranks the stored names against query, closest match first.
func (st *SymbolStore) Search(query string) []string {
	ranks := fuzzy.RankFindNormalizedFold(query, st.Names())
	sort.Sort(ranks)

	found := make([]string, 0, len(ranks))
	for _, rank := range ranks {
		found = append(found, rank.Target)
	}
	return found
}

// Nearest returns the stored name with the smallest edit distance to name
// as long as it is within maxDistance.
func (st *SymbolStore) Nearest(name string, maxDistance int) (string, bool) {
	minDist := -1
	nearest := ""

	for _, candidate := range st.Names() {
		dist := levenshtein.ComputeDistance(name, candidate)
		if minDist == -1 || dist < minDist {
			minDist = dist
			nearest = candidate
		}
	}

	if minDist < 0 || minDist > maxDistance {
		return "", false
	}
	return nearest, true
}

package index

import (
	"strings"

	"github.com/standardbeagle/lcc/internal/types"
)

// Query selects symbols by container scope and typed prefix.
//
// Scope is the qualified container path with trailing separator ("ns::");
// the empty string selects the global scope. Prefix is matched
// case-insensitively against the start of the symbol name; the fine-grained
// fuzzy scoring happens downstream in the candidate collector.
type Query struct {
	Scope  string
	Prefix string
}

// Index is any queryable symbol collection: a frozen Store, a per-file
// dynamic set, or a merged view. Query returns an empty slice when nothing
// matches; it never fails.
type Index interface {
	Query(q Query) []types.Symbol
}

// Store is an immutable symbol collection produced by Builder.Build.
// It uses the parallel-array layout (data slice + ID→position map) rather
// than a single map so iteration during queries stays cache-friendly.
// A frozen Store is safe for unbounded concurrent readers.
type Store struct {
	data []types.Symbol
	byID map[types.SymbolID]int
}

// EmptyStore is a frozen store with no symbols.
func EmptyStore() *Store {
	return &Store{byID: map[types.SymbolID]int{}}
}

// Len reports the number of symbols in the store.
func (s *Store) Len() int {
	return len(s.data)
}

// Get returns the symbol with the given ID, if present.
func (s *Store) Get(id types.SymbolID) (types.Symbol, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return types.Symbol{}, false
	}
	return s.data[idx], true
}

// All returns every symbol in insertion order. The returned slice is a copy.
func (s *Store) All() []types.Symbol {
	out := make([]types.Symbol, len(s.data))
	copy(out, s.data)
	return out
}

// Query returns the symbols in q.Scope whose name starts with q.Prefix,
// compared case-insensitively. Insertion order is preserved.
func (s *Store) Query(q Query) []types.Symbol {
	if s == nil {
		return nil
	}
	prefix := strings.ToLower(q.Prefix)
	var out []types.Symbol
	for _, sym := range s.data {
		if sym.Scope != q.Scope {
			continue
		}
		if prefix != "" && !strings.HasPrefix(strings.ToLower(sym.Name), prefix) {
			continue
		}
		out = append(out, sym)
	}
	return out
}

package index

import (
	"github.com/standardbeagle/lcc/internal/types"
)

// Merged is a virtual union of a fast-changing dynamic index and a
// slow-changing static one. Nothing is materialized: a query fans out to
// both members and unions the results by symbol ID, with the dynamic entry
// winning a collision (it reflects open-file edits the static snapshot has
// not seen yet). Either member may be nil and contributes nothing.
type Merged struct {
	Dynamic Index
	Static  Index
}

// Merge builds a merged view. Returns nil when both members are nil so
// callers can treat "no index configured" uniformly.
func Merge(dynamic, static Index) Index {
	if dynamic == nil && static == nil {
		return nil
	}
	return Merged{Dynamic: dynamic, Static: static}
}

// Query implements Index.
func (m Merged) Query(q Query) []types.Symbol {
	var out []types.Symbol
	seen := make(map[types.SymbolID]struct{})
	if m.Dynamic != nil {
		for _, sym := range m.Dynamic.Query(q) {
			if _, dup := seen[sym.ID]; dup {
				continue
			}
			seen[sym.ID] = struct{}{}
			out = append(out, sym)
		}
	}
	if m.Static != nil {
		for _, sym := range m.Static.Query(q) {
			if _, dup := seen[sym.ID]; dup {
				// Dynamic entry shadows the static one.
				continue
			}
			seen[sym.ID] = struct{}{}
			out = append(out, sym)
		}
	}
	return out
}

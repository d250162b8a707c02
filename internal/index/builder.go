package index

import (
	"github.com/standardbeagle/lcc/internal/types"
)

// Builder is the insert-only accumulator for a Store. Insert overwrites by
// ID; Build consumes the accumulator exactly once and freezes the result.
// Using a Builder after Build panics: the accumulator has been moved out,
// so a frozen Store can never be mutated through its former builder.
type Builder struct {
	byID  map[types.SymbolID]int
	data  []types.Symbol
	built bool
}

// NewBuilder creates an empty accumulator with pre-allocated capacity.
func NewBuilder(expectedSize int) *Builder {
	return &Builder{
		byID: make(map[types.SymbolID]int, expectedSize*2),
		data: make([]types.Symbol, 0, expectedSize),
	}
}

// Insert adds a symbol, replacing any previous record with the same ID.
// The replacement keeps the original insertion position so query order
// stays stable across overwrites.
func (b *Builder) Insert(sym types.Symbol) {
	if b.built {
		panic("index: Insert on a consumed Builder")
	}
	if sym.InsertText == "" {
		sym.InsertText = sym.Name
	}
	if sym.Label == "" {
		sym.Label = sym.Name
	}
	if idx, ok := b.byID[sym.ID]; ok {
		b.data[idx] = sym
		return
	}
	b.byID[sym.ID] = len(b.data)
	b.data = append(b.data, sym)
}

// Len reports how many distinct symbols have been accumulated.
func (b *Builder) Len() int {
	return len(b.data)
}

// Build consumes the accumulator and returns the frozen Store. The Builder
// is unusable afterwards.
func (b *Builder) Build() *Store {
	if b.built {
		panic("index: Build on a consumed Builder")
	}
	b.built = true
	store := &Store{
		data: b.data,
		byID: b.byID,
	}
	// Move the storage out of the builder so a retained reference cannot
	// alias the frozen arrays.
	b.data = nil
	b.byID = nil
	return store
}

package collect

import (
	"github.com/standardbeagle/lcc/internal/sema"
	"github.com/standardbeagle/lcc/internal/types"
)

// Kind weights order candidates with equal fuzzy scores: locals and members
// first, then unrelated globals and index hits, then keywords and macros.
const (
	weightLocal   = 0
	weightGlobal  = 1
	weightKeyword = 2
	weightMacro   = 2
	weightPattern = 2
)

// indexScopeDepth places index hits behind any enclosing-scope candidate on
// the proximity key; indexOrderBase does the same for the lexical tie-break.
const (
	indexScopeDepth = 1 << 16
	indexOrderBase  = 1 << 20
)

// Candidate is one scored, request-scoped completion candidate. Exactly one
// of Decl (AST-local) and Symbol (index hit) is set.
type Candidate struct {
	Decl   *sema.Decl
	Symbol *types.Symbol

	// Score is the primary fuzzy rank; Similarity breaks ties between
	// equal scores.
	Score      float64
	Similarity float64

	KindWeight int
	ScopeDepth int
	Order      int
}

// Name is the bare candidate identifier.
func (c Candidate) Name() string {
	if c.Symbol != nil {
		return c.Symbol.Name
	}
	return c.Decl.Name
}

// Kind is the candidate's symbol category.
func (c Candidate) Kind() types.SymbolKind {
	if c.Symbol != nil {
		return c.Symbol.Kind
	}
	return c.Decl.Kind
}

// IndexOrigin reports whether the candidate came from the merged index
// rather than the live AST.
func (c Candidate) IndexOrigin() bool {
	return c.Symbol != nil
}

func declWeight(d *sema.Decl) int {
	switch d.Kind {
	case types.KindKeyword:
		return weightKeyword
	case types.KindMacro:
		return weightMacro
	case types.KindPattern:
		return weightPattern
	}
	if d.Global {
		return weightGlobal
	}
	return weightLocal
}

func symbolWeight(s types.Symbol) int {
	switch s.Kind {
	case types.KindKeyword:
		return weightKeyword
	case types.KindMacro:
		return weightMacro
	case types.KindPattern:
		return weightPattern
	}
	return weightGlobal
}

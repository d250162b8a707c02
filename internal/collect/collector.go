package collect

import (
	"sort"

	"github.com/standardbeagle/lcc/internal/config"
	"github.com/standardbeagle/lcc/internal/fuzzy"
	"github.com/standardbeagle/lcc/internal/index"
	"github.com/standardbeagle/lcc/internal/sema"
	"github.com/standardbeagle/lcc/internal/types"
)

// Collector gathers the two candidate streams for one cursor context —
// locally-visible declarations from the semantic analyzer and a
// scope-qualified query against the merged index — deduplicates them by
// qualified identity and ranks the survivors. It is a pure function over
// its inputs; a Collector value is cheap and request-scoped.
type Collector struct {
	Index index.Index
	Opts  config.Options
}

// Collect filters, scores and ranks the candidates for cur.
//
// Dedup rule: when an AST-local declaration and an index hit share a
// qualified identity the local declaration wins — it carries precise,
// current semantic metadata — and the index hit is suppressed.
func (c Collector) Collect(cur sema.CursorContext, decls []sema.Decl) []Candidate {
	member := cur.Trigger == sema.TriggerMember

	out := make([]Candidate, 0, len(decls))
	seen := make(map[string]struct{}, len(decls))

	for i := range decls {
		d := &decls[i]
		// Every AST identity suppresses a colliding index hit, whether or
		// not the declaration itself survives filtering.
		seen[d.QualifiedName()] = struct{}{}

		if !c.keepDecl(d, member) {
			continue
		}
		score, ok := fuzzy.Match(cur.Filter, d.Name)
		if !ok {
			continue
		}
		out = append(out, Candidate{
			Decl:       d,
			Score:      score,
			Similarity: fuzzy.Similarity(cur.Filter, d.Name),
			KindWeight: declWeight(d),
			ScopeDepth: d.ScopeDepth,
			Order:      d.Order,
		})
	}

	// Member completion never consults the index: members come from the
	// base expression's type, and free-standing symbols must not leak in.
	if !member && c.Index != nil && c.queryScopeAllowed(cur) {
		hits := c.Index.Query(index.Query{Scope: cur.ScopeQuery(), Prefix: cur.Filter})
		for i := range hits {
			sym := hits[i]
			if _, dup := seen[sym.QualifiedName()]; dup {
				continue
			}
			score, ok := fuzzy.Match(cur.Filter, sym.Name)
			if !ok {
				continue
			}
			out = append(out, Candidate{
				Symbol:     &hits[i],
				Score:      score,
				Similarity: fuzzy.Similarity(cur.Filter, sym.Name),
				KindWeight: symbolWeight(sym),
				ScopeDepth: indexScopeDepth,
				Order:      indexOrderBase + i,
			})
		}
	}

	rank(out)
	return out
}

func (c Collector) keepDecl(d *sema.Decl, member bool) bool {
	if member {
		// Only members of the base expression's type; globals, locals,
		// macros and code patterns never appear after a member-access
		// operator regardless of configuration.
		if !d.IsMember() {
			return false
		}
	} else {
		switch {
		case d.Kind == types.KindMacro:
			if !c.Opts.IncludeMacros {
				return false
			}
		case d.Kind == types.KindPattern:
			if !c.Opts.IncludeCodePatterns {
				return false
			}
		case d.Global:
			if !c.Opts.IncludeGlobals {
				return false
			}
		}
	}
	if !d.Accessible && !c.Opts.IncludeIneligibleResults {
		return false
	}
	return true
}

// queryScopeAllowed gates global-scope index queries on IncludeGlobals;
// qualified non-global scopes are always queried.
func (c Collector) queryScopeAllowed(cur sema.CursorContext) bool {
	if cur.ScopeQuery() != "" {
		return true
	}
	return c.Opts.IncludeGlobals
}

// rank orders candidates by, in priority order: fuzzy score, kind weight,
// scope proximity, Jaro-Winkler similarity, then stable lexical order.
func rank(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.KindWeight != b.KindWeight {
			return a.KindWeight < b.KindWeight
		}
		if a.ScopeDepth != b.ScopeDepth {
			return a.ScopeDepth < b.ScopeDepth
		}
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		return a.Order < b.Order
	})
}

// Package sema defines the boundary contract with the semantic analyzer.
//
// The analyzer itself is an external collaborator: it owns parsing, scope
// resolution and accessibility computation. This package only describes the
// candidate data it hands over per cursor position, plus the Analyzer
// interface the engine consumes. Accessibility arrives as a precomputed tag
// and is applied downstream purely as a filter predicate.
package sema

import (
	"context"
	"strings"

	"github.com/standardbeagle/lcc/internal/types"
)

// Access is the object-oriented visibility level of a member declaration.
type Access int

const (
	Public Access = iota
	Protected
	Private
)

func (a Access) String() string {
	switch a {
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "public"
	}
}

// Param is one declared parameter of a callable.
type Param struct {
	Type    string
	Name    string
	Default string // default-value text, verbatim, "" when absent
}

// Decl renders the parameter as it appears in a declaration: "const float f".
func (p Param) Decl() string {
	if p.Name == "" {
		return p.Type
	}
	return p.Type + " " + p.Name
}

// Label renders the parameter for signature help, including the default
// value verbatim: "int y = 0".
func (p Param) Label() string {
	decl := p.Decl()
	if p.Default != "" {
		return decl + " = " + p.Default
	}
	return decl
}

// Decl is one locally-visible declaration candidate enumerated by the
// analyzer for a cursor position.
type Decl struct {
	Name  string
	Scope string // qualified container path with trailing "::", "" for locals and globals
	Kind  types.SymbolKind

	// Member metadata. Container is the defining type; Inherited marks a
	// member reached through a base type, which gets a Container:: label
	// qualifier. Accessible is computed by the analyzer for the concrete
	// cursor context and consumed here as-is.
	Container  string
	Inherited  bool
	Access     Access
	Accessible bool
	Const      bool

	// Global marks a free-standing symbol visible from the global scope.
	// These never appear in member-access completion.
	Global bool

	ReturnType string
	Params     []Param
	Doc        string
	Detail     string

	// Snippet is the placeholder template for code-pattern candidates.
	Snippet string

	// ScopeDepth is the distance from the cursor's innermost scope
	// (0 = same scope). Order is the lexical declaration order tie-break.
	ScopeDepth int
	Order      int
}

// QualifiedName is the identity used to deduplicate against index hits.
func (d Decl) QualifiedName() string {
	return d.Scope + d.Name
}

// IsMember reports whether the declaration belongs to a type.
func (d Decl) IsMember() bool {
	return d.Container != ""
}

// TriggerKind says which lexical construct initiated completion.
type TriggerKind int

const (
	// TriggerNone is plain identifier completion in the current scope.
	TriggerNone TriggerKind = iota
	// TriggerMember follows a member-access operator ("." or "->").
	TriggerMember
	// TriggerQualified follows a scope qualifier ("ns::", "::").
	TriggerQualified
)

// CursorContext is the lexical completion context at one cursor position.
type CursorContext struct {
	Trigger TriggerKind

	// Qualifier is the scope path left of the cursor for qualified
	// completion, normalized with a trailing "::" ("ns::"); empty for the
	// global scope. GlobalQualified marks a leading "::".
	Qualifier       string
	GlobalQualified bool

	// Filter is the identifier text typed since the last boundary.
	Filter string

	Offset int
}

// ScopeQuery returns the index query scope for this context.
func (c CursorContext) ScopeQuery() string {
	return strings.TrimPrefix(c.Qualifier, "::")
}

// Document is the point-in-time text snapshot a request operates on.
type Document struct {
	Path    string
	Version int
	Text    string
}

// CallSite describes the call expression enclosing the cursor.
type CallSite struct {
	// Callee is the spelled function name.
	Callee string
	// Overloads is the full overload set for the callee.
	Overloads []Decl
	// ArgsPrefix is the argument-list text between the opening parenthesis
	// and the cursor; the active parameter is derived from it.
	ArgsPrefix string
}

// Analyzer enumerates raw candidates for a cursor position. Implementations
// live outside this module; tests use a scripted fake. All methods treat
// "nothing known" as an empty result, not an error.
type Analyzer interface {
	// Declarations returns the locally-visible declaration candidates for
	// the cursor context: in-scope locals, members of the base expression's
	// type, keywords and code patterns.
	Declarations(ctx context.Context, doc Document, cur CursorContext) ([]Decl, error)

	// CallSite resolves the call expression enclosing offset, or nil when
	// the cursor is not inside an argument list.
	CallSite(ctx context.Context, doc Document, offset int) (*CallSite, error)

	// FileSymbols enumerates the document's indexable top-level symbols for
	// the dynamic index.
	FileSymbols(ctx context.Context, doc Document) ([]types.Symbol, error)
}

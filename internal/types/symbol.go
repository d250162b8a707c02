package types

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// SymbolID is a stable digest of a symbol's fully qualified name.
// Equal IDs identify the same logical entity regardless of which index
// produced the record, which is what makes cross-index merging by ID sound.
type SymbolID uint64

// MakeSymbolID computes the ID for a fully qualified name such as "ns::foo".
func MakeSymbolID(qualifiedName string) SymbolID {
	return SymbolID(xxhash.Sum64String(qualifiedName))
}

// SymbolKind categorizes an indexable program entity.
type SymbolKind int

const (
	KindUnknown SymbolKind = iota
	KindVariable
	KindFunction
	KindMethod
	KindField
	KindClass
	KindMacro
	KindKeyword
	KindPattern // code-pattern template, e.g. a namespace skeleton
)

var kindNames = map[SymbolKind]string{
	KindUnknown:  "unknown",
	KindVariable: "variable",
	KindFunction: "function",
	KindMethod:   "method",
	KindField:    "field",
	KindClass:    "class",
	KindMacro:    "macro",
	KindKeyword:  "keyword",
	KindPattern:  "pattern",
}

func (k SymbolKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind maps a kind name back to a SymbolKind. Unrecognized names map to
// KindUnknown so snapshot files with newer kinds degrade instead of failing.
func ParseKind(s string) SymbolKind {
	for k, name := range kindNames {
		if name == s {
			return k
		}
	}
	return KindUnknown
}

// Callable reports whether completion for this kind inserts a call.
func (k SymbolKind) Callable() bool {
	return k == KindFunction || k == KindMethod
}

// Origin tags which index contributed a symbol record.
type Origin int

const (
	OriginStatic Origin = iota
	OriginDynamic
)

func (o Origin) String() string {
	if o == OriginDynamic {
		return "dynamic"
	}
	return "static"
}

// Symbol is one immutable index record.
//
// Scope is the qualified container path including the trailing separator
// ("ns::", "ns::Inner::"); the empty string is the global scope. InsertText
// and Label default to Name when left empty by the producer.
type Symbol struct {
	ID            SymbolID
	Name          string
	Scope         string
	Kind          SymbolKind
	InsertText    string
	Label         string
	Documentation string
	Detail        string
	Origin        Origin
}

// QualifiedName returns the scope-qualified name used for identity.
func (s Symbol) QualifiedName() string {
	return s.Scope + s.Name
}

// NewIndexSymbol builds a Symbol from a fully qualified name such as
// "ns::foo" ("foo" alone is global scope). The ID is derived from the
// qualified name.
func NewIndexSymbol(qualifiedName string, kind SymbolKind) Symbol {
	name := qualifiedName
	scope := ""
	if i := strings.LastIndex(qualifiedName, "::"); i >= 0 {
		name = qualifiedName[i+2:]
		scope = qualifiedName[:i+2]
	}
	return Symbol{
		ID:         MakeSymbolID(qualifiedName),
		Name:       name,
		Scope:      scope,
		Kind:       kind,
		InsertText: name,
		Label:      name,
	}
}

// Package render turns ranked candidates into LSP completion results.
package render

import (
	"fmt"
	"strings"

	"go.lsp.dev/protocol"

	"github.com/standardbeagle/lcc/internal/collect"
	"github.com/standardbeagle/lcc/internal/config"
	"github.com/standardbeagle/lcc/internal/sema"
	"github.com/standardbeagle/lcc/internal/types"
)

// indexLabelPrefix marks items that came from the symbol index rather than
// the live file, so users can tell a project-wide suggestion from a local one.
const indexLabelPrefix = "[I]"

// List renders ranked candidates into a CompletionList, applying the result
// limit. IsIncomplete is set exactly when a positive limit truncated the list.
func List(cands []collect.Candidate, opts config.Options) protocol.CompletionList {
	items := make([]protocol.CompletionItem, 0, len(cands))
	for _, cand := range cands {
		items = append(items, Item(cand, opts))
	}
	incomplete := false
	if opts.Limit > 0 && len(items) > opts.Limit {
		items = items[:opts.Limit]
		incomplete = true
	}
	return protocol.CompletionList{
		IsIncomplete: incomplete,
		Items:        items,
	}
}

// Item renders a single candidate.
func Item(cand collect.Candidate, opts config.Options) protocol.CompletionItem {
	item := protocol.CompletionItem{
		Label:      label(cand),
		Kind:       itemKind(cand.Kind()),
		FilterText: cand.Name(),
		InsertText: insertText(cand, opts),
	}
	if opts.EnableSnippets {
		item.InsertTextFormat = protocol.InsertTextFormatSnippet
	} else {
		item.InsertTextFormat = protocol.InsertTextFormatPlainText
	}
	if doc := documentation(cand); doc != "" && opts.IncludeBriefComments {
		item.Documentation = doc
	}
	if d := detail(cand); d != "" {
		item.Detail = d
	}
	return item
}

// label renders the display string: an inherited member is qualified with its
// defining container, a callable shows its parameter declarations and
// constness, and an index hit carries the index-origin marker.
func label(cand collect.Candidate) string {
	if cand.Symbol != nil {
		return indexLabelPrefix + cand.Symbol.Label
	}

	d := cand.Decl
	var b strings.Builder
	if d.Inherited && d.Container != "" {
		b.WriteString(d.Container)
		b.WriteString("::")
	}
	b.WriteString(d.Name)
	if d.Kind.Callable() {
		b.WriteByte('(')
		for i, p := range d.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.Decl())
		}
		b.WriteByte(')')
		if d.Const {
			b.WriteString(" const")
		}
	}
	return b.String()
}

// insertText is the text actually placed in the buffer. Plain mode always
// inserts the bare name; snippet mode expands callables into placeholder
// argument lists and code patterns into their stored templates.
func insertText(cand collect.Candidate, opts config.Options) string {
	if cand.Symbol != nil {
		sym := cand.Symbol
		if opts.EnableSnippets && sym.Kind.Callable() {
			return sym.InsertText + "($0)"
		}
		return sym.InsertText
	}

	d := cand.Decl
	if !opts.EnableSnippets {
		return d.Name
	}
	if d.Kind == types.KindPattern && d.Snippet != "" {
		return d.Snippet
	}
	if d.Kind.Callable() {
		return d.Name + callSnippet(d.Params)
	}
	return d.Name
}

// callSnippet builds the tab-stop argument list: "(${1:int i}, ${2:const float f})".
func callSnippet(params []sema.Param) string {
	if len(params) == 0 {
		return "()"
	}
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "${%d:%s}", i+1, p.Decl())
	}
	b.WriteByte(')')
	return b.String()
}

func documentation(cand collect.Candidate) string {
	if cand.Symbol != nil {
		return cand.Symbol.Documentation
	}
	return cand.Decl.Doc
}

// detail prefers an explicit detail string, falling back to the return type
// for callables.
func detail(cand collect.Candidate) string {
	if cand.Symbol != nil {
		return cand.Symbol.Detail
	}
	d := cand.Decl
	if d.Detail != "" {
		return d.Detail
	}
	return d.ReturnType
}

func itemKind(k types.SymbolKind) protocol.CompletionItemKind {
	switch k {
	case types.KindVariable:
		return protocol.CompletionItemKindVariable
	case types.KindFunction:
		return protocol.CompletionItemKindFunction
	case types.KindMethod:
		return protocol.CompletionItemKindMethod
	case types.KindField:
		return protocol.CompletionItemKindField
	case types.KindClass:
		return protocol.CompletionItemKindClass
	case types.KindKeyword:
		return protocol.CompletionItemKindKeyword
	case types.KindPattern:
		return protocol.CompletionItemKindSnippet
	case types.KindMacro:
		return protocol.CompletionItemKindText
	default:
		return protocol.CompletionItemKindText
	}
}

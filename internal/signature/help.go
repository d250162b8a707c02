// Package signature renders call-site overload sets as LSP signature help.
package signature

import (
	"strings"

	"go.lsp.dev/protocol"

	"github.com/standardbeagle/lcc/internal/sema"
)

// Help renders the overload set of the call enclosing the cursor. A nil call
// (cursor not inside an argument list) yields an empty result rather than an
// error. The first overload is always marked active; the active parameter is
// derived from the argument text already typed.
func Help(call *sema.CallSite) protocol.SignatureHelp {
	if call == nil || len(call.Overloads) == 0 {
		return protocol.SignatureHelp{Signatures: []protocol.SignatureInformation{}}
	}

	sigs := make([]protocol.SignatureInformation, 0, len(call.Overloads))
	for _, ov := range call.Overloads {
		sigs = append(sigs, signatureOf(ov))
	}
	return protocol.SignatureHelp{
		Signatures:      sigs,
		ActiveSignature: 0,
		ActiveParameter: ActiveParameter(call.ArgsPrefix),
	}
}

// signatureOf renders one overload: "foo(int x, int y = 0) -> int". Default
// values appear verbatim in both the signature label and the parameter labels.
func signatureOf(ov sema.Decl) protocol.SignatureInformation {
	params := make([]protocol.ParameterInformation, 0, len(ov.Params))
	var b strings.Builder
	b.WriteString(ov.Name)
	b.WriteByte('(')
	for i, p := range ov.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		l := p.Label()
		b.WriteString(l)
		params = append(params, protocol.ParameterInformation{Label: l})
	}
	b.WriteString(") -> ")
	if ov.ReturnType != "" {
		b.WriteString(ov.ReturnType)
	} else {
		b.WriteString("void")
	}

	sig := protocol.SignatureInformation{
		Label:      b.String(),
		Parameters: params,
	}
	if ov.Doc != "" {
		sig.Documentation = ov.Doc
	}
	return sig
}

// ActiveParameter counts the top-level commas in the argument text before the
// cursor. Commas nested inside parentheses, brackets, braces, or string and
// character literals belong to inner expressions and are skipped.
func ActiveParameter(argsPrefix string) uint32 {
	depth := 0
	var commas uint32
	var quote byte
	escaped := false

	for i := 0; i < len(argsPrefix); i++ {
		c := argsPrefix[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				commas++
			}
		}
	}
	return commas
}

package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"

	"github.com/standardbeagle/lcc/internal/sema"
	"github.com/standardbeagle/lcc/internal/types"
)

func overload(name, ret string, params ...sema.Param) sema.Decl {
	return sema.Decl{
		Name:       name,
		Kind:       types.KindFunction,
		ReturnType: ret,
		Params:     params,
	}
}

func labels(help protocol.SignatureHelp) []string {
	out := make([]string, 0, len(help.Signatures))
	for _, sig := range help.Signatures {
		out = append(out, sig.Label)
	}
	return out
}

func TestHelpOverloadSet(t *testing.T) {
	call := &sema.CallSite{
		Callee: "foo",
		Overloads: []sema.Decl{
			overload("foo", "int"),
			overload("foo", "int", sema.Param{Type: "int", Name: "i"}),
			overload("foo", "int", sema.Param{Type: "int", Name: "i"}, sema.Param{Type: "int", Name: "j"}),
			overload("foo", "int", sema.Param{Type: "float", Name: "f"}, sema.Param{Type: "int", Name: "i"}),
		},
	}

	help := Help(call)
	assert.ElementsMatch(t, []string{
		"foo() -> int",
		"foo(int i) -> int",
		"foo(int i, int j) -> int",
		"foo(float f, int i) -> int",
	}, labels(help))
	assert.Equal(t, uint32(0), help.ActiveSignature)
	assert.Equal(t, uint32(0), help.ActiveParameter)
}

func TestHelpDefaultArguments(t *testing.T) {
	call := &sema.CallSite{
		Callee: "foo",
		Overloads: []sema.Decl{
			overload("foo", "void",
				sema.Param{Type: "int", Name: "x"},
				sema.Param{Type: "int", Name: "y", Default: "0"},
			),
		},
	}

	help := Help(call)
	require.Len(t, help.Signatures, 1)
	sig := help.Signatures[0]
	assert.Equal(t, "foo(int x, int y = 0) -> void", sig.Label)
	require.Len(t, sig.Parameters, 2)
	assert.Equal(t, "int x", sig.Parameters[0].Label)
	assert.Equal(t, "int y = 0", sig.Parameters[1].Label)
}

func TestHelpMissingReturnTypeDefaultsToVoid(t *testing.T) {
	help := Help(&sema.CallSite{
		Callee:    "bar",
		Overloads: []sema.Decl{overload("bar", "")},
	})
	require.Len(t, help.Signatures, 1)
	assert.Equal(t, "bar() -> void", help.Signatures[0].Label)
}

func TestHelpActiveParameterFromArgsPrefix(t *testing.T) {
	help := Help(&sema.CallSite{
		Callee:     "baz",
		Overloads:  []sema.Decl{overload("baz", "int", sema.Param{Type: "int", Name: "a"}, sema.Param{Type: "int", Name: "b"})},
		ArgsPrefix: "1, ",
	})
	assert.Equal(t, uint32(1), help.ActiveParameter)
}

func TestHelpNilCallSite(t *testing.T) {
	help := Help(nil)
	assert.NotNil(t, help.Signatures)
	assert.Empty(t, help.Signatures)
}

func TestActiveParameterCounting(t *testing.T) {
	cases := []struct {
		prefix string
		want   uint32
	}{
		{"", 0},
		{"1", 0},
		{"1, ", 1},
		{"1, 2, ", 2},
		// Nested calls: the inner list's commas do not advance the outer
		// active parameter.
		{"f(a, b), ", 1},
		{"f(a, b), g(c, ", 1},
		{"arr[i, j], ", 1},
		{"{1, 2}, ", 1},
		// Literal commas inside strings and chars are not separators.
		{`"a,b", `, 1},
		{`'\'', `, 1},
		{`"he said \",\"", `, 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ActiveParameter(tc.prefix), "prefix %q", tc.prefix)
	}
}

package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/standardbeagle/lcc/internal/config"
	lccerrors "github.com/standardbeagle/lcc/internal/errors"
	"github.com/standardbeagle/lcc/internal/index"
	"github.com/standardbeagle/lcc/internal/sema"
	"github.com/standardbeagle/lcc/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeAnalyzer is a scripted analyzer: it returns canned declarations and
// call sites, and derives file symbols from a per-text table so re-adds can
// change the dynamic index.
type fakeAnalyzer struct {
	decls      []sema.Decl
	call       *sema.CallSite
	symsByText map[string][]types.Symbol
}

func (f *fakeAnalyzer) Declarations(ctx context.Context, doc sema.Document, cur sema.CursorContext) ([]sema.Decl, error) {
	return f.decls, nil
}

func (f *fakeAnalyzer) CallSite(ctx context.Context, doc sema.Document, offset int) (*sema.CallSite, error) {
	return f.call, nil
}

func (f *fakeAnalyzer) FileSymbols(ctx context.Context, doc sema.Document) ([]types.Symbol, error) {
	return f.symsByText[doc.Text], nil
}

func addDoc(t *testing.T, e *Engine, path, text string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := e.AddDocument(ctx, path, text).Get(ctx)
	require.NoError(t, err)
}

func TestCompleteEndToEnd(t *testing.T) {
	fake := &fakeAnalyzer{
		decls: []sema.Decl{
			{Name: "foo", Kind: types.KindFunction, Accessible: true},
			{Name: "bar", Kind: types.KindVariable, Accessible: true},
		},
	}
	e := New(WithAnalyzer(fake))
	addDoc(t, e, "a.cc", "int x = fo")

	ctx := context.Background()
	list, err := e.Complete(ctx, Request{
		Path:    "a.cc",
		Offset:  10,
		Options: config.DefaultOptions(),
	}).Get(ctx)
	require.NoError(t, err)

	require.Len(t, list.Items, 1)
	assert.Equal(t, "foo()", list.Items[0].Label)
	assert.False(t, list.IsIncomplete)
}

func TestCompleteContentsOverride(t *testing.T) {
	fake := &fakeAnalyzer{
		decls: []sema.Decl{{Name: "override", Kind: types.KindVariable, Accessible: true}},
	}
	e := New(WithAnalyzer(fake))
	addDoc(t, e, "a.cc", "stored text")

	contents := "ov"
	ctx := context.Background()
	list, err := e.Complete(ctx, Request{
		Path:     "a.cc",
		Offset:   2,
		Contents: &contents,
		Options:  config.DefaultOptions(),
	}).Get(ctx)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "override", list.Items[0].Label)

	// The stored document is untouched by the override.
	doc, ok := e.docs.get("a.cc")
	require.True(t, ok)
	assert.Equal(t, "stored text", doc.Text)
}

func TestCompleteInvalidOffset(t *testing.T) {
	e := New(WithAnalyzer(&fakeAnalyzer{}))
	addDoc(t, e, "a.cc", "short")

	ctx := context.Background()
	_, err := e.Complete(ctx, Request{Path: "a.cc", Offset: 99, Options: config.DefaultOptions()}).Get(ctx)
	require.Error(t, err)
	assert.True(t, lccerrors.IsInvalidOffset(err))

	_, err = e.Complete(ctx, Request{Path: "a.cc", Offset: -1, Options: config.DefaultOptions()}).Get(ctx)
	require.Error(t, err)
	assert.True(t, lccerrors.IsInvalidOffset(err))
}

func TestCompleteUnknownDocument(t *testing.T) {
	e := New(WithAnalyzer(&fakeAnalyzer{}))
	ctx := context.Background()
	_, err := e.Complete(ctx, Request{Path: "never-added.cc", Options: config.DefaultOptions()}).Get(ctx)
	require.Error(t, err)
	assert.True(t, lccerrors.IsUnknownDocument(err))
}

func TestReAddReplacesDynamicSymbols(t *testing.T) {
	fake := &fakeAnalyzer{
		symsByText: map[string][]types.Symbol{
			"v1": {types.NewIndexSymbol("oldSym", types.KindFunction)},
			"v2": {types.NewIndexSymbol("newSym", types.KindFunction)},
		},
	}
	e := New(WithAnalyzer(fake))

	addDoc(t, e, "a.cc", "v1")
	addDoc(t, e, "a.cc", "v2")

	hits := e.DynamicIndex().Query(index.Query{})
	require.Len(t, hits, 1)
	assert.Equal(t, "newSym", hits[0].Name)
	assert.Equal(t, types.OriginDynamic, hits[0].Origin)
}

func TestRemoveDocumentDropsDynamicContribution(t *testing.T) {
	fake := &fakeAnalyzer{
		symsByText: map[string][]types.Symbol{
			"text": {types.NewIndexSymbol("sym", types.KindFunction)},
		},
	}
	e := New(WithAnalyzer(fake))
	addDoc(t, e, "a.cc", "text")
	require.Equal(t, 1, e.DynamicIndex().Files())

	e.RemoveDocument("a.cc")
	assert.Equal(t, 0, e.DynamicIndex().Files())

	ctx := context.Background()
	_, err := e.Complete(ctx, Request{Path: "a.cc", Options: config.DefaultOptions()}).Get(ctx)
	assert.True(t, lccerrors.IsUnknownDocument(err))
}

func TestIndexOnlyCompletionWithoutAnalyzer(t *testing.T) {
	b := index.NewBuilder(2)
	b.Insert(types.NewIndexSymbol("indexFoo", types.KindFunction))
	b.Insert(types.NewIndexSymbol("other", types.KindVariable))
	static := b.Build()

	e := New()
	addDoc(t, e, "a.cc", "int x = index")

	opts := config.DefaultOptions()
	opts.Index = static

	ctx := context.Background()
	list, err := e.Complete(ctx, Request{Path: "a.cc", Offset: 13, Options: opts}).Get(ctx)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "[I]indexFoo", list.Items[0].Label)
}

func TestCompleteMergesDynamicAndStatic(t *testing.T) {
	dynSym := types.NewIndexSymbol("shared", types.KindFunction)
	dynSym.Documentation = "dynamic"
	fake := &fakeAnalyzer{
		symsByText: map[string][]types.Symbol{"text": {dynSym}},
	}
	e := New(WithAnalyzer(fake))
	addDoc(t, e, "lib.cc", "text")
	addDoc(t, e, "a.cc", "sha")

	staticShared := types.NewIndexSymbol("shared", types.KindFunction)
	staticShared.Documentation = "static"
	b := index.NewBuilder(2)
	b.Insert(staticShared)
	b.Insert(types.NewIndexSymbol("shadow", types.KindFunction))
	opts := config.DefaultOptions()
	opts.Index = b.Build()

	ctx := context.Background()
	list, err := e.Complete(ctx, Request{Path: "a.cc", Offset: 3, Options: opts}).Get(ctx)
	require.NoError(t, err)
	require.Len(t, list.Items, 2)

	docs := map[string]interface{}{}
	for _, item := range list.Items {
		docs[item.Label] = item.Documentation
	}
	// The dynamic record shadows the static one for the shared ID.
	assert.Equal(t, "dynamic", docs["[I]shared"])
	assert.Contains(t, docs, "[I]shadow")
}

func TestSignatureHelpEndToEnd(t *testing.T) {
	fake := &fakeAnalyzer{
		call: &sema.CallSite{
			Callee: "foo",
			Overloads: []sema.Decl{
				{Name: "foo", Kind: types.KindFunction, ReturnType: "int",
					Params: []sema.Param{{Type: "int", Name: "x"}, {Type: "int", Name: "y", Default: "0"}}},
			},
			ArgsPrefix: "1, ",
		},
	}
	e := New(WithAnalyzer(fake))
	addDoc(t, e, "a.cc", "foo(1, ")

	ctx := context.Background()
	help, err := e.SignatureHelp(ctx, Request{Path: "a.cc", Offset: 7, Options: config.DefaultOptions()}).Get(ctx)
	require.NoError(t, err)
	require.Len(t, help.Signatures, 1)
	assert.Equal(t, "foo(int x, int y = 0) -> int", help.Signatures[0].Label)
	assert.Equal(t, uint32(0), help.ActiveSignature)
	assert.Equal(t, uint32(1), help.ActiveParameter)
}

func TestSignatureHelpWithoutAnalyzer(t *testing.T) {
	e := New()
	addDoc(t, e, "a.cc", "foo(")

	ctx := context.Background()
	help, err := e.SignatureHelp(ctx, Request{Path: "a.cc", Offset: 4, Options: config.DefaultOptions()}).Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, help.Signatures)
}

func TestFutureGetRespectsContext(t *testing.T) {
	fut := newFuture[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := fut.Get(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, fut.Ready())

	fut.publish(42, nil)
	got, err := fut.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.True(t, fut.Ready())
}

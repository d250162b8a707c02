package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lccerrors "github.com/standardbeagle/lcc/internal/errors"
	"github.com/standardbeagle/lcc/internal/types"
)

const snapshotFixture = `
[[symbol]]
name = "indexFoo"
kind = "function"
detail = "int"
documentation = "An indexed function."

[[symbol]]
name = "foo"
scope = "ns::"
kind = "function"

[[symbol]]
name = "XYZ"
scope = "ns::"
kind = "class"
label = "XYZ<T>"
`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSnapshot(t *testing.T) {
	store, err := LoadSnapshot(writeFixture(t, snapshotFixture))
	require.NoError(t, err)
	require.Equal(t, 3, store.Len())

	sym, ok := store.Get(types.MakeSymbolID("indexFoo"))
	require.True(t, ok)
	assert.Equal(t, types.KindFunction, sym.Kind)
	assert.Equal(t, types.OriginStatic, sym.Origin)
	assert.Equal(t, "int", sym.Detail)
	assert.Equal(t, "An indexed function.", sym.Documentation)
	assert.Equal(t, "indexFoo", sym.InsertText)

	xyz, ok := store.Get(types.MakeSymbolID("ns::XYZ"))
	require.True(t, ok)
	assert.Equal(t, "XYZ<T>", xyz.Label)
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	var snapErr *lccerrors.SnapshotError
	require.ErrorAs(t, err, &snapErr)
	assert.Equal(t, "read", snapErr.Operation)
}

func TestLoadSnapshotParseError(t *testing.T) {
	_, err := LoadSnapshot(writeFixture(t, "[[symbol\nname ="))
	require.Error(t, err)
	var snapErr *lccerrors.SnapshotError
	require.ErrorAs(t, err, &snapErr)
	assert.Equal(t, "parse", snapErr.Operation)
}

func TestSaveSnapshotRoundTrip(t *testing.T) {
	b := NewBuilder(2)
	sym := types.NewIndexSymbol("ns::vector", types.KindClass)
	sym.Label = "vector<T>"
	sym.Detail = "template class"
	b.Insert(sym)
	b.Insert(types.NewIndexSymbol("global_fn", types.KindFunction))
	original := b.Build()

	path := filepath.Join(t.TempDir(), "out.toml")
	require.NoError(t, SaveSnapshot(path, original))

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	require.Equal(t, original.Len(), loaded.Len())

	got, ok := loaded.Get(types.MakeSymbolID("ns::vector"))
	require.True(t, ok)
	assert.Equal(t, "vector<T>", got.Label)
	assert.Equal(t, "template class", got.Detail)
	assert.Equal(t, types.KindClass, got.Kind)
}

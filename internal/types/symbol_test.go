package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIndexSymbolScopeSplit(t *testing.T) {
	global := NewIndexSymbol("foo", KindFunction)
	assert.Equal(t, "foo", global.Name)
	assert.Equal(t, "", global.Scope)
	assert.Equal(t, "foo", global.QualifiedName())

	nested := NewIndexSymbol("a::b::foo", KindClass)
	assert.Equal(t, "foo", nested.Name)
	assert.Equal(t, "a::b::", nested.Scope)
	assert.Equal(t, "a::b::foo", nested.QualifiedName())
}

func TestSymbolIDStableAcrossProducers(t *testing.T) {
	a := NewIndexSymbol("ns::foo", KindFunction)
	b := NewIndexSymbol("ns::foo", KindVariable)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, MakeSymbolID("ns::foo"), a.ID)

	assert.NotEqual(t, MakeSymbolID("ns::foo"), MakeSymbolID("foo"))
}

func TestKindRoundTrip(t *testing.T) {
	for _, k := range []SymbolKind{
		KindVariable, KindFunction, KindMethod, KindField,
		KindClass, KindMacro, KindKeyword, KindPattern,
	} {
		assert.Equal(t, k, ParseKind(k.String()))
	}
	assert.Equal(t, KindUnknown, ParseKind("hologram"))
}

func TestKindCallable(t *testing.T) {
	assert.True(t, KindFunction.Callable())
	assert.True(t, KindMethod.Callable())
	assert.False(t, KindVariable.Callable())
	assert.False(t, KindClass.Callable())
}

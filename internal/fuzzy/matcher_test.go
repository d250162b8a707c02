package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchOrdersByWordAlignment(t *testing.T) {
	bigBang, ok := Match("bb", "BigBang")
	assert.True(t, ok)
	babble, ok := Match("bb", "Babble")
	assert.True(t, ok)

	// Both start-of-word hits beat a prefix hit followed by a mid-word one.
	assert.Greater(t, bigBang, babble)

	// "Ball" only has one 'b'; the subsequence requirement excludes it.
	_, ok = Match("bb", "Ball")
	assert.False(t, ok)
}

func TestMatchRequiresExactSubsequence(t *testing.T) {
	// "_a" occurs in static_cast but not in Abracadabra: the underscore is
	// matched literally, never skipped.
	_, ok := Match("_a", "static_cast")
	assert.True(t, ok)

	_, ok = Match("_a", "Abracadabra")
	assert.False(t, ok)
}

func TestMatchCaseInsensitive(t *testing.T) {
	upper, ok := Match("FOOBAR", "FooBar")
	assert.True(t, ok)
	lower, ok := Match("foobar", "FooBar")
	assert.True(t, ok)
	assert.Equal(t, upper, lower)
}

func TestMatchEmptyPattern(t *testing.T) {
	score, ok := Match("", "anything")
	assert.True(t, ok)
	assert.Equal(t, 1.0, score)
}

func TestMatchEmptyName(t *testing.T) {
	_, ok := Match("a", "")
	assert.False(t, ok)
}

func TestMatchPrefixBeatsScattered(t *testing.T) {
	prefix, ok := Match("foo", "FooBar")
	assert.True(t, ok)
	scattered, ok := Match("foo", "ifElseFooOnce")
	assert.True(t, ok)
	assert.Greater(t, prefix, scattered)
}

func TestMatchEqualScoresForParallelNames(t *testing.T) {
	a, ok := Match("Foba", "FooBar")
	assert.True(t, ok)
	b, ok := Match("Foba", "FooBaz")
	assert.True(t, ok)
	assert.Equal(t, a, b)
}

func TestSimilarityBreaksTies(t *testing.T) {
	// Same subsequence score, different overall closeness.
	closer := Similarity("foobar", "FooBar")
	further := Similarity("foobar", "FooBarBazQuux")
	assert.Greater(t, closer, further)
}

func TestSimilarityEmptyInputs(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("", "name"))
	assert.Equal(t, 0.0, Similarity("pat", ""))
}

package textmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExactMatch(t *testing.T) {
	for _, ref := range []string{"Paris", "the mitochondria is the powerhouse of the cell", "42"} {
		res := Match(ref, ref)
		assert.True(t, res.IsCorrect, ref)
		assert.Equal(t, 1.0, res.Similarity, ref)
	}
}

func TestPunctuationAndCaseInsensitive(t *testing.T) {
	res := Match("  PARIS!  ", "paris")
	assert.True(t, res.IsCorrect)
	assert.Equal(t, 1.0, res.Similarity)
}

func TestExtraWordsStillCorrect(t *testing.T) {
	// All reference keywords are covered; the extra word doesn't hurt.
	res := Match("Paris, France", "Paris")
	assert.True(t, res.IsCorrect)
	assert.Equal(t, 1.0, res.Similarity)
}

func TestWrongAnswer(t *testing.T) {
	res := Match("Berlin", "Paris")
	assert.False(t, res.IsCorrect)
	assert.Less(t, res.Similarity, 0.7)
}

func TestSingleTypoTolerated(t *testing.T) {
	// "mitochondria" vs "mitochondira": distance 2 on a 12-letter word,
	// similarity ~0.83, above the fuzzy keyword threshold.
	res := Match("the mitochondira", "mitochondria")
	assert.True(t, res.IsCorrect)
}

func TestReorderedAnswer(t *testing.T) {
	res := Match("energy is released by cellular respiration",
		"cellular respiration releases energy")
	// 3 of 4 reference keywords hit exactly, "releases" fuzzy-matches
	// "released".
	assert.True(t, res.IsCorrect)
}

func TestMissingSubstance(t *testing.T) {
	res := Match("a process", "cellular respiration releases energy in cells")
	assert.False(t, res.IsCorrect)
}

func TestStopWordOnlyReferenceFallsBack(t *testing.T) {
	// Reference normalizes to stop words only, so the whole-string path
	// decides.
	res := Match("to be", "to be")
	assert.True(t, res.IsCorrect)
	res = Match("completely different", "to be")
	assert.False(t, res.IsCorrect)
}

func TestDegenerateInputs(t *testing.T) {
	res := Match("", "")
	assert.True(t, res.IsCorrect)
	assert.Equal(t, 1.0, res.Similarity)

	res = Match("", "Paris")
	assert.False(t, res.IsCorrect)
	assert.GreaterOrEqual(t, res.Similarity, 0.0)

	res = Match("something", "")
	assert.False(t, res.IsCorrect)
	assert.LessOrEqual(t, res.Similarity, 1.0)
}

func TestSimilarityBounds(t *testing.T) {
	pairs := [][2]string{
		{"abc", "xyz"}, {"", "x"}, {"Paris France", "paris"},
		{"the quick brown fox", "quick brown foxes"},
	}
	for _, p := range pairs {
		res := Match(p[0], p[1])
		assert.GreaterOrEqual(t, res.Similarity, 0.0)
		assert.LessOrEqual(t, res.Similarity, 1.0)
	}
}

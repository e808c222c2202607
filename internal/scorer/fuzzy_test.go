package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuzzyScorer_NoMatch(t *testing.T) {
	s := NewFuzzyScorer("xyz")
	pos := NewPositions(5)
	_, ok := s.Score([]rune("abcde"), &pos)
	assert.False(t, ok)
}

func TestFuzzyScorer_FullMatch(t *testing.T) {
	s := NewFuzzyScorer("abc")
	pos := NewPositions(3)
	score, ok := s.Score([]rune("abc"), &pos)
	require.True(t, ok)
	assert.Equal(t, MaxScore, score)
	assert.Equal(t, []int{0, 1, 2}, pos.Indices())
}

func TestFuzzyScorer_SubsequenceMatch(t *testing.T) {
	s := NewFuzzyScorer("fbr")
	pos := NewPositions(len([]rune("foo/bar.rs")))
	score, ok := s.Score([]rune("foo/bar.rs"), &pos)
	require.True(t, ok)
	assert.Greater(t, float32(score), float32(0))
	// f matches at 0 (leading), b matches after '/', r matches after '.' (index 8)
	assert.NotEmpty(t, pos.Indices())
}

func TestFuzzyScorer_PrefersConsecutiveRuns(t *testing.T) {
	s := NewFuzzyScorer("ab")
	posConsecutive := NewPositions(2)
	scoreConsecutive, ok := s.Score([]rune("ab"), &posConsecutive)
	require.True(t, ok)

	posSpread := NewPositions(5)
	scoreSpread, ok := s.Score([]rune("axxbx"), &posSpread)
	require.True(t, ok)

	assert.Greater(t, float32(scoreConsecutive), float32(scoreSpread))
}

func TestFuzzyScorer_RewardsWordBoundary(t *testing.T) {
	s := NewFuzzyScorer("gs")
	posBoundary := NewPositions(len([]rune("git_status")))
	scoreBoundary, ok := s.Score([]rune("git_status"), &posBoundary)
	require.True(t, ok)

	posMidword := NewPositions(len([]rune("legislature")))
	scoreMidword, ok := s.Score([]rune("legislature"), &posMidword)
	require.True(t, ok)

	assert.Greater(t, float32(scoreBoundary), float32(scoreMidword))
}

func TestFuzzyScorer_EmptyNeedleMatchesEverything(t *testing.T) {
	s := NewFuzzyScorer("")
	pos := NewPositions(3)
	score, ok := s.Score([]rune("abc"), &pos)
	require.True(t, ok)
	assert.Equal(t, MaxScore, score)
	assert.Empty(t, pos.Indices())
}

func TestFuzzyScorer_LowercaseNeedleMatchesAnyCase(t *testing.T) {
	s := NewFuzzyScorer("abc")
	pos := NewPositions(3)
	_, ok := s.Score([]rune("ABC"), &pos)
	assert.True(t, ok, "an all-lowercase needle must match case-insensitively (smart case)")
}

func TestFuzzyScorer_UppercaseNeedleForcesCaseSensitiveMatch(t *testing.T) {
	s := NewFuzzyScorer("ABC")

	pos := NewPositions(3)
	_, ok := s.Score([]rune("abc"), &pos)
	assert.False(t, ok, "a needle containing an uppercase letter must not match a differently-cased haystack (smart case)")

	pos = NewPositions(3)
	_, ok = s.Score([]rune("ABC"), &pos)
	assert.True(t, ok)
}

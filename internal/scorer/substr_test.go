package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstrScorer_RequiresContiguousWords(t *testing.T) {
	s := NewSubstrScorer("foo bar")
	pos := NewPositions(len([]rune("xx foo yy bar zz")))
	_, ok := s.Score([]rune("xx foo yy bar zz"), &pos)
	require.True(t, ok)

	pos2 := NewPositions(len([]rune("xx fbaro yy")))
	_, ok = s.Score([]rune("xx fbaro yy"), &pos2)
	assert.False(t, ok)
}

func TestSubstrScorer_WordsMustAppearInOrder(t *testing.T) {
	s := NewSubstrScorer("bar foo")
	pos := NewPositions(len([]rune("foo bar")))
	_, ok := s.Score([]rune("foo bar"), &pos)
	assert.False(t, ok)
}

func TestSubstrScorer_EmptyNeedleMatchesEverything(t *testing.T) {
	s := NewSubstrScorer("")
	pos := NewPositions(3)
	score, ok := s.Score([]rune("abc"), &pos)
	require.True(t, ok)
	assert.Equal(t, MaxScore, score)
}

func TestSubstrScorer_UppercaseNeedleForcesCaseSensitiveMatch(t *testing.T) {
	s := NewSubstrScorer("Foo")
	pos := NewPositions(len([]rune("xx foo yy")))
	_, ok := s.Score([]rune("xx foo yy"), &pos)
	assert.False(t, ok)

	pos2 := NewPositions(len([]rune("xx Foo yy")))
	_, ok = s.Score([]rune("xx Foo yy"), &pos2)
	assert.True(t, ok)
}

func TestSubstrScorer_LowercaseNeedleMatchesAnyCase(t *testing.T) {
	s := NewSubstrScorer("foo")
	pos := NewPositions(len([]rune("xx FOO yy")))
	_, ok := s.Score([]rune("xx FOO yy"), &pos)
	assert.True(t, ok)
}

func TestSubstrScorer_PrefersEarlierMatch(t *testing.T) {
	s := NewSubstrScorer("cd")
	posEarly := NewPositions(len([]rune("cdxxxxxx")))
	scoreEarly, ok := s.Score([]rune("cdxxxxxx"), &posEarly)
	require.True(t, ok)

	posLate := NewPositions(len([]rune("xxxxxxcd")))
	scoreLate, ok := s.Score([]rune("xxxxxxcd"), &posLate)
	require.True(t, ok)

	assert.Greater(t, float32(scoreEarly), float32(scoreLate))
}

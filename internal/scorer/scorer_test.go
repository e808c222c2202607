package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextBuilderName_Cycles(t *testing.T) {
	assert.Equal(t, "substr", NextBuilderName("fuzzy"))
	assert.Equal(t, "fuzzy", NextBuilderName("substr"))
	assert.Equal(t, "fuzzy", NextBuilderName("unknown"))
}

func TestBuilderByName_AcceptsKeepOrderUnderscoreSpelling(t *testing.T) {
	b := BuilderByName("keep_order")
	s := b("x")
	assert.Equal(t, "keep-order", s.Name())
}

func TestBuilderByName_FallsBackToFuzzy(t *testing.T) {
	b := BuilderByName("nonsense")
	s := b("x")
	assert.Equal(t, "fuzzy", s.Name())
}

func TestKeepOrderScorer_MatchesSubsequenceWithNoPositions(t *testing.T) {
	s := NewKeepOrderScorer("hlo")
	pos := NewPositions(5)
	score, ok := s.Score([]rune("hello"), &pos)
	assert.True(t, ok)
	assert.Equal(t, Score(0), score)
	assert.Empty(t, pos.Indices())
}

func TestKeepOrderScorer_FiltersNonSubsequence(t *testing.T) {
	s := NewKeepOrderScorer("xyz")
	pos := NewPositions(5)
	_, ok := s.Score([]rune("hello"), &pos)
	assert.False(t, ok)
}

func TestKeepOrderScorer_UppercaseNeedleForcesCaseSensitiveMatch(t *testing.T) {
	s := NewKeepOrderScorer("HLO")
	pos := NewPositions(5)
	_, ok := s.Score([]rune("hello"), &pos)
	assert.False(t, ok)
}

func TestKeepOrderScorer_FiltersEmptyNeedle(t *testing.T) {
	s := NewKeepOrderScorer("")
	pos := NewPositions(5)
	_, ok := s.Score([]rune("hello"), &pos)
	assert.False(t, ok)
}

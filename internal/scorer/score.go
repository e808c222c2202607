// Package scorer implements the fuzzy and substring matching algorithms that
// rank haystack items against a query needle.
package scorer

import "math"

// Score is a match quality value. Higher is better. Scores from different
// scorers are only meaningful relative to other scores from the same scorer.
type Score float32

var (
	// MinScore seeds a scoring pass before any candidate has been evaluated.
	MinScore = Score(float32(math.Inf(-1)))
	// MaxScore marks a full match, ranked ahead of every partial match.
	MaxScore = Score(float32(math.Inf(1)))
)

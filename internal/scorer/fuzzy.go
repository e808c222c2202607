package scorer

import (
	"math"
	"unicode"
)

const (
	scoreGapLeading      = -0.005
	scoreGapTrailing     = -0.005
	scoreGapInner        = -0.01
	scoreMatchConsecutive = 1.0
	scoreMatchSlash      = 0.9
	scoreMatchWord       = 0.8
	scoreMatchCapital    = 0.7
	scoreMatchDot        = 0.6
)

var negInf = float32(math.Inf(-1))

// FuzzyScorer matches whenever needle is a subsequence of the haystack,
// scoring matches via a Smith-Waterman-style dynamic program that rewards
// consecutive runs and matches that land on word/path/case boundaries.
// Pairs where the needle or the haystack exceeds 256 runes are scored by
// the substring strategy instead (see Score).
type FuzzyScorer struct {
	needle        []rune
	needleStr     string
	caseSensitive bool
}

// NewFuzzyScorer builds a fuzzy scorer for needle, applying smart case: a
// needle with no uppercase letters matches case-insensitively; a needle
// containing any uppercase letter forces a case-sensitive match.
func NewFuzzyScorer(needle string) *FuzzyScorer {
	caseSensitive := hasUpper(needle)
	runes := []rune(needle)
	if !caseSensitive {
		runes = lowerRunes(runes)
	}
	return &FuzzyScorer{needle: runes, needleStr: needle, caseSensitive: caseSensitive}
}

func (s *FuzzyScorer) Name() string   { return "fuzzy" }
func (s *FuzzyScorer) Needle() string { return s.needleStr }

// Score implements Scorer. A needle or haystack longer than maxFuzzyLen
// runes is handed to SubstrScorer, bounding the dynamic program's cost.
func (s *FuzzyScorer) Score(haystack []rune, positions *Positions) (Score, bool) {
	const maxFuzzyLen = 256
	if !s.caseSensitive {
		haystack = lowerRunes(haystack)
	}
	if !subsequence(s.needle, haystack) {
		return 0, false
	}
	if len(s.needle) > maxFuzzyLen || len(haystack) > maxFuzzyLen {
		return NewSubstrScorer(s.needleStr).Score(haystack, positions)
	}
	return fuzzyScoreImpl(s.needle, haystack, positions)
}

// hasUpper reports whether s contains any uppercase letter; used by every
// scorer to decide smart-case matching.
func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// lowerRunes returns a lowercased copy of runes. Lowercasing rune-by-rune
// (rather than via strings.ToLower on the joined string) guarantees the
// result has the same length, so indices in positions still line up.
func lowerRunes(runes []rune) []rune {
	out := make([]rune, len(runes))
	for i, r := range runes {
		out[i] = unicode.ToLower(r)
	}
	return out
}

// subsequence reports whether needle occurs as a subsequence (not
// necessarily contiguous) of haystack.
func subsequence(needle, haystack []rune) bool {
	if len(needle) == 0 {
		return true
	}
	n := 0
	for _, h := range haystack {
		if needle[n] == h {
			n++
			if n == len(needle) {
				return true
			}
		}
	}
	return false
}

// bonus computes, for each haystack rune, the boundary bonus awarded when a
// needle rune matches at that position: matches right after a path
// separator, word separator, dot, or a lower-to-upper case transition score
// higher than a mid-word match.
func bonus(haystack []rune, out []float32) {
	prev := '/'
	for i, c := range haystack {
		switch {
		case isLower(c) || isDigit(c):
			out[i] = bonusForPrev(prev)
		case isUpper(c):
			if prev >= 'a' && prev <= 'z' {
				out[i] = scoreMatchCapital
			} else {
				out[i] = bonusForPrev(prev)
			}
		default:
			out[i] = 0
		}
		prev = c
	}
}

func bonusForPrev(prev rune) float32 {
	switch prev {
	case '/':
		return scoreMatchSlash
	case '-', '_', ' ':
		return scoreMatchWord
	case '.':
		return scoreMatchDot
	default:
		return 0
	}
}

func isLower(c rune) bool { return c >= 'a' && c <= 'z' }
func isUpper(c rune) bool { return c >= 'A' && c <= 'Z' }
func isDigit(c rune) bool { return c >= '0' && c <= '9' }

// scoreMatrix is a dense n_len x h_len matrix backed by a flat slice.
type scoreMatrix struct {
	data  []float32
	width int
}

func newScoreMatrix(width int, data []float32) scoreMatrix {
	return scoreMatrix{data: data, width: width}
}

func (m scoreMatrix) get(row, col int) float32 { return m.data[row*m.width+col] }
func (m *scoreMatrix) set(row, col int, v float32) { m.data[row*m.width+col] = v }

// fuzzyScoreImpl runs the dynamic program. It is only called once needle is
// known to be a subsequence of haystack.
func fuzzyScoreImpl(needle, haystack []rune, positions *Positions) (Score, bool) {
	positions.Clear()
	nLen := len(needle)
	hLen := len(haystack)

	if nLen == 0 || nLen == hLen {
		positions.Extend(0, nLen)
		return MaxScore, true
	}

	scoreBonus := make([]float32, hLen)
	bonus(haystack, scoreBonus)

	scoreEnds := newScoreMatrix(hLen, make([]float32, nLen*hLen))
	scoreBest := newScoreMatrix(hLen, make([]float32, nLen*hLen))

	for i, nChar := range needle {
		scorePrev := negInf
		scoreGap := float32(scoreGapInner)
		if i == nLen-1 {
			scoreGap = scoreGapTrailing
		}
		for j, hChar := range haystack {
			if nChar == hChar {
				var score float32
				switch {
				case i == 0:
					score = float32(j)*scoreGapLeading + scoreBonus[j]
				case j != 0:
					best := scoreBest.get(i-1, j-1) + scoreBonus[j]
					ends := scoreEnds.get(i-1, j-1) + scoreMatchConsecutive
					score = max32(best, ends)
				default:
					score = negInf
				}
				scorePrev = max32(score, scorePrev+scoreGap)
				scoreEnds.set(i, j, score)
			} else {
				scorePrev += scoreGap
				scoreEnds.set(i, j, negInf)
			}
			scoreBest.set(i, j, scorePrev)
		}
	}

	matchRequired := false
	j := hLen
	for i := nLen - 1; i >= 0; i-- {
		for j > 0 {
			j--
			if (matchRequired || scoreEnds.get(i, j) == scoreBest.get(i, j)) && scoreEnds.get(i, j) != negInf {
				matchRequired = i > 0 && j > 0 && scoreBest.get(i, j) == scoreEnds.get(i-1, j-1)+scoreMatchConsecutive
				positions.Set(j)
				break
			}
		}
	}

	return Score(scoreBest.get(nLen-1, hLen-1)), true
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

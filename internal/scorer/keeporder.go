package scorer

// KeepOrderScorer is the null scorer: it never contributes a score or
// highlighted positions, but still filters, matching whenever the needle is
// a non-empty subsequence of the haystack under the same smart-case rule and
// predicate Fuzzy uses. Used when the picker is configured to preserve
// haystack insertion order instead of ranking.
type KeepOrderScorer struct {
	needle        []rune
	needleStr     string
	caseSensitive bool
}

// NewKeepOrderScorer builds the null scorer for needle.
func NewKeepOrderScorer(needle string) *KeepOrderScorer {
	caseSensitive := hasUpper(needle)
	runes := []rune(needle)
	if !caseSensitive {
		runes = lowerRunes(runes)
	}
	return &KeepOrderScorer{needle: runes, needleStr: needle, caseSensitive: caseSensitive}
}

func (s *KeepOrderScorer) Name() string   { return "keep-order" }
func (s *KeepOrderScorer) Needle() string { return s.needleStr }

// Score reports a match iff needle is non-empty and a subsequence of
// haystack; positions are always left empty.
func (s *KeepOrderScorer) Score(haystack []rune, positions *Positions) (Score, bool) {
	positions.Clear()
	if !s.caseSensitive {
		haystack = lowerRunes(haystack)
	}
	if len(s.needle) == 0 || !subsequence(s.needle, haystack) {
		return 0, false
	}
	return 0, true
}

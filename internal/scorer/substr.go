package scorer

// SubstrScorer splits the needle on spaces and requires each word to occur,
// in order, as an uninterrupted run of runes in the haystack. It favors
// matches that are short and near the start of the haystack.
type SubstrScorer struct {
	needle        string
	words         []*kmpPattern
	caseSensitive bool
}

// NewSubstrScorer builds a substring scorer for needle, applying the same
// smart-case rule as FuzzyScorer.
func NewSubstrScorer(needle string) *SubstrScorer {
	caseSensitive := hasUpper(needle)
	runes := []rune(needle)
	if !caseSensitive {
		runes = lowerRunes(runes)
	}
	var words []*kmpPattern
	start := 0
	for i := 0; i <= len(runes); i++ {
		if i == len(runes) || runes[i] == ' ' {
			if i > start {
				words = append(words, newKMPPattern(runes[start:i]))
			}
			start = i + 1
		}
	}
	return &SubstrScorer{needle: needle, words: words, caseSensitive: caseSensitive}
}

func (s *SubstrScorer) Name() string   { return "substr" }
func (s *SubstrScorer) Needle() string { return s.needle }

// Score implements Scorer.
func (s *SubstrScorer) Score(haystack []rune, positions *Positions) (Score, bool) {
	positions.Clear()
	if len(s.words) == 0 {
		return MaxScore, true
	}
	if !s.caseSensitive {
		haystack = lowerRunes(haystack)
	}

	matchStart := 0
	matchEnd := 0
	for i, word := range s.words {
		found := word.Search(haystack[matchEnd:])
		if found < 0 {
			return 0, false
		}
		matchEnd += found
		if i == 0 {
			matchStart = matchEnd
		}
		wordStart := matchEnd
		matchEnd += word.Len()
		positions.Extend(wordStart, matchEnd)
	}

	start := float32(matchStart)
	end := float32(matchEnd)
	score := -start - (end - start)
	return Score(score), true
}

package scorer

// Scorer scores a haystack rune slice against a fixed needle (each scorer
// applies its own smart-case lowering), reporting whether it matched and, on match, the score and the
// positions of the matched runes.
type Scorer interface {
	// Name identifies the scorer for RPC and CLI selection ("fuzzy", "substr", "keep-order").
	Name() string
	// Needle returns the query string the scorer was built for.
	Needle() string
	// Score evaluates haystack, writing the match positions into positions.
	// positions is cleared and resized as needed. Returns false on no match.
	Score(haystack []rune, positions *Positions) (Score, bool)
}

// Builder constructs a Scorer bound to needle. Ranker holds one Builder per
// scorer kind and rebuilds a Scorer every time the needle changes.
type Builder func(needle string) Scorer

// Builders maps every scorer kind selectable by name to its builder; the
// cycle order is BuilderNames.
var Builders = map[string]Builder{
	"fuzzy":      func(needle string) Scorer { return NewFuzzyScorer(needle) },
	"substr":     func(needle string) Scorer { return NewSubstrScorer(needle) },
	"keep-order": func(needle string) Scorer { return NewKeepOrderScorer(needle) },
}

// BuilderNames lists scorer names in the order the "sweep.scorer.next"
// action cycles through them; "keep-order" is not part of the cycle.
var BuilderNames = []string{"fuzzy", "substr"}

// BuilderByName looks up a scorer builder, falling back to fuzzy for an
// unknown name. "keep_order" (the CLI/config flag spelling) is accepted as
// an alias for the internal "keep-order" map key.
func BuilderByName(name string) Builder {
	if name == "keep_order" {
		name = "keep-order"
	}
	if b, ok := Builders[name]; ok {
		return b
	}
	return Builders["fuzzy"]
}

// NextBuilderName returns the scorer name that follows current in the
// cycle order, wrapping around.
func NextBuilderName(current string) string {
	for i, name := range BuilderNames {
		if name == current {
			return BuilderNames[(i+1)%len(BuilderNames)]
		}
	}
	return BuilderNames[0]
}

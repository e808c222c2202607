package scorer

// kmpPattern is a Knuth-Morris-Pratt matcher over a fixed rune pattern,
// used to find each whitespace-separated word of a substring query inside
// a haystack in linear time.
type kmpPattern struct {
	needle []rune
	table  []int
}

func newKMPPattern(needle []rune) *kmpPattern {
	if len(needle) == 0 {
		return &kmpPattern{}
	}
	table := make([]int, len(needle))
	i := 0
	for j := 1; j < len(needle); j++ {
		for i > 0 && needle[i] != needle[j] {
			i = table[i-1]
		}
		if needle[i] == needle[j] {
			i++
		}
		table[j] = i
	}
	return &kmpPattern{needle: needle, table: table}
}

func (p *kmpPattern) Len() int { return len(p.needle) }

// Search returns the start index of the first match in haystack, or -1.
func (p *kmpPattern) Search(haystack []rune) int {
	if len(p.needle) == 0 {
		return -1
	}
	n := 0
	for h, r := range haystack {
		for n > 0 && p.needle[n] != r {
			n = p.table[n-1]
		}
		if p.needle[n] == r {
			n++
		}
		if n == len(p.needle) {
			return h + 1 - n
		}
	}
	return -1
}

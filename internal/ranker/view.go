package ranker

import (
	"time"

	"github.com/wrungel/sweep/internal/haystack"
	"github.com/wrungel/sweep/internal/scorer"
)

// ChunkSize is how many items a scoring worker scores per inner chunk. A
// scoring pass runs to completion once started: workers do not check
// between chunks whether newer commands have made it stale.
const ChunkSize = 65536

// Position is a single matched-rune location, identifying which field of an
// item it falls in.
type Position struct {
	Field  int `json:"field"`
	Offset int `json:"offset"`
}

// Entry is one row of a ranked view: an item plus its match result against
// the generation's needle and scorer.
type Entry struct {
	Item      haystack.Item
	Score     scorer.Score
	Positions []Position
}

// Generation identifies the inputs a View was computed from by the haystack
// epoch and the count of scorer switches. QueryEpoch is not tracked and is
// always 0.
type Generation struct {
	HaystackEpoch uint64
	QueryEpoch    uint64
	ScorerEpoch   uint64
}

// View is an immutable, atomically-published ranked view: the ordered
// result of scoring a haystack snapshot against a query and scorer.
type View struct {
	Entries      []Entry
	ScorerName   string
	Generation   Generation
	Duration     time.Duration
	TotalItems   int
	ScoredItems  int
	MatchedItems int
}

// Len returns the number of matched entries.
func (v *View) Len() int {
	if v == nil {
		return 0
	}
	return len(v.Entries)
}

// Get returns the entry at rank index, or false if out of range.
func (v *View) Get(index int) (Entry, bool) {
	if v == nil || index < 0 || index >= len(v.Entries) {
		return Entry{}, false
	}
	return v.Entries[index], true
}

// FindByItemID returns the rank index of the entry for the given item ID.
func (v *View) FindByItemID(id uint64) (int, bool) {
	if v == nil {
		return 0, false
	}
	for i, e := range v.Entries {
		if e.Item.ID == id {
			return i, true
		}
	}
	return 0, false
}

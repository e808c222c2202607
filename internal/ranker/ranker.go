// Package ranker turns a haystack, a query, and a scorer into a
// continuously republished ranked view, mirroring the single-writer
// command-thread design of the original sweep-lib ranker.
package ranker

import (
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wrungel/sweep/internal/haystack"
	"github.com/wrungel/sweep/internal/scorer"
)

// action is the next ranking pass this generation must perform, mirroring
// the original RankAction enum's transition table.
type action int

const (
	actionNone action = iota
	actionNotify
	actionOffset
	actionCurrentMatch
	actionAll
)

type cmd interface{ isCmd() }

type cmdNeedle struct{ needle string }
type cmdScorer struct {
	name    string
	builder scorer.Builder
}
type cmdKeepOrder struct{ toggle *bool }
type cmdSync struct{ done chan struct{} }

func (cmdNeedle) isCmd()    {}
func (cmdScorer) isCmd()    {}
func (cmdKeepOrder) isCmd() {}
func (cmdSync) isCmd()      {}

// Ranker owns the single-writer goroutine that applies commands and
// haystack notices to produce ranked Views.
type Ranker struct {
	hs       *haystack.Haystack
	cmds     chan cmd
	view     atomic.Pointer[View]
	publishC chan struct{}
	done     chan struct{}
}

// New starts a Ranker's background goroutine over hs. Call Stop when done.
func New(hs *haystack.Haystack) *Ranker {
	r := &Ranker{
		hs:       hs,
		cmds:     make(chan cmd, 64),
		publishC: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	r.view.Store(&View{ScorerName: "fuzzy"})
	go r.run()
	return r
}

// Stop terminates the ranker goroutine.
func (r *Ranker) Stop() { close(r.done) }

// View returns the most recently published ranked view.
func (r *Ranker) View() *View { return r.view.Load() }

// Published signals whenever a new View has been published.
func (r *Ranker) Published() <-chan struct{} { return r.publishC }

// SetNeedle updates the query needle.
func (r *Ranker) SetNeedle(needle string) { r.send(cmdNeedle{needle: needle}) }

// SetScorer switches the active scorer by name.
func (r *Ranker) SetScorer(name string) {
	r.send(cmdScorer{name: name, builder: scorer.BuilderByName(name)})
}

// SetKeepOrder sets (toggle != nil) or flips (toggle == nil) keep-order mode.
func (r *Ranker) SetKeepOrder(toggle *bool) { r.send(cmdKeepOrder{toggle: toggle}) }

// Sync blocks until every command enqueued before this call has been
// applied to a published view. Used by tests and by items_current's
// eventual-consistency contract.
func (r *Ranker) Sync() {
	done := make(chan struct{})
	r.send(cmdSync{done: done})
	<-done
}

func (r *Ranker) send(c cmd) {
	select {
	case r.cmds <- c:
	case <-r.done:
	}
}

// state is the private mutable state owned exclusively by run's goroutine.
type state struct {
	haystackEpoch uint64
	scoredLen     int // haystack length already reflected in lastEntries
	needle        string
	keepOrder     bool
	scorerName    string
	scorerBuilder scorer.Builder
	scorerInsts   []scorer.Scorer
	scorerEpoch   uint64

	action       action
	offset       int
	pendingSyncs []chan struct{}
	lastEntries  []Entry
}

func newState() *state {
	builder := scorer.BuilderByName("fuzzy")
	return &state{
		scorerName:    "fuzzy",
		scorerBuilder: builder,
		scorerInsts:   needleScorers(builder, ""),
		action:        actionNone,
	}
}

// needleScorers tokenizes query into whitespace-separated needles and builds
// one scorer instance per needle. An empty (or all-whitespace) query yields
// no needles at all; scoreOne treats that as "every item matches" rather
// than asking a scorer to evaluate an empty needle, since scorers like
// KeepOrderScorer treat an empty needle as filtering everything out.
func needleScorers(builder scorer.Builder, query string) []scorer.Scorer {
	needles := strings.Fields(query)
	scorers := make([]scorer.Scorer, len(needles))
	for i, needle := range needles {
		scorers[i] = builder(needle)
	}
	return scorers
}

func (r *Ranker) run() {
	st := newState()
	notices := r.hs.Notices()

	for {
		select {
		case <-r.done:
			return
		case n := <-notices:
			st.applyNotice(n)
		case c := <-r.cmds:
			st.applyCmd(c)
		}

		// Drain everything else pending without blocking so a burst of
		// keystrokes or appends coalesces into a single ranking pass.
		draining := true
		for draining {
			select {
			case n := <-notices:
				st.applyNotice(n)
			case c := <-r.cmds:
				st.applyCmd(c)
			default:
				draining = false
			}
		}

		if st.action == actionNone {
			continue
		}

		view := r.rank(st)
		r.view.Store(view)
		for _, done := range st.pendingSyncs {
			close(done)
		}
		st.pendingSyncs = nil
		st.action = actionNone

		select {
		case r.publishC <- struct{}{}:
		default:
		}
	}
}

func (s *state) applyNotice(n haystack.Notice) {
	if n.Reset {
		s.haystackEpoch = n.Epoch
		s.scoredLen = 0
		s.lastEntries = nil
		s.action = actionAll
		return
	}
	s.haystackEpoch = n.Epoch
	switch s.action {
	case actionNone:
		s.action = actionOffset
		s.offset = n.Lo
	case actionOffset:
		// keep the earliest offset seen this generation
	default:
		s.action = actionAll
	}
}

func (s *state) applyCmd(c cmd) {
	switch v := c.(type) {
	case cmdNeedle:
		switch {
		case s.action == actionNone && v.needle == s.needle:
			return
		case (s.action == actionNone || s.action == actionCurrentMatch) && strings.HasPrefix(v.needle, s.needle):
			s.action = actionCurrentMatch
		default:
			s.action = actionAll
		}
		s.needle = v.needle
		s.scorerInsts = needleScorers(s.scorerBuilder, s.needle)
	case cmdScorer:
		s.action = actionAll
		s.scorerName = v.name
		s.scorerBuilder = v.builder
		s.scorerInsts = needleScorers(s.scorerBuilder, s.needle)
		s.scorerEpoch++
	case cmdKeepOrder:
		s.action = actionAll
		if v.toggle == nil {
			s.keepOrder = !s.keepOrder
		} else {
			s.keepOrder = *v.toggle
		}
	case cmdSync:
		if s.action == actionNone {
			s.action = actionNotify
		}
		s.pendingSyncs = append(s.pendingSyncs, v.done)
	}
}

// rank performs the scoring pass indicated by st.action and returns the
// newly published View.
func (r *Ranker) rank(st *state) *View {
	start := time.Now()
	total := r.hs.Len()

	switch st.action {
	case actionNotify:
		return r.publishFrom(st, total, start)
	case actionOffset:
		appended := r.hs.Snapshot(st.offset, 0)
		newEntries := scoreItems(appended, st.scorerInsts)
		st.lastEntries = mergeEntries(st.lastEntries, newEntries, st.keepOrder)
		st.scoredLen = total
	case actionCurrentMatch:
		items := make([]haystack.Item, len(st.lastEntries))
		for i, e := range st.lastEntries {
			items[i] = e.Item
		}
		st.lastEntries = scoreItems(items, st.scorerInsts)
		sortEntries(st.lastEntries, st.keepOrder)
		st.scoredLen = total
	default: // actionAll
		all := r.hs.Snapshot(0, 0)
		st.lastEntries = scoreItems(all, st.scorerInsts)
		sortEntries(st.lastEntries, st.keepOrder)
		st.scoredLen = total
	}

	return r.publishFrom(st, total, start)
}

func (r *Ranker) publishFrom(st *state, total int, start time.Time) *View {
	return &View{
		Entries:      st.lastEntries,
		ScorerName:   st.scorerName,
		Generation:   Generation{HaystackEpoch: st.haystackEpoch, QueryEpoch: 0, ScorerEpoch: st.scorerEpoch},
		Duration:     time.Since(start),
		TotalItems:   total,
		ScoredItems:  st.scoredLen,
		MatchedItems: len(st.lastEntries),
	}
}

// scoreItems scores items in parallel chunks of ChunkSize, discarding
// non-matches. Order of the returned slice is unspecified until sorted.
func scoreItems(items []haystack.Item, needles []scorer.Scorer) []Entry {
	if len(items) == 0 {
		return nil
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > len(items) {
		workers = len(items)
	}
	if workers < 1 {
		workers = 1
	}

	chunkResults := make([][]Entry, workers)
	var wg sync.WaitGroup
	perWorker := (len(items) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		lo := w * perWorker
		hi := lo + perWorker
		if hi > len(items) {
			hi = len(items)
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			var local []Entry
			for chunkStart := lo; chunkStart < hi; chunkStart += ChunkSize {
				chunkEnd := chunkStart + ChunkSize
				if chunkEnd > hi {
					chunkEnd = hi
				}
				for i := chunkStart; i < chunkEnd; i++ {
					entry, ok := scoreOne(items[i], needles)
					if ok {
						local = append(local, entry)
					}
				}
			}
			chunkResults[w] = local
		}(w, lo, hi)
	}
	wg.Wait()

	var out []Entry
	for _, chunk := range chunkResults {
		out = append(out, chunk...)
	}
	return out
}

// scoreOne scores a single item against every needle: an item matches iff
// every needle matches some active field (conjunction across needles,
// disjunction across fields per needle); the total score is the sum of each
// needle's best per-field score, and positions are the union of each
// needle's best-field match positions.
func scoreOne(item haystack.Item, needles []scorer.Scorer) (Entry, bool) {
	fields := item.ActiveFields()
	if len(fields) == 0 {
		return Entry{}, false
	}
	if len(needles) == 0 {
		return Entry{Item: item, Score: 0, Positions: nil}, true
	}

	// Field runes are kept in their original case: smart case means each
	// needle's scorer decides for itself whether to lowercase.
	fieldRunes := make([][]rune, len(fields))
	for fi, f := range fields {
		fieldRunes[fi] = []rune(f.Text)
	}

	var total scorer.Score
	var positions []Position
	seen := make(map[Position]struct{})

	for _, needle := range needles {
		best := scorer.MinScore
		var bestPositions []Position
		matched := false

		for fi, runes := range fieldRunes {
			p := scorer.NewPositions(len(runes))
			score, ok := needle.Score(runes, &p)
			if !ok {
				continue
			}
			matched = true
			if score > best {
				best = score
				bestPositions = bestPositions[:0]
				for _, off := range p.Indices() {
					bestPositions = append(bestPositions, Position{Field: fi, Offset: off})
				}
			}
		}

		if !matched {
			return Entry{}, false
		}

		total += best
		for _, pos := range bestPositions {
			if _, ok := seen[pos]; !ok {
				seen[pos] = struct{}{}
				positions = append(positions, pos)
			}
		}
	}

	return Entry{Item: item, Score: total, Positions: positions}, true
}

func sortEntries(entries []Entry, keepOrder bool) {
	if keepOrder {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Item.ID < entries[j].Item.ID
		})
		return
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Item.ID < entries[j].Item.ID
	})
}

// mergeEntries merges newly scored entries into a previously sorted slice,
// used for the incremental append-only fast path.
func mergeEntries(prev, fresh []Entry, keepOrder bool) []Entry {
	if len(fresh) == 0 {
		return prev
	}
	merged := append(append([]Entry{}, prev...), fresh...)
	sortEntries(merged, keepOrder)
	return merged
}

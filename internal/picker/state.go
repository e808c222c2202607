package picker

import (
	"sync"

	"github.com/wrungel/sweep/internal/haystack"
	"github.com/wrungel/sweep/internal/ranker"
	"github.com/wrungel/sweep/internal/scorer"
)

// EventSink receives the observable actions a picker can produce: a
// selection, a user-tag binding firing, and a terminate request.
// internal/eventloop's Loop implements it: with an RPC peer attached,
// select and bind become events on the peer; terminate ends the run.
type EventSink interface {
	OnSelect(item haystack.Item)
	OnBind(tag string)
	OnTerminate()
}

// noopSink discards every event; a PickerState from NewPickerState is
// usable without a sink installed.
type noopSink struct{}

func (noopSink) OnSelect(haystack.Item) {}
func (noopSink) OnBind(string)          {}
func (noopSink) OnTerminate()           {}

// PickerState owns the picker's mutable state: the query
// buffer, prompt, cursor, preview flag, and binding table, layered over a
// Haystack and its Ranker. All methods are safe for concurrent use by both
// the TUI event loop and an RPC dispatcher.
type PickerState struct {
	mu       sync.Mutex
	hs       *haystack.Haystack
	reg      *haystack.Registry
	rk       *ranker.Ranker
	bindings *Bindings
	sink     EventSink

	query        string
	prompt       string
	promptIcon   string
	previewShown bool
	keepOrder    bool
	scorerName   string
	pageSize     int

	cursorItemID uint64
	hasCursor    bool

	terminated bool
	done       chan struct{}
}

// NewPickerState builds a PickerState over hs/rk and starts the goroutine
// that re-clamps the cursor on every ranker publication.
func NewPickerState(hs *haystack.Haystack, rk *ranker.Ranker) *PickerState {
	ps := &PickerState{
		hs:         hs,
		reg:        haystack.NewRegistry(),
		rk:         rk,
		bindings:   NewBindings(),
		sink:       noopSink{},
		scorerName: "fuzzy",
		pageSize:   10,
		done:       make(chan struct{}),
	}
	go ps.watchPublishes()
	return ps
}

// Registry returns the field-template registry backing field_register.
func (ps *PickerState) Registry() *haystack.Registry { return ps.reg }

// Bindings returns the chord trie so a caller (e.g. the TUI model) can
// feed raw key input through it directly.
func (ps *PickerState) Bindings() *Bindings { return ps.bindings }

// SetEventSink installs the receiver of select/bind/terminate events.
func (ps *PickerState) SetEventSink(sink EventSink) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if sink == nil {
		sink = noopSink{}
	}
	ps.sink = sink
}

// SetPageSize configures how many rows CursorPage moves by.
func (ps *PickerState) SetPageSize(n int) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if n > 0 {
		ps.pageSize = n
	}
}

func (ps *PickerState) watchPublishes() {
	for {
		select {
		case <-ps.done:
			return
		case <-ps.rk.Published():
			ps.mu.Lock()
			ps.reclampCursorLocked()
			ps.mu.Unlock()
		}
	}
}

// reclampCursorLocked implements the cursor-preservation rule: if the item
// under the cursor is still present in the freshly published view, the
// cursor follows it; otherwise it moves to the first row of the new view,
// regardless of where it was before.
func (ps *PickerState) reclampCursorLocked() {
	view := ps.rk.View()
	if view.Len() == 0 {
		ps.hasCursor = false
		return
	}
	if ps.hasCursor {
		if _, ok := view.FindByItemID(ps.cursorItemID); ok {
			return
		}
	}
	idx := 0
	if entry, ok := view.Get(idx); ok {
		ps.cursorItemID = entry.Item.ID
		ps.hasCursor = true
	}
}

// QuerySet updates the query and sends it to the ranker as the new needle.
func (ps *PickerState) QuerySet(q string) {
	ps.mu.Lock()
	ps.query = q
	ps.mu.Unlock()
	ps.rk.SetNeedle(q)
}

// QueryGet returns the current query.
func (ps *PickerState) QueryGet() string {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.query
}

// ItemsExtend appends items to the haystack.
func (ps *PickerState) ItemsExtend(items []haystack.Item) { ps.hs.Extend(items) }

// ItemsClear resets the haystack and drops the cursor.
func (ps *PickerState) ItemsClear() {
	ps.hs.Clear()
	ps.mu.Lock()
	ps.hasCursor = false
	ps.mu.Unlock()
}

// ItemsCurrent returns the item at the cursor in the latest published
// view: the row CursorIndex reports, so the first row when no cursor has
// been placed or its item has left the view. A caller racing a
// just-issued QuerySet may transiently observe the item from before that
// query bump; Sync (via the Ranker) is available to block for the next
// publication when that is unacceptable.
func (ps *PickerState) ItemsCurrent() (haystack.Item, bool) {
	ps.mu.Lock()
	id, has := ps.cursorItemID, ps.hasCursor
	ps.mu.Unlock()
	view := ps.rk.View()
	idx := 0
	if has {
		if i, ok := view.FindByItemID(id); ok {
			idx = i
		}
	}
	entry, ok := view.Get(idx)
	if !ok {
		return haystack.Item{}, false
	}
	return entry.Item, true
}

// CursorIndex returns the cursor's position in the latest published view,
// or 0 if the view is empty.
func (ps *PickerState) CursorIndex() int {
	ps.mu.Lock()
	id, has := ps.cursorItemID, ps.hasCursor
	ps.mu.Unlock()
	if !has {
		return 0
	}
	view := ps.rk.View()
	idx, ok := view.FindByItemID(id)
	if !ok {
		return 0
	}
	return idx
}

func (ps *PickerState) setCursorToIndex(view *ranker.View, idx int) {
	if view.Len() == 0 {
		ps.mu.Lock()
		ps.hasCursor = false
		ps.mu.Unlock()
		return
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= view.Len() {
		idx = view.Len() - 1
	}
	entry, ok := view.Get(idx)
	if !ok {
		return
	}
	ps.mu.Lock()
	ps.cursorItemID = entry.Item.ID
	ps.hasCursor = true
	ps.mu.Unlock()
}

// CursorMove shifts the cursor by delta rows, clamped to the view bounds.
func (ps *PickerState) CursorMove(delta int) {
	view := ps.rk.View()
	ps.setCursorToIndex(view, ps.CursorIndex()+delta)
}

// CursorPage shifts the cursor by delta pages.
func (ps *PickerState) CursorPage(delta int) {
	ps.mu.Lock()
	page := ps.pageSize
	ps.mu.Unlock()
	ps.CursorMove(delta * page)
}

// CursorHome moves the cursor to the first row.
func (ps *PickerState) CursorHome() { ps.setCursorToIndex(ps.rk.View(), 0) }

// CursorEnd moves the cursor to the last row.
func (ps *PickerState) CursorEnd() { ps.setCursorToIndex(ps.rk.View(), ps.rk.View().Len()-1) }

// PromptSet sets the prompt text and optional icon.
func (ps *PickerState) PromptSet(text, icon string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.prompt = text
	ps.promptIcon = icon
}

// Prompt returns the current prompt text and icon.
func (ps *PickerState) Prompt() (text, icon string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.prompt, ps.promptIcon
}

// PreviewSet toggles (show == nil) or sets the preview pane visibility.
func (ps *PickerState) PreviewSet(show *bool) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if show == nil {
		ps.previewShown = !ps.previewShown
	} else {
		ps.previewShown = *show
	}
}

// PreviewShown reports whether the preview pane is visible.
func (ps *PickerState) PreviewShown() bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.previewShown
}

// SetKeepOrder sets (non-nil) or toggles (nil) keep-order mode.
func (ps *PickerState) SetKeepOrder(toggle *bool) {
	ps.mu.Lock()
	if toggle == nil {
		ps.keepOrder = !ps.keepOrder
	} else {
		ps.keepOrder = *toggle
	}
	ps.mu.Unlock()
	ps.rk.SetKeepOrder(toggle)
}

// ScorerNext cycles to the next scorer in scorer.BuilderNames.
func (ps *PickerState) ScorerNext() string {
	ps.mu.Lock()
	next := scorer.NextBuilderName(ps.scorerName)
	ps.scorerName = next
	ps.mu.Unlock()
	ps.rk.SetScorer(next)
	return next
}

// SetScorer switches to the named scorer.
func (ps *PickerState) SetScorer(name string) {
	ps.mu.Lock()
	ps.scorerName = name
	ps.mu.Unlock()
	ps.rk.SetScorer(name)
}

// Bind installs or removes a chord-sequence binding.
func (ps *PickerState) Bind(sequence, tag string) error { return ps.bindings.Bind(sequence, tag) }

// Terminate requests event-loop exit. Idempotent.
func (ps *PickerState) Terminate() {
	ps.mu.Lock()
	if ps.terminated {
		ps.mu.Unlock()
		return
	}
	ps.terminated = true
	sink := ps.sink
	ps.mu.Unlock()
	close(ps.done)
	sink.OnTerminate()
}

// HandleChord feeds one chord through the binding trie and dispatches the
// resulting action, if any. When the chord matches no binding and isn't
// part of a pending prefix, literal (the printable text of the keystroke,
// possibly empty) is returned for the caller to insert into the query.
func (ps *PickerState) HandleChord(chord, literal string) (action string, insertLiteral string) {
	tag, matched, pending := ps.bindings.Feed(chord)
	if pending {
		return "", ""
	}
	if !matched {
		return "", literal
	}
	ps.dispatch(tag)
	return tag, ""
}

func (ps *PickerState) dispatch(tag string) {
	if !builtinActions[tag] {
		ps.mu.Lock()
		sink := ps.sink
		ps.mu.Unlock()
		sink.OnBind(tag)
		return
	}

	switch tag {
	case ActionSelect:
		if item, ok := ps.ItemsCurrent(); ok {
			ps.mu.Lock()
			sink := ps.sink
			ps.mu.Unlock()
			sink.OnSelect(item)
		}
	case ActionQuit:
		ps.Terminate()
	case ActionScorerNext:
		ps.ScorerNext()
	case ActionPreviewToggle:
		ps.PreviewSet(nil)
	case ActionListNext:
		ps.CursorMove(1)
	case ActionListPrev:
		ps.CursorMove(-1)
	case ActionPageNext:
		ps.CursorPage(1)
	case ActionPagePrev:
		ps.CursorPage(-1)
	case ActionListHome:
		ps.CursorHome()
	case ActionListEnd:
		ps.CursorEnd()
	case ActionDeleteBack:
		ps.deleteBack()
	case ActionDeleteWord:
		ps.deleteWord()
	case ActionDeleteLine:
		ps.QuerySet("")
	}
}

func (ps *PickerState) deleteBack() {
	runes := []rune(ps.QueryGet())
	if len(runes) == 0 {
		return
	}
	ps.QuerySet(string(runes[:len(runes)-1]))
}

func (ps *PickerState) deleteWord() {
	runes := []rune(ps.QueryGet())
	i := len(runes)
	for i > 0 && runes[i-1] == ' ' {
		i--
	}
	for i > 0 && runes[i-1] != ' ' {
		i--
	}
	ps.QuerySet(string(runes[:i]))
}

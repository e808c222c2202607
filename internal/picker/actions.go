package picker

// Built-in action tags. bind() may also target an arbitrary user string,
// which instead of being dispatched internally is emitted as a "bind"
// event to any RPC peer.
const (
	ActionSelect        = "sweep.select"
	ActionQuit          = "sweep.quit"
	ActionHelp          = "sweep.help"
	ActionScorerNext    = "sweep.scorer.next"
	ActionPreviewToggle = "sweep.preview.toggle"

	ActionMoveLeft  = "input.move.left"
	ActionMoveRight = "input.move.right"
	ActionMoveHome  = "input.move.home"
	ActionMoveEnd   = "input.move.end"

	ActionDeleteBack = "input.delete.back"
	ActionDeleteWord = "input.delete.word"
	ActionDeleteLine = "input.delete.line"

	ActionListNext = "list.item.next"
	ActionListPrev = "list.item.prev"
	ActionPageNext = "list.page.next"
	ActionPagePrev = "list.page.prev"
	ActionListHome = "list.home"
	ActionListEnd  = "list.end"
)

// builtinActions is the set of tags dispatched internally by the picker
// rather than surfaced as a "bind" event to an RPC peer.
var builtinActions = map[string]bool{
	ActionSelect:        true,
	ActionQuit:          true,
	ActionHelp:          true,
	ActionScorerNext:    true,
	ActionPreviewToggle: true,
	ActionMoveLeft:      true,
	ActionMoveRight:     true,
	ActionMoveHome:      true,
	ActionMoveEnd:       true,
	ActionDeleteBack:    true,
	ActionDeleteWord:    true,
	ActionDeleteLine:    true,
	ActionListNext:      true,
	ActionListPrev:      true,
	ActionPageNext:      true,
	ActionPagePrev:      true,
	ActionListHome:      true,
	ActionListEnd:       true,
}

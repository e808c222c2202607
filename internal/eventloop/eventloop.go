// Package eventloop is the event loop (C6): it multiplexes TTY input,
// RPC peer I/O, and ranker publications into a single running picker.
// TTY input rides Bubble Tea's own runtime loop; this package's own job is to
// run the RPC peer concurrently with it (or standalone in headless mode)
// and translate RPC requests into picker.PickerState calls.
package eventloop

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wrungel/sweep/internal/haystack"
	"github.com/wrungel/sweep/internal/picker"
	"github.com/wrungel/sweep/internal/rpc"
)

// Loop owns an optional Bubble Tea program (nil in headless RPC-only mode)
// and an optional RPC peer (nil when --rpc was not requested), both driving
// the same PickerState.
type Loop struct {
	ps      *picker.PickerState
	program *tea.Program
	peer    *rpc.Peer

	mu       sync.Mutex
	selected haystack.Item
	hasSel   bool
	quit     chan struct{}
	quitOnce sync.Once
}

// New builds a Loop. program may be nil for a headless RPC-only run; peer
// may be nil when RPC was not requested.
func New(ps *picker.PickerState, program *tea.Program, peer *rpc.Peer) *Loop {
	l := &Loop{ps: ps, program: program, peer: peer, quit: make(chan struct{})}
	ps.SetEventSink(l)
	if peer != nil {
		registerHandlers(ps, peer, l)
	}
	return l
}

// OnSelect implements picker.EventSink. In RPC mode selection only emits the
// "select" event; the peer keeps serving until the client disconnects or
// sends its own quit request. Without a peer, selection ends the run.
func (l *Loop) OnSelect(item haystack.Item) {
	l.mu.Lock()
	l.selected, l.hasSel = item, true
	l.mu.Unlock()
	if l.peer != nil {
		_ = l.peer.EmitEvent("select", item)
		return
	}
	l.requestQuit()
}

// OnBind implements picker.EventSink: a non-builtin action tag fired.
func (l *Loop) OnBind(tag string) {
	if l.peer != nil {
		_ = l.peer.EmitEvent("bind", tag)
	}
}

// OnTerminate implements picker.EventSink.
func (l *Loop) OnTerminate() { l.requestQuit() }

func (l *Loop) requestQuit() {
	l.quitOnce.Do(func() { close(l.quit) })
	if l.program != nil {
		l.program.Quit()
	}
}

// Selected returns the item chosen via ActionSelect, if any.
func (l *Loop) Selected() (haystack.Item, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.selected, l.hasSel
}

// Run drives the picker to completion: the Bubble Tea program if present,
// the RPC peer concurrently if present, blocking until both finish.
func (l *Loop) Run() error {
	var peerErr error
	var wg sync.WaitGroup
	if l.peer != nil {
		_ = l.peer.EmitEvent("ready", true)
		wg.Add(1)
		go func() {
			defer wg.Done()
			peerErr = l.peer.Run()
			l.requestQuit()
		}()
	}

	var progErr error
	if l.program != nil {
		_, progErr = l.program.Run()
	} else {
		<-l.quit
	}

	if l.peer != nil {
		wg.Wait()
	}
	if progErr != nil {
		return progErr
	}
	return peerErr
}

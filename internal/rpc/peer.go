package rpc

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Handler answers one RPC method call. Returning a non-nil *Error reports
// a protocol/user error to the caller without tearing down the peer.
type Handler func(params json.RawMessage) (json.RawMessage, *Error)

// Peer serves one JSON-RPC connection: it dispatches inbound requests to
// registered handlers, serially and in arrival order, and lets the owner
// emit id-less events (ready, select, bind) that may interleave freely
// with responses. All writes to the underlying Framer are serialized.
type Peer struct {
	framer   Framer
	handlers map[string]Handler
	writeMu  sync.Mutex
}

// NewPeer creates a Peer over framer with no methods registered yet.
func NewPeer(framer Framer) *Peer {
	return &Peer{framer: framer, handlers: make(map[string]Handler)}
}

// Handle registers a method handler. Call before Run.
func (p *Peer) Handle(method string, h Handler) { p.handlers[method] = h }

// EmitEvent sends an id-less notification such as ready, select, or bind.
func (p *Peer) EmitEvent(method string, params any) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("rpc: marshal event %s: %w", method, err)
	}
	return p.writeMessage(Notification(method, raw))
}

// Run reads and dispatches messages until the framer returns an error
// (EOF on graceful close, or a decode failure that terminates the peer per
// the "malformed JSON closes the peer" contract). It returns nil on a
// clean EOF.
func (p *Peer) Run() error {
	for {
		raw, readErr := p.framer.ReadMessage()
		if len(raw) > 0 {
			var msg Message
			if jsonErr := json.Unmarshal(raw, &msg); jsonErr != nil {
				return fmt.Errorf("rpc: malformed message: %w", jsonErr)
			}
			p.dispatch(msg)
		}
		if readErr != nil {
			if readErr == io.EOF {
				return nil
			}
			return readErr
		}
	}
}

func (p *Peer) dispatch(msg Message) {
	handler, ok := p.handlers[msg.Method]
	if !ok {
		if msg.IsRequest() {
			_ = p.writeMessage(errorMessage(msg.ID, ErrMethodNotFound(msg.Method)))
		}
		return
	}

	res, rpcErr := handler(msg.Params)
	if !msg.IsRequest() {
		return // notification: caller gets no response regardless of outcome
	}
	if rpcErr != nil {
		_ = p.writeMessage(errorMessage(msg.ID, rpcErr))
		return
	}
	_ = p.writeMessage(result(msg.ID, res))
}

func (p *Peer) writeMessage(msg Message) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("rpc: marshal response: %w", err)
	}
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return p.framer.WriteMessage(raw)
}

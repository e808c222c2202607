package eventloop

import (
	"encoding/json"
	"fmt"

	"github.com/wrungel/sweep/internal/haystack"
	"github.com/wrungel/sweep/internal/picker"
	"github.com/wrungel/sweep/internal/rpc"
)

// marshalResult marshals v into a JSON-RPC result, converting any
// marshaling failure into an internal error.
func marshalResult(v any) (json.RawMessage, *rpc.Error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, rpc.ErrInternal(err.Error())
	}
	return b, nil
}

// registerHandlers wires the JSON-RPC method table onto
// ps: field_register, items_extend, items_clear, items_current, query_set,
// query_get, prompt_set, bind, preview_set, terminate.
func registerHandlers(ps *picker.PickerState, peer *rpc.Peer, l *Loop) {
	peer.Handle("field_register", func(raw json.RawMessage) (json.RawMessage, *rpc.Error) {
		var f haystack.Field
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, rpc.ErrInvalidParams(err.Error())
		}
		ref := ps.Registry().Register(f)
		return marshalResult(ref)
	})

	peer.Handle("items_extend", func(raw json.RawMessage) (json.RawMessage, *rpc.Error) {
		var items []haystack.Item
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, rpc.ErrInvalidParams(err.Error())
		}
		ps.ItemsExtend(items)
		return marshalResult(len(items))
	})

	peer.Handle("items_clear", func(raw json.RawMessage) (json.RawMessage, *rpc.Error) {
		ps.ItemsClear()
		return marshalResult(true)
	})

	peer.Handle("items_current", func(raw json.RawMessage) (json.RawMessage, *rpc.Error) {
		item, ok := ps.ItemsCurrent()
		if !ok {
			return marshalResult(nil)
		}
		return marshalResult(item)
	})

	peer.Handle("query_set", func(raw json.RawMessage) (json.RawMessage, *rpc.Error) {
		var q string
		if err := json.Unmarshal(raw, &q); err != nil {
			return nil, rpc.ErrInvalidParams(err.Error())
		}
		ps.QuerySet(q)
		return marshalResult(true)
	})

	peer.Handle("query_get", func(raw json.RawMessage) (json.RawMessage, *rpc.Error) {
		return marshalResult(ps.QueryGet())
	})

	peer.Handle("prompt_set", func(raw json.RawMessage) (json.RawMessage, *rpc.Error) {
		var p struct {
			Text string `json:"text"`
			Icon string `json:"icon"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, rpc.ErrInvalidParams(err.Error())
		}
		ps.PromptSet(p.Text, p.Icon)
		return marshalResult(true)
	})

	peer.Handle("bind", func(raw json.RawMessage) (json.RawMessage, *rpc.Error) {
		var b struct {
			Key string `json:"key"`
			Tag string `json:"tag"`
		}
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, rpc.ErrInvalidParams(err.Error())
		}
		if err := ps.Bind(b.Key, b.Tag); err != nil {
			return nil, rpc.ErrInvalidParams(fmt.Sprintf("bad chord syntax: %v", err))
		}
		return marshalResult(true)
	})

	peer.Handle("preview_set", func(raw json.RawMessage) (json.RawMessage, *rpc.Error) {
		var show *bool
		if err := json.Unmarshal(raw, &show); err != nil {
			return nil, rpc.ErrInvalidParams(err.Error())
		}
		ps.PreviewSet(show)
		return marshalResult(true)
	})

	peer.Handle("terminate", func(raw json.RawMessage) (json.RawMessage, *rpc.Error) {
		l.OnTerminate()
		return marshalResult(true)
	})
}

package rpc

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeer_DispatchesRegisteredMethod(t *testing.T) {
	var in bytes.Buffer
	var out bytes.Buffer
	in.WriteString(`{"jsonrpc":"2.0","id":1,"method":"echo","params":"hi"}` + "\n")

	peer := NewPeer(NewNewlineFramer(&in, &out, 0))
	peer.Handle("echo", func(params json.RawMessage) (json.RawMessage, *Error) {
		return params, nil
	})

	require.NoError(t, peer.Run())

	var resp Message
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &resp))
	assert.Nil(t, resp.Error)
	assert.Equal(t, `"hi"`, string(resp.Result))
}

func TestPeer_UnknownMethodReturnsMethodNotFound(t *testing.T) {
	var in bytes.Buffer
	var out bytes.Buffer
	in.WriteString(`{"jsonrpc":"2.0","id":1,"method":"nope"}` + "\n")

	peer := NewPeer(NewNewlineFramer(&in, &out, 0))
	require.NoError(t, peer.Run())

	var resp Message
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeMethodNotFound, resp.Error.Code)
}

func TestPeer_MalformedJSONReturnsError(t *testing.T) {
	var in bytes.Buffer
	var out bytes.Buffer
	in.WriteString("not json\n")

	peer := NewPeer(NewNewlineFramer(&in, &out, 0))
	assert.Error(t, peer.Run())
}

func TestPeer_EmitEventWritesNotification(t *testing.T) {
	var out bytes.Buffer
	peer := NewPeer(NewNewlineFramer(bytes.NewReader(nil), &out, 0))

	require.NoError(t, peer.EmitEvent("ready", "1.0"))

	var msg Message
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &msg))
	assert.Equal(t, "ready", msg.Method)
	assert.Empty(t, msg.ID)
}

func TestLengthFramer_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewLengthFramer(nil, &buf, 0)
	require.NoError(t, w.WriteMessage([]byte(`{"a":1}`)))

	r := NewLengthFramer(&buf, nil, 0)
	msg, err := r.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(msg))
}

package eventloop

import (
	"bufio"
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrungel/sweep/internal/haystack"
	"github.com/wrungel/sweep/internal/picker"
	"github.com/wrungel/sweep/internal/ranker"
	"github.com/wrungel/sweep/internal/rpc"
)

// newLoopedPeer wires a Loop's RPC peer to one end of an in-memory duplex
// pipe, returning the client-facing writer/reader for the other end.
func newLoopedPeer(t *testing.T, ps *picker.PickerState) (*Loop, *bufio.Writer, *bufio.Reader) {
	t.Helper()
	serverConn, clientConn := net.Pipe()
	t.Cleanup(func() { _ = serverConn.Close(); _ = clientConn.Close() })

	serverFramer := rpc.NewNewlineFramer(serverConn, serverConn, 0)
	peer := rpc.NewPeer(serverFramer)
	loop := New(ps, nil, peer)

	go func() { _ = loop.Run() }()

	return loop, bufio.NewWriter(clientConn), bufio.NewReader(clientConn)
}

func TestLoop_ItemsExtendThenQuerySetRoundTrips(t *testing.T) {
	hs := haystack.New(8)
	rk := ranker.New(hs)
	t.Cleanup(rk.Stop)
	ps := picker.NewPickerState(hs, rk)

	_, w, r := newLoopedPeer(t, ps)
	readLine(t, r) // ready event

	send(t, w, `{"jsonrpc":"2.0","id":1,"method":"items_extend","params":[{"target":[{"text":"abc","active":true}]}]}`)
	readLine(t, r) // items_extend response

	send(t, w, `{"jsonrpc":"2.0","id":2,"method":"query_set","params":"a"}`)
	readLine(t, r)

	send(t, w, `{"jsonrpc":"2.0","id":3,"method":"query_get"}`)
	line := readLine(t, r)
	assert.Contains(t, string(line), `"result":"a"`)
}

func send(t *testing.T, w *bufio.Writer, s string) {
	t.Helper()
	_, err := w.WriteString(s + "\n")
	require.NoError(t, err)
	require.NoError(t, w.Flush())
}

func readLine(t *testing.T, r *bufio.Reader) []byte {
	t.Helper()
	done := make(chan struct{})
	var line []byte
	var err error
	go func() {
		line, err = r.ReadBytes('\n')
		close(done)
	}()
	select {
	case <-done:
		require.NoError(t, err)
		return bytes.TrimRight(line, "\n")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a line")
		return nil
	}
}

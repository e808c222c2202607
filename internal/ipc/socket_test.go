package ipc

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenIOSocket_ListensOnPath(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "sweep.sock")

	serverErr := make(chan error, 1)
	var serverConn net.Conn
	go func() {
		var err error
		serverConn, err = OpenIOSocket(sockPath)
		serverErr <- err
	}()

	require.Eventually(t, func() bool {
		_, err := os.Stat(sockPath)
		return err == nil
	}, time.Second, 5*time.Millisecond)

	client, err := net.Dial("unix", sockPath)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, <-serverErr)
	require.NotNil(t, serverConn)
	defer serverConn.Close()

	_, err = client.Write([]byte("ping"))
	require.NoError(t, err)
	buf := make([]byte, 4)
	_, err = serverConn.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf))
}

func TestOpenIOSocket_RejectsUnusableFD(t *testing.T) {
	_, err := OpenIOSocket("fd:999999")
	assert.Error(t, err)
}

// Package ipc opens the local stream a Sweep peer talks JSON-RPC over: a
// UNIX-domain socket path or an inherited file descriptor, per --io-socket.
package ipc

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

// OpenIOSocket resolves --io-socket's PATH-OR-FD argument into a
// bidirectional stream. A purely numeric spec, or one prefixed "fd:", is
// treated as an inherited file descriptor. Anything else is a filesystem
// path: Sweep listens on it, accepts exactly one peer, and closes the
// listener, matching the "local stream, trusted peer" contract.
func OpenIOSocket(spec string) (net.Conn, error) {
	if fd, ok := parseFD(spec); ok {
		return fdConn(fd)
	}
	return listenAndAccept(spec)
}

func parseFD(spec string) (int, bool) {
	s := strings.TrimPrefix(spec, "fd:")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func fdConn(fd int) (net.Conn, error) {
	f := os.NewFile(uintptr(fd), fmt.Sprintf("io-socket-fd-%d", fd))
	if f == nil {
		return nil, fmt.Errorf("ipc: invalid file descriptor %d", fd)
	}
	conn, err := net.FileConn(f)
	if err != nil {
		return nil, fmt.Errorf("ipc: fd %d is not a socket: %w", fd, err)
	}
	// net.FileConn dups the fd; the caller's copy can be released.
	_ = f.Close()
	return conn, nil
}

func listenAndAccept(path string) (net.Conn, error) {
	_ = os.Remove(path) // stale socket from a prior run
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("ipc: listen on %s: %w", path, err)
	}
	defer func() {
		ln.Close()
		_ = os.Remove(path)
	}()

	conn, err := ln.Accept()
	if err != nil {
		return nil, fmt.Errorf("ipc: accept on %s: %w", path, err)
	}
	return conn, nil
}

//go:build windows

package reactor

import (
	"errors"
	"net"
	"syscall"
)

type syscallConner interface {
	SyscallConn() (syscall.RawConn, error)
}

var errNotSyscallConn = errors.New("reactor: connection does not expose a raw socket handle")

// createWakePair opens a loopback TCP connection and returns both ends'
// raw socket handles. Windows' select() only accepts SOCKET handles, so
// the Unix self-pipe trick does not translate directly; a connected
// loopback socket pair plays the same role.
func createWakePair() (int, int, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return -1, -1, err
	}
	defer ln.Close()

	acceptErr := make(chan error, 1)
	var serverConn net.Conn
	go func() {
		c, err := ln.Accept()
		serverConn = c
		acceptErr <- err
	}()

	clientConn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		return -1, -1, err
	}
	if err := <-acceptErr; err != nil {
		clientConn.Close()
		return -1, -1, err
	}

	readFD, err := socketHandle(serverConn)
	if err != nil {
		clientConn.Close()
		serverConn.Close()
		return -1, -1, err
	}
	writeFD, err := socketHandle(clientConn)
	if err != nil {
		clientConn.Close()
		serverConn.Close()
		return -1, -1, err
	}
	return readFD, writeFD, nil
}

// socketHandle extracts the raw SOCKET handle backing a net.Conn, so it
// can be registered directly with the select()-based poll backend.
func socketHandle(c net.Conn) (int, error) {
	sc, ok := c.(syscallConner)
	if !ok {
		return -1, errNotSyscallConn
	}
	rc, err := sc.SyscallConn()
	if err != nil {
		return -1, err
	}
	var fd int
	ctrlErr := rc.Control(func(h uintptr) {
		fd = int(h)
	})
	if ctrlErr != nil {
		return -1, ctrlErr
	}
	return fd, nil
}

func writeWake(fd int) error {
	var buf [1]byte
	_, err := writeFD(fd, buf[:])
	return err
}

func drainWake(fd int) {
	var buf [64]byte
	for {
		n, err := readFD(fd, buf[:])
		if err != nil || n == 0 {
			return
		}
	}
}

func closeWakePair(readFD, writeFD int) error {
	_ = closeFD(writeFD)
	return closeFD(readFD)
}

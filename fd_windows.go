//go:build windows

package reactor

import "golang.org/x/sys/windows"

func closeFD(fd int) error { return windows.Closesocket(windows.Handle(fd)) }

func readFD(fd int, buf []byte) (int, error) {
	return windows.Recv(windows.Handle(fd), buf, 0)
}

func writeFD(fd int, buf []byte) (int, error) {
	return windows.Send(windows.Handle(fd), buf, 0)
}

//go:build unix && !linux

package reactor

import "golang.org/x/sys/unix"

// createWakePair opens a non-blocking self-pipe: the classic wake
// mechanism on platforms without eventfd.
func createWakePair() (int, int, error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		return -1, -1, err
	}
	return fds[0], fds[1], nil
}

func writeWake(fd int) error {
	var buf [1]byte
	_, err := unix.Write(fd, buf[:])
	if err == unix.EAGAIN {
		// The pipe buffer already holds an unread byte; a wake-up is
		// already pending, so coalesce rather than retry.
		return nil
	}
	return err
}

func drainWake(fd int) {
	var buf [64]byte
	for {
		if _, err := unix.Read(fd, buf[:]); err != nil {
			return
		}
	}
}

func closeWakePair(readFD, writeFD int) error {
	_ = unix.Close(writeFD)
	return unix.Close(readFD)
}

//go:build linux

package reactor

import "golang.org/x/sys/unix"

// createWakePair returns the same fd twice: a Linux eventfd is both the
// read and write end of the channel.
func createWakePair() (int, int, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return -1, -1, err
	}
	return fd, fd, nil
}

func writeWake(fd int) error {
	var buf [8]byte
	buf[7] = 1
	_, err := unix.Write(fd, buf[:])
	if err == unix.EAGAIN {
		// A write already raised the counter above zero; the pending
		// wake-up has not yet been drained, so there is nothing to do.
		return nil
	}
	return err
}

func drainWake(fd int) {
	var buf [8]byte
	for {
		if _, err := unix.Read(fd, buf[:]); err != nil {
			return
		}
	}
}

func closeWakePair(readFD, writeFD int) error {
	return unix.Close(readFD)
}

//go:build unix

package sys

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

const sigWINCH = unix.SIGWINCH

func winSize(file *os.File) (row, col int) {
	ws, err := unix.IoctlGetWinsize(int(file.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return -1, -1
	}
	return int(ws.Row), int(ws.Col)
}

// WaitForRead blocks until one of the files can be read without blocking, or
// the timeout expires. A negative timeout waits forever. The result tells
// which files are ready; a file whose other end was closed counts as ready.
//
// A poll interrupted by a signal fails with unix.EINTR.
func WaitForRead(timeout time.Duration, files ...*os.File) ([]bool, error) {
	pollFds := make([]unix.PollFd, len(files))
	for i, file := range files {
		pollFds[i] = unix.PollFd{Fd: int32(file.Fd()), Events: unix.POLLIN}
	}
	ms := -1
	if timeout >= 0 {
		ms = int(timeout.Milliseconds())
	}
	ready := make([]bool, len(files))
	if _, err := unix.Poll(pollFds, ms); err != nil {
		return ready, err
	}
	for i, pfd := range pollFds {
		ready[i] = pfd.Revents&(unix.POLLIN|unix.POLLHUP) != 0
	}
	return ready, nil
}

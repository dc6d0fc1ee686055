//go:build unix

package term

import (
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"src.wl.sh/pkg/sys"
)

// NewReader returns a Reader on a terminal file.
func NewReader(f *os.File) (Reader, error) {
	rStop, wStop, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	return &pollReader{file: f, rStop: rStop, wStop: wStop}, nil
}

// Polls the terminal together with a pipe that Close writes to, and buffers
// what each read returns.
type pollReader struct {
	file  *os.File
	rStop *os.File
	wStop *os.File

	// Held by ReadEvent.
	mu      sync.Mutex
	closed  bool
	buf     [64]byte
	pending []byte
}

func (r *pollReader) ReadEvent() (Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrStopped
	}
	return readEvent(r)
}

func (r *pollReader) ReadByteWithTimeout(timeout time.Duration) (byte, error) {
	for len(r.pending) == 0 {
		ready, err := sys.WaitForRead(timeout, r.file, r.rStop)
		if err == unix.EINTR {
			continue
		} else if err != nil {
			return 0, err
		}
		switch {
		case ready[1]:
			return 0, ErrStopped
		case !ready[0]:
			return 0, errTimeout
		}
		n, err := r.file.Read(r.buf[:])
		if err != nil {
			return 0, err
		}
		if n == 0 {
			return 0, io.ErrNoProgress
		}
		r.pending = r.buf[:n]
	}
	b := r.pending[0]
	r.pending = r.pending[1:]
	return b, nil
}

func (r *pollReader) Close() {
	r.wStop.Write([]byte{'q'})
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.rStop.Close()
	r.wStop.Close()
}

package term

import (
	"errors"
	"fmt"
	"time"
)

// Reader reads events from the terminal.
type Reader interface {
	// ReadEvent reads a single event from the terminal.
	ReadEvent() (Event, error)
	// Close aborts a pending ReadEvent and releases resources. It does not
	// close the terminal file. ReadEvent returns ErrStopped afterwards.
	Close()
}

// ErrStopped is returned by ReadEvent once the Reader is closed.
var ErrStopped = errors.New("stopped")

var errTimeout = errors.New("timed out")

// An undecodable byte sequence.
type seqError struct {
	msg string
	seq string
}

func (err seqError) Error() string {
	return fmt.Sprintf("%s: %q", err.msg, err.seq)
}

// IsReadErrorRecoverable returns whether the Reader can still be used after
// returning err. Malformed sequences and timeouts are recoverable.
func IsReadErrorRecoverable(err error) bool {
	if _, ok := err.(seqError); ok {
		return true
	}
	return err == errTimeout
}

// What the decoder reads from. A negative timeout waits forever; when the
// timeout expires the error is errTimeout.
type byteReaderWithTimeout interface {
	ReadByteWithTimeout(timeout time.Duration) (byte, error)
}

//go:build !unix

package sys

import (
	"errors"
	"os"
	"syscall"
	"time"
)

// Never delivered on this platform.
const sigWINCH = syscall.Signal(-1)

func winSize(file *os.File) (row, col int) { return -1, -1 }

// ErrNotSupported is returned by functions that have no implementation on
// this platform.
var ErrNotSupported = errors.New("not supported on this platform")

// WaitForRead is not supported on this platform.
func WaitForRead(timeout time.Duration, files ...*os.File) ([]bool, error) {
	return make([]bool, len(files)), ErrNotSupported
}

// Package sys provides the system interfaces of the terminal front-end:
// detecting terminals and their sizes, waiting for input and dumping stacks.
package sys

import (
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
)

// IsATTY reports whether file refers to a terminal, including the pipes that
// Cygwin and MSYS2 terminals use.
func IsATTY(file *os.File) bool {
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Size assumed for a dimension that a terminal reports as zero, like serial
// consoles do.
const (
	fallbackRows = 24
	fallbackCols = 80
)

// WinSize returns the number of rows and columns of the terminal referenced by
// file. It returns -1, -1 if file is not a terminal.
func WinSize(file *os.File) (row, col int) {
	row, col = winSize(file)
	if row == 0 {
		row = fallbackRows
	}
	if col == 0 {
		col = fallbackCols
	}
	return row, col
}

// SIGWINCH is the window size change signal. It is never delivered on
// platforms without one.
const SIGWINCH = sigWINCH

// DumpStack returns the stack traces of all goroutines.
func DumpStack() string {
	for size := 8 << 10; ; size *= 2 {
		buf := make([]byte, size)
		if n := runtime.Stack(buf, true); n < size {
			return string(buf[:n])
		}
	}
}

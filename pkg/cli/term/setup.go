package term

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"src.wl.sh/pkg/diag"
)

const (
	// Disable autowrap; BufferBuilder wraps lines itself.
	disableAutowrap = "\033[?7l"
	enableAutowrap  = "\033[?7h"
)

// Setup puts the terminal in raw mode so that it is suitable for the Reader
// and Writer to use. It returns a function that restores the original
// terminal configuration.
//
// In raw mode the terminal driver does not translate CR to LF or generate
// signals, so Enter arrives as Ctrl-M and Ctrl-C arrives as a key.
func Setup(in, out *os.File) (func() error, error) {
	fd := int(in.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("can't set up terminal: %w", err)
	}
	_, errVT := out.WriteString(disableAutowrap)
	restore := func() error {
		_, errVT := out.WriteString(enableAutowrap)
		return diag.Errors(term.Restore(fd, state), errVT)
	}
	return restore, errVT
}

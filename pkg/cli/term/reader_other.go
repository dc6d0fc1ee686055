//go:build !unix

package term

import (
	"os"

	"src.wl.sh/pkg/sys"
)

// NewReader returns an error on this platform.
func NewReader(f *os.File) (Reader, error) {
	return nil, sys.ErrNotSupported
}

package store

import (
	"path/filepath"

	"src.wl.sh/pkg/must"
	"src.wl.sh/pkg/testutil"
)

// MustTempStore returns a Store backed by a file in a temporary directory.
// The Store is closed when the test finishes.
func MustTempStore(c testutil.Cleanuper) *Store {
	st := must.OK1(Open(filepath.Join(testutil.TempDir(c), "history.db")))
	c.Cleanup(func() { st.Close() })
	return st
}

package shell

import (
	"os"
	"path/filepath"
	"strings"
)

// Returns the path of the history database, expanding a leading "~/" to the
// home directory. The directory containing the database is created if it
// doesn't exist yet.
func historyDBPath(p string) (string, error) {
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(home, p[2:])
	}
	err := os.MkdirAll(filepath.Dir(p), 0700)
	if err != nil {
		return "", err
	}
	return p, nil
}

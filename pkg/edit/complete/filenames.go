package complete

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var pathSeparator = string(filepath.Separator)

// Generates the files matching seed. A leading "~/" refers to the home
// directory and is kept in the inserted text.
func generateFileNames(seed string) ([]Item, error) {
	dir, filePrefix := splitPath(seed)
	dirToRead := dir
	switch {
	case dirToRead == "":
		dirToRead = "."
	case strings.HasPrefix(dirToRead, "~/"):
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dirToRead = filepath.Join(home, dirToRead[2:])
	}

	files, err := os.ReadDir(dirToRead)
	if err != nil {
		return nil, fmt.Errorf("cannot list directory %s: %w", dirToRead, err)
	}

	var items []Item
	for _, file := range files {
		name := file.Name()
		if !strings.HasPrefix(name, filePrefix) {
			continue
		}
		// Show dot files iff the file part of the seed starts with a dot.
		if dotfile(filePrefix) != dotfile(name) {
			continue
		}
		suffix := ""
		if isDir(file, filepath.Join(dirToRead, name)) {
			suffix = pathSeparator
		}
		items = append(items, Item{ToInsert: dir + name + suffix, ToShow: name + suffix})
	}
	return items, nil
}

// Like filepath.Split, but also splits at "/" on systems with a different
// separator, since paths are typed with "/".
func splitPath(p string) (dir, file string) {
	i := strings.LastIndexAny(p, "/"+pathSeparator)
	return p[:i+1], p[i+1:]
}

func isDir(file os.DirEntry, full string) bool {
	if file.IsDir() {
		return true
	}
	if file.Type()&os.ModeSymlink != 0 {
		stat, err := os.Stat(full)
		return err == nil && stat.IsDir()
	}
	return false
}

func dotfile(fname string) bool {
	return strings.HasPrefix(fname, ".")
}

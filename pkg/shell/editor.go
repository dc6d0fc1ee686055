package shell

import (
	"fmt"
	"io"
	"os"

	"src.wl.sh/pkg/cli"
	"src.wl.sh/pkg/cli/histutil"
	"src.wl.sh/pkg/config"
	"src.wl.sh/pkg/store"
	"src.wl.sh/pkg/sys"
)

// Builds the LineReader selected by cfg.Editor. The "auto" editor is the
// terminal editor when both stdin and stderr are terminals, and the basic
// editor otherwise.
func newLineReader(fds [3]*os.File, cfg config.Config, hist histutil.Store) cli.LineReader {
	spec := cli.EditorSpec{
		Styled:                 cfg.PromptStyleEnabled,
		CompletionTriggerLimit: cfg.CompletionTriggerLimit,
		History:                hist,
		Helper:                 cli.DefaultHelper{},
	}
	kind := cfg.Editor
	if kind == config.EditorAuto {
		if sys.IsATTY(fds[0]) && sys.IsATTY(fds[2]) {
			kind = config.EditorTTY
		} else {
			kind = config.EditorBasic
		}
	}
	logger.Infof("using the %s editor", kind)

	switch kind {
	case config.EditorTTY:
		return cli.NewEditor(cli.NewTTY(fds[0], fds[2], spec.Styled), spec)
	case config.EditorLiner:
		return cli.NewLinerEditor(spec)
	default:
		return newBasicEditor(fds, spec)
	}
}

func newBasicEditor(fds [3]*os.File, spec cli.EditorSpec) cli.LineReader {
	spec.Styled = spec.Styled && sys.IsATTY(fds[2])
	return cli.NewBasicEditor(fds[0], fds[2], spec)
}

// Opens the history store. Without a database the history is kept in memory.
// If the database can't be opened, a warning is written to stderr and the
// history is kept in memory too.
func openHistory(cfg config.Config, stderr io.Writer) (histutil.Store, func()) {
	memStore := func() (histutil.Store, func()) {
		return histutil.NewMemStore(cfg.MaxHistoryEntries, true), func() {}
	}
	if cfg.HistoryDB == "" {
		return memStore()
	}
	path, err := historyDBPath(cfg.HistoryDB)
	if err == nil {
		var st *store.Store
		st, err = store.Open(path)
		if err == nil {
			closeStore := func() {
				if err := st.Close(); err != nil {
					logger.Warnf("failed to close history database: %v", err)
				}
			}
			return histutil.NewDBStore(st, cfg.MaxHistoryEntries, true), closeStore
		}
	}
	fmt.Fprintln(stderr, "Warning:", err)
	fmt.Fprintln(stderr, "History will not be saved.")
	return memStore()
}

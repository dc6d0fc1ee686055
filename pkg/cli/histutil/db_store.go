package histutil

import (
	"errors"

	"src.wl.sh/pkg/logutil"
	"src.wl.sh/pkg/store"
)

var logger = logutil.GetLogger("histutil")

// DB is the interface of the history database, satisfied by *store.Store.
type DB interface {
	NextCmdSeq() (int, error)
	AddCmd(text string) (int, error)
	CmdsWithSeq(from, upto int) ([]store.Cmd, error)
	LastCmd() (store.Cmd, error)
	NextCmd(from int, prefix string) (store.Cmd, error)
	PrevCmd(upto int, prefix string) (store.Cmd, error)
	TrimCmds(max int) (int, error)
}

// NewDBStore returns a Store backed by a database. The database keeps at most
// max commands; a non-positive max means no limit. If ignoreDups is true, a
// command equal to the last one in the database is not recorded.
func NewDBStore(db DB, max int, ignoreDups bool) Store {
	return dbStore{db, max, ignoreDups}
}

type dbStore struct {
	db         DB
	max        int
	ignoreDups bool
}

func (s dbStore) AllCmds() ([]store.Cmd, error) {
	upper, err := s.db.NextCmdSeq()
	if err != nil {
		return nil, err
	}
	return s.db.CmdsWithSeq(0, upper)
}

func (s dbStore) AddCmd(text string) (int, error) {
	if text == "" {
		return -1, nil
	}
	if s.ignoreDups {
		last, err := s.db.LastCmd()
		if err == nil && last.Text == text {
			return -1, nil
		} else if err != nil && !errors.Is(err, store.ErrNoMatchingCmd) {
			return -1, err
		}
	}
	seq, err := s.db.AddCmd(text)
	if err != nil {
		return -1, err
	}
	if s.max > 0 {
		if _, err := s.db.TrimCmds(s.max); err != nil {
			logger.Warnf("failed to trim history: %v", err)
		}
	}
	return seq, nil
}

// Cursor returns a cursor over the commands in the database at the time of
// the call.
func (s dbStore) Cursor(prefix string) Cursor {
	upper, err := s.db.NextCmdSeq()
	if err != nil {
		return &dbStoreCursor{s.db, prefix, 0, store.Cmd{Seq: 0}, err}
	}
	return &dbStoreCursor{s.db, prefix, upper, store.Cmd{Seq: upper}, ErrEndOfHistory}
}

type dbStoreCursor struct {
	db     DB
	prefix string
	upper  int
	cmd    store.Cmd
	err    error
}

func (c *dbStoreCursor) Prev() {
	if c.cmd.Seq < 0 {
		return
	}
	cmd, err := c.db.PrevCmd(c.cmd.Seq, c.prefix)
	c.set(cmd, err, -1)
}

func (c *dbStoreCursor) Next() {
	if c.cmd.Seq >= c.upper {
		return
	}
	cmd, err := c.db.NextCmd(c.cmd.Seq+1, c.prefix)
	if err == nil && cmd.Seq >= c.upper {
		err = store.ErrNoMatchingCmd
	}
	c.set(cmd, err, c.upper)
}

func (c *dbStoreCursor) set(cmd store.Cmd, err error, endSeq int) {
	switch {
	case err == nil:
		c.cmd = cmd
		c.err = nil
	case errors.Is(err, store.ErrNoMatchingCmd):
		c.cmd = store.Cmd{Seq: endSeq}
		c.err = ErrEndOfHistory
	default:
		// Keep c.cmd.
		c.err = err
	}
}

func (c *dbStoreCursor) Get() (store.Cmd, error) {
	return c.cmd, c.err
}

package histutil

import (
	"strings"

	"src.wl.sh/pkg/store"
)

// NewMemStore returns a Store that keeps at most max commands in memory,
// dropping the oldest ones. A non-positive max means no limit. If ignoreDups
// is true, a command equal to the last one is not recorded.
func NewMemStore(max int, ignoreDups bool, texts ...string) Store {
	s := &memStore{max: max, ignoreDups: ignoreDups}
	for _, text := range texts {
		s.AddCmd(text)
	}
	return s
}

type memStore struct {
	cmds       []store.Cmd
	max        int
	ignoreDups bool
	nextSeq    int
}

func (s *memStore) AllCmds() ([]store.Cmd, error) {
	return s.cmds, nil
}

func (s *memStore) AddCmd(text string) (int, error) {
	if text == "" || (s.ignoreDups && len(s.cmds) > 0 && s.cmds[len(s.cmds)-1].Text == text) {
		return -1, nil
	}
	s.nextSeq++
	seq := s.nextSeq
	s.cmds = append(s.cmds, store.Cmd{Text: text, Seq: seq})
	if s.max > 0 && len(s.cmds) > s.max {
		s.cmds = append([]store.Cmd(nil), s.cmds[len(s.cmds)-s.max:]...)
	}
	return seq, nil
}

func (s *memStore) Cursor(prefix string) Cursor {
	return &memStoreCursor{s.cmds, prefix, len(s.cmds)}
}

type memStoreCursor struct {
	cmds   []store.Cmd
	prefix string
	index  int
}

func (c *memStoreCursor) Prev() { c.step(-1) }
func (c *memStoreCursor) Next() { c.step(1) }

// Moves to the nearest command in direction d that starts with the prefix.
// The index may end up one past either end, where Get fails.
func (c *memStoreCursor) step(d int) {
	for c.inRange(c.index+d) {
		c.index += d
		if strings.HasPrefix(c.cmds[c.index].Text, c.prefix) {
			return
		}
	}
	if c.index+d == -1 || c.index+d == len(c.cmds) {
		c.index += d
	}
}

func (c *memStoreCursor) inRange(i int) bool { return 0 <= i && i < len(c.cmds) }

func (c *memStoreCursor) Get() (store.Cmd, error) {
	if !c.inRange(c.index) {
		return store.Cmd{}, ErrEndOfHistory
	}
	return c.cmds[c.index], nil
}

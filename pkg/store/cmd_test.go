package store

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.wl.sh/pkg/testutil"
)

var (
	cmds     = []string{"echo foo", "echo bar", "echo foo", "echo bar"}
	searches = []struct {
		next    bool
		seq     int
		prefix  string
		wantCmd Cmd
		wantErr error
	}{
		{false, 5, "echo", Cmd{"echo bar", 4}, nil},
		{false, 5, "echo foo", Cmd{"echo foo", 3}, nil},
		{false, 4, "echo foo", Cmd{"echo foo", 3}, nil},
		{false, 3, "echo foo", Cmd{"echo foo", 1}, nil},
		{false, 1, "echo foo", Cmd{}, ErrNoMatchingCmd},
		{false, 100, "echo", Cmd{"echo bar", 4}, nil},

		{true, 1, "echo", Cmd{"echo foo", 1}, nil},
		{true, 1, "echo bar", Cmd{"echo bar", 2}, nil},
		{true, 2, "echo bar", Cmd{"echo bar", 2}, nil},
		{true, 3, "echo bar", Cmd{"echo bar", 4}, nil},
		{true, 5, "echo foo", Cmd{}, ErrNoMatchingCmd},
	}
)

func TestCmd(t *testing.T) {
	st := MustTempStore(t)

	startSeq, err := st.NextCmdSeq()
	if startSeq != 1 || err != nil {
		t.Errorf("st.NextCmdSeq() -> (%v, %v), want (1, nil)", startSeq, err)
	}

	for i, cmd := range cmds {
		wantSeq := startSeq + i
		seq, err := st.AddCmd(cmd)
		if seq != wantSeq || err != nil {
			t.Errorf("st.AddCmd(%v) -> (%v, %v), want (%v, nil)", cmd, seq, err, wantSeq)
		}
	}

	endSeq, err := st.NextCmdSeq()
	wantEndSeq := startSeq + len(cmds)
	if endSeq != wantEndSeq || err != nil {
		t.Errorf("st.NextCmdSeq() -> (%v, %v), want (%v, nil)", endSeq, err, wantEndSeq)
	}

	for i, wantCmd := range cmds {
		seq := i + startSeq
		cmd, err := st.Cmd(seq)
		if cmd != wantCmd || err != nil {
			t.Errorf("st.Cmd(%v) -> (%v, %v), want (%v, nil)", seq, cmd, err, wantCmd)
		}
	}

	for _, tt := range searches {
		f := st.PrevCmd
		funcname := "st.PrevCmd"
		if tt.next {
			f = st.NextCmd
			funcname = "st.NextCmd"
		}
		cmd, err := f(tt.seq, tt.prefix)
		if cmd != tt.wantCmd || err != tt.wantErr {
			t.Errorf("%s(%v, %v) -> (%v, %v), want (%v, %v)",
				funcname, tt.seq, tt.prefix, cmd, err, tt.wantCmd, tt.wantErr)
		}
	}

	last, err := st.LastCmd()
	if last != (Cmd{"echo bar", 4}) || err != nil {
		t.Errorf("st.LastCmd() -> (%v, %v)", last, err)
	}

	if cmd, err := st.Cmd(100); err != ErrNoMatchingCmd {
		t.Errorf("Cmd(100) -> (%v, %v), want (\"\", ErrNoMatchingCmd)", cmd, err)
	}
}

func TestCmdsWithSeq(t *testing.T) {
	st := MustTempStore(t)
	for _, cmd := range cmds {
		st.AddCmd(cmd)
	}
	got, err := st.CmdsWithSeq(2, 4)
	want := []Cmd{{"echo bar", 2}, {"echo foo", 3}}
	if err != nil || !cmp.Equal(got, want) {
		t.Errorf("CmdsWithSeq(2, 4) -> (%v, %v), want (%v, nil)", got, err, want)
	}
}

func TestTrimCmds(t *testing.T) {
	st := MustTempStore(t)
	for _, cmd := range cmds {
		st.AddCmd(cmd)
	}
	deleted, err := st.TrimCmds(3)
	if deleted != 1 || err != nil {
		t.Errorf("TrimCmds(3) -> (%v, %v), want (1, nil)", deleted, err)
	}
	got, _ := st.CmdsWithSeq(0, 100)
	want := []Cmd{{"echo bar", 2}, {"echo foo", 3}, {"echo bar", 4}}
	if !cmp.Equal(got, want) {
		t.Errorf("after TrimCmds: %v, want %v", got, want)
	}
	if deleted, _ := st.TrimCmds(10); deleted != 0 {
		t.Errorf("TrimCmds(10) deleted %v commands", deleted)
	}
	// Sequence numbers are not reused.
	if seq, _ := st.AddCmd("new"); seq != 5 {
		t.Errorf("AddCmd after trimming -> %v, want 5", seq)
	}
}

func TestLastCmd_Empty(t *testing.T) {
	st := MustTempStore(t)
	if _, err := st.LastCmd(); err != ErrNoMatchingCmd {
		t.Errorf("LastCmd on empty store -> %v, want ErrNoMatchingCmd", err)
	}
}

func TestOpen_Persists(t *testing.T) {
	path := filepath.Join(testutil.TempDir(t), "db")
	st, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	st.AddCmd("a = 1")
	st.Close()

	st, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	if cmd, err := st.Cmd(1); cmd != "a = 1" || err != nil {
		t.Errorf("after reopening, Cmd(1) -> (%v, %v)", cmd, err)
	}
}

func TestOpen_Error(t *testing.T) {
	dir := testutil.TempDir(t)
	// A directory cannot be opened as a database.
	if _, err := Open(dir); err == nil {
		t.Errorf("Open(%q) should fail", dir)
	}
}

package shell

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.wl.sh/pkg/cli"
	"src.wl.sh/pkg/cli/histutil"
	"src.wl.sh/pkg/config"
	"src.wl.sh/pkg/env"
	"src.wl.sh/pkg/must"
	"src.wl.sh/pkg/store"
	"src.wl.sh/pkg/testutil"
)

func TestMain(m *testing.M) {
	recoverPanic = false
	os.Exit(m.Run())
}

func TestInteract(t *testing.T) {
	setupCleanConfig(t)
	Test(t, &Program{},
		ThatWl().WithStdin("1+2\nf[x,\n y]\n").
			WritesStdout("Out[0]  = Plus[1, 2]\nOut[1]  = f[x, y]\n").
			WritesStderr(" In[0] :=  In[1] :=    ...  In[2] := \n"),
		// Empty lines and comments consume no sequence number.
		ThatWl().WithStdin("\n(* c *)\na\n").
			WritesStdout("Out[0]  = a\n").
			WritesStderr(" In[0] :=  In[0] :=  In[0] :=  In[1] := \n"),
		ThatWl().WithStdin("f[x)\n1\n").
			WritesStdout("Out[0]  = 1\n").
			WritesStderrContaining("Syntax error: unexpected ')'"),
		ThatWl().WithStdin("{1,\n").
			WritesStderrContaining("Incomplete input"),
		ThatWl("-no-color").WithStdin("x\n").
			WritesStdout("Out[0]  = x\n").
			WritesStderr(" In[0] :=  In[1] := \n"),
		// The terminal editor can't set up a pipe.
		ThatWl("-editor", "tty").WithStdin("x\n").
			WritesStdout("Out[0]  = x\n").
			WritesStderrContaining("Falling back to basic line editor\n In[0] := "),
	)
}

func TestInteract_ConfigFile(t *testing.T) {
	dir := setupCleanConfig(t)
	testutil.ApplyDir(testutil.Dir{
		"wl": testutil.Dir{
			"config.yaml": testutil.Dedent(`
				continuation_prompt: "> "
				editor: basic
				`),
		},
	})
	Test(t, &Program{},
		ThatWl().WithStdin("{1,\n2}\n").
			WritesStdout("Out[0]  = List[1, 2]\n").
			WritesStderr(" In[0] := >  In[1] := \n"),
	)

	must.WriteFile("other.yaml", "colour: blue\n")
	testutil.Setenv(t, env.WL_CONFIG, filepath.Join(dir, "other.yaml"))
	Test(t, &Program{},
		ThatWl().ExitsWith(2).WritesStderrContaining("field colour not found"),
	)
}

func TestInteract_HistoryDB(t *testing.T) {
	setupCleanConfig(t)
	Test(t, &Program{},
		ThatWl("-history-db", "hist/h.db").WithStdin("1\n1\n{2,\n3}\n").
			WritesStdout("Out[0]  = 1\nOut[1]  = 1\nOut[2]  = List[2, 3]\n").
			WritesStderr(" In[0] :=  In[1] :=  In[2] :=    ...  In[3] := \n"),
	)

	st := must.OK1(store.Open(filepath.Join("hist", "h.db")))
	defer st.Close()
	cmds := must.OK1(histutil.NewDBStore(st, 0, false).AllCmds())
	var texts []string
	for _, cmd := range cmds {
		texts = append(texts, cmd.Text)
	}
	if diff := cmp.Diff([]string{"1", "{2,", "3}"}, texts); diff != "" {
		t.Errorf("history (-want +got):\n%s", diff)
	}
}

func TestInteract_HistoryDBFailure(t *testing.T) {
	setupCleanConfig(t)
	must.WriteFile("file", "")
	Test(t, &Program{},
		ThatWl("-history-db", "file/h.db").WithStdin("x\n").
			WritesStdout("Out[0]  = x\n").
			WritesStderrContaining("History will not be saved.\n In[0] := "),
	)
}

func TestNewLineReader(t *testing.T) {
	r, w := must.Pipe()
	defer r.Close()
	defer w.Close()
	fds := [3]*os.File{r, w, w}
	hist := histutil.NewMemStore(0, true)

	for _, test := range []struct {
		editor string
		check  func(cli.LineReader) bool
	}{
		{config.EditorAuto, func(lr cli.LineReader) bool { _, ok := lr.(*cli.BasicEditor); return ok }},
		{config.EditorBasic, func(lr cli.LineReader) bool { _, ok := lr.(*cli.BasicEditor); return ok }},
		{config.EditorTTY, func(lr cli.LineReader) bool { _, ok := lr.(*cli.Editor); return ok }},
	} {
		cfg := config.Default()
		cfg.Editor = test.editor
		lr := newLineReader(fds, cfg, hist)
		if !test.check(lr) {
			t.Errorf("editor %q -> %T", test.editor, lr)
		}
		lr.Close()
	}
}

func TestHandlePanic(t *testing.T) {
	var stderr strings.Builder
	err := func() (err error) {
		defer handlePanic(&stderr, &err)
		panic("boom")
	}()
	if err == nil || err.Error() != "internal error: boom" {
		t.Errorf("got error %v, want internal error", err)
	}
	if !strings.Contains(stderr.String(), "goroutine") {
		t.Errorf("stderr %q does not contain a stack dump", stderr.String())
	}
}

func TestHistoryDBPath(t *testing.T) {
	home := setupCleanConfig(t)

	p := must.OK1(historyDBPath("~/data/wl/history.db"))
	if want := filepath.Join(home, "data", "wl", "history.db"); p != want {
		t.Errorf("got %q, want %q", p, want)
	}
	if info, err := os.Stat(filepath.Dir(p)); err != nil || !info.IsDir() {
		t.Errorf("directory of the database not created: %v", err)
	}

	must.WriteFile("file", "")
	if _, err := historyDBPath("file/h.db"); err == nil {
		t.Errorf("want error when the parent is a file")
	}
}

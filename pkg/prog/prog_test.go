package prog_test

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.wl.sh/pkg/config"
	"src.wl.sh/pkg/env"
	"src.wl.sh/pkg/logutil"
	"src.wl.sh/pkg/must"
	. "src.wl.sh/pkg/prog"
	"src.wl.sh/pkg/prog/progtest"
	"src.wl.sh/pkg/testutil"
)

var (
	Test   = progtest.Test
	ThatWl = progtest.ThatWl
)

func TestCommonFlagHandling(t *testing.T) {
	testutil.InTempDir(t)

	Test(t, &testProgram{},
		ThatWl("-bad-flag").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -bad-flag\nUsage:"),
		// -h is treated as a bad flag
		ThatWl("-h").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -h\nUsage:"),

		ThatWl("-help").
			WritesStdoutContaining("Usage: wl [flags]"),

		ThatWl("-log-level", "verbose").
			ExitsWith(2).
			WritesStderrContaining(`invalid log level "verbose"`),
		ThatWl("-log-mode", "rotate").
			ExitsWith(2).
			WritesStderrContaining(`invalid log mode "rotate"`),
		ThatWl("-log-file", "/a/bad/path/wl.log").
			ExitsWith(2).
			WritesStderrContaining("no such file or directory"),
	)
}

func TestLogFile(t *testing.T) {
	testutil.InTempDir(t)
	must.WriteFile("wl.log", "old\n")

	Test(t, &testProgram{logMsg: "first"},
		ThatWl("-log-file", "wl.log").DoesNothing())
	if got := must.ReadFileString("wl.log"); !strings.HasPrefix(got, "old\n[INFO]") ||
		!strings.Contains(got, "[prog-test] first") {
		t.Errorf("log after append = %q", got)
	}

	Test(t, &testProgram{logMsg: "second"},
		ThatWl("-log", "wl.log", "-log-mode", "overwrite").DoesNothing())
	if got := must.ReadFileString("wl.log"); strings.Contains(got, "first") ||
		!strings.Contains(got, "second") {
		t.Errorf("log after overwrite = %q", got)
	}
}

func TestLogFlagsFromEnvironment(t *testing.T) {
	testutil.InTempDir(t)
	testutil.Setenv(t, LogFileEnv, "env.log")
	testutil.Setenv(t, LogLevelEnv, "error")

	Test(t, &testProgram{logMsg: "not written"},
		ThatWl().DoesNothing())
	if got := must.ReadFileString("env.log"); got != "" {
		t.Errorf("log = %q, want empty at level error", got)
	}

	Test(t, &testProgram{logMsg: "written"},
		ThatWl("-log-level", "debug").DoesNothing())
	if got := must.ReadFileString("env.log"); !strings.Contains(got, "written") {
		t.Errorf("log = %q, want the message with -log-level overriding the environment", got)
	}
}

func TestNoSuitableSubprogram(t *testing.T) {
	Test(t, &testProgram{next: true},
		ThatWl().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite(t *testing.T) {
	Test(t,
		Composite(&testProgram{next: true}, &testProgram{writeOut: "program 2"}),
		ThatWl().WritesStdout("program 2"),
	)
}

func TestComposite_NoSuitableSubprogram(t *testing.T) {
	Test(t,
		Composite(&testProgram{next: true}, &testProgram{next: true}),
		ThatWl().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite_PreferEarlierSubprogram(t *testing.T) {
	Test(t,
		Composite(
			&testProgram{writeOut: "program 1"}, &testProgram{writeOut: "program 2"}),
		ThatWl().WritesStdout("program 1"),
	)
}

func TestComposite_Cleanups(t *testing.T) {
	var calls []string
	cleanup := func(name string) func([3]*os.File) {
		return func(fds [3]*os.File) {
			calls = append(calls, name)
			fds[1].WriteString(" " + name)
		}
	}
	Test(t,
		Composite(
			&testProgram{nextWith: []func([3]*os.File){cleanup("a")}},
			&testProgram{nextWith: []func([3]*os.File){cleanup("b")}},
			&testProgram{writeOut: "program 3"}),
		ThatWl().WritesStdout("program 3 b a"),
	)
	if diff := cmp.Diff([]string{"b", "a"}, calls); diff != "" {
		t.Errorf("cleanups (-want +got):\n%s", diff)
	}

	calls = nil
	Test(t,
		Composite(&testProgram{nextWith: []func([3]*os.File){cleanup("a")}}),
		ThatWl().ExitsWith(2).
			WritesStdout(" a").
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite_SharedFlags(t *testing.T) {
	p1 := &testProgram{next: true, sharedFlags: true}
	p2 := &testProgram{sharedFlags: true}
	Test(t, Composite(p1, p2),
		ThatWl("-json", "-editor", "basic").DoesNothing())
	if p1.json != p2.json || !*p2.json {
		t.Errorf("-json flag is not shared")
	}
	if p1.config != p2.config || p2.config.Editor != "basic" {
		t.Errorf("config flags are not shared")
	}
}

func TestBadUsageError(t *testing.T) {
	Test(t,
		&testProgram{returnErr: BadUsage("lorem ipsum")},
		ThatWl().ExitsWith(2).WritesStderrContaining("lorem ipsum\nUsage:"),
	)
}

func TestExitError(t *testing.T) {
	Test(t, &testProgram{returnErr: Exit(3)},
		ThatWl().ExitsWith(3),
	)
}

func TestExitError_0(t *testing.T) {
	Test(t, &testProgram{returnErr: Exit(0)},
		ThatWl().ExitsWith(0),
	)
}

func TestOtherError(t *testing.T) {
	Test(t, &testProgram{returnErr: errors.New("boom")},
		ThatWl().ExitsWith(2).WritesStderr("boom\n"),
	)
}

func TestConfigFlags_Load(t *testing.T) {
	testutil.InTempDir(t)
	testutil.Setenv(t, env.WL_CONFIG, "")
	testutil.Setenv(t, env.XDG_CONFIG_HOME, ".")
	must.WriteFile("wl.yaml", "editor: liner\nmax_history_entries: 5\n")

	c, err := (&ConfigFlags{File: "wl.yaml", NoColor: true, HistoryDB: "h.db"}).Load()
	if err != nil {
		t.Fatalf("Load -> error %v", err)
	}
	want := config.Default()
	want.Editor = config.EditorLiner
	want.MaxHistoryEntries = 5
	want.PromptStyleEnabled = false
	want.HistoryDB = "h.db"
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}

	_, err = (&ConfigFlags{Editor: "ed"}).Load()
	var cerr *config.Error
	if !errors.As(err, &cerr) {
		t.Errorf("Load with a bad editor -> %v, want *config.Error", err)
	}
}

var logger = logutil.GetLogger("prog-test")

type testProgram struct {
	next        bool
	nextWith    []func([3]*os.File)
	writeOut    string
	returnErr   error
	logMsg      string
	sharedFlags bool

	json   *bool
	config *ConfigFlags
}

func (p *testProgram) RegisterFlags(f *FlagSet) {
	if p.sharedFlags {
		p.json = f.JSON()
		p.config = f.Config()
	}
}

func (p *testProgram) Run(fds [3]*os.File, args []string) error {
	if p.next {
		return ErrNextProgram
	}
	if p.nextWith != nil {
		return NextProgram(p.nextWith...)
	}
	if p.logMsg != "" {
		logger.Infof("%s", p.logMsg)
		logger.Debugf("%s", p.logMsg)
	}
	fds[1].WriteString(p.writeOut)
	return p.returnErr
}

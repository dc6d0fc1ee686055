package shell

import (
	"testing"

	"src.wl.sh/pkg/env"
	"src.wl.sh/pkg/prog/progtest"
	"src.wl.sh/pkg/testutil"
)

var (
	Test   = progtest.Test
	ThatWl = progtest.ThatWl
)

// Runs the test in a temporary directory that is also the home and the config
// directory, so that no config file of the user is found.
func setupCleanConfig(t *testing.T) string {
	t.Helper()
	dir := testutil.InTempDir(t)
	testutil.Setenv(t, env.WL_CONFIG, "")
	testutil.Setenv(t, env.XDG_CONFIG_HOME, dir)
	testutil.Setenv(t, env.HOME, dir)
	return dir
}

func TestShell_BadUsage(t *testing.T) {
	setupCleanConfig(t)
	Test(t, &Program{},
		ThatWl("-c", "a", "b").
			ExitsWith(2).
			WritesStderrContaining("at most one script or piece of code is accepted\nUsage:"),
		ThatWl("-c").
			ExitsWith(2).
			WritesStderrContaining("-c requires an argument\nUsage:"),
	)
}

func TestShell_ConfigErrorsAreFatal(t *testing.T) {
	setupCleanConfig(t)
	testutil.ApplyDir(testutil.Dir{
		"bad.yaml": "editor: vi\n",
		"ops.yaml": "operators: [{symbol: \"+\", name: Plus, precedence: 1, assoc: sideways}]\n",
	})
	Test(t, &Program{},
		ThatWl("-config", "bad.yaml", "-c", "x").
			ExitsWith(2).
			WritesStderrContaining(`got "vi"`),
		ThatWl("-editor", "ed", "-c", "x").
			ExitsWith(2).
			WritesStderrContaining(`got "ed"`),
		ThatWl("-operators", "missing.yaml", "-c", "x").
			ExitsWith(2).
			WritesStderrContaining("missing.yaml"),
		ThatWl("-operators", "ops.yaml", "-c", "x").
			ExitsWith(2).
			WritesStderrContaining("sideways"),
	)
}

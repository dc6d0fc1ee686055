package buildinfo

import (
	"fmt"
	"runtime/debug"
	"testing"

	. "src.wl.sh/pkg/prog/progtest"
	"src.wl.sh/pkg/testutil"
	"src.wl.sh/pkg/tt"
)

func TestProgram(t *testing.T) {
	Test(t, &Program{},
		ThatWl("-version").WritesStdout(Value.Version+"\n"),
		ThatWl("-version", "-json").WritesStdout(fmt.Sprintf("%q\n", Value.Version)),
		ThatWl("-buildinfo").WritesStdout(
			"Version: "+Value.Version+"\nGo version: "+Value.GoVersion+"\n"),
		ThatWl("-buildinfo", "-json").WritesStdout(mustToJSON(Value)+"\n"),
		// Without flags the next subprogram runs.
		ThatWl().ExitsWith(2).WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestAddVariant(t *testing.T) {
	if got := addVariant("1.0.0"); got != "1.0.0" {
		t.Errorf("without variant: got %q", got)
	}
	testutil.Set(t, &Variant, "deb1")
	if got := addVariant("1.0.0"); got != "1.0.0+deb1" {
		t.Errorf("with variant: got %q", got)
	}
}

func vcs(revision, time, modified string) *debug.BuildInfo {
	return &debug.BuildInfo{Settings: []debug.BuildSetting{
		{Key: "vcs.revision", Value: revision},
		{Key: "vcs.time", Value: time},
		{Key: "vcs.modified", Value: modified},
	}}
}

// Calls devVersion with "1.2.0" as the next release.
func devVersionOf(override string, bi *debug.BuildInfo) string {
	return devVersion("1.2.0", override, func() (*debug.BuildInfo, bool) {
		return bi, bi != nil
	})
}

func TestDevVersion(t *testing.T) {
	const rev = "abcdef0123456789"
	tt.Test(t, tt.Fn("devVersion", devVersionOf), tt.Table{
		tt.Args("", (*debug.BuildInfo)(nil)).Rets("1.2.0-dev.unknown"),
		tt.Args("20261018120000-abcdef012345", (*debug.BuildInfo)(nil)).
			Rets("1.2.0-dev.0.20261018120000-abcdef012345"),
		tt.Args("", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}).
			Rets("1.2.0-dev.unknown"),
		tt.Args("", &debug.BuildInfo{Main: debug.Module{Version: "v1.2.0-dev.xyz"}}).
			Rets("1.2.0-dev.xyz"),
		tt.Args("", vcs(rev, "2026-10-18T12:00:00Z", "false")).
			Rets("1.2.0-dev.0.20261018120000-abcdef012345"),
		tt.Args("", vcs(rev, "2026-10-18T14:00:00+02:00", "true")).
			Rets("1.2.0-dev.0.20261018120000-abcdef012345-dirty"),
		tt.Args("", vcs("abc", "2026-10-18T12:00:00Z", "false")).
			Rets("1.2.0-dev.0.20261018120000-abc"),
		tt.Args("", vcs(rev, "yesterday", "false")).Rets("1.2.0-dev.unknown"),
		tt.Args("", vcs("", "2026-10-18T12:00:00Z", "false")).Rets("1.2.0-dev.unknown"),
	})
}

package highlight

import (
	"testing"

	"src.wl.sh/pkg/tt"
	"src.wl.sh/pkg/ui"
)

func TestMatchBracket(t *testing.T) {
	tt.Test(t, tt.Fn("MatchBracket", MatchBracket), tt.Table{
		// Cursor on the opening bracket.
		tt.Args("f[x]", 1).Rets(1, 3, true),
		// Cursor on the closing bracket.
		tt.Args("f[x]", 3).Rets(1, 3, true),
		// Cursor just after the closing bracket.
		tt.Args("f[x]", 4).Rets(1, 3, true),
		// Not on a bracket.
		tt.Args("f[x] + y", 6).Rets(0, 0, false),
		// Nesting.
		tt.Args("{(1), [2]}", 0).Rets(0, 9, true),
		tt.Args("{(1), [2]}", 6).Rets(6, 8, true),
		tt.Args("a[[1]]", 2).Rets(2, 4, true),
		tt.Args("a[[1]]", 1).Rets(1, 5, true),
		// Unmatched brackets.
		tt.Args("f[x", 1).Rets(0, 0, false),
		tt.Args("x]", 1).Rets(0, 0, false),
		tt.Args("(]", 0).Rets(0, 0, false),
		// Brackets in strings are ignored.
		tt.Args(`f["(", x]`, 1).Rets(1, 8, true),
		tt.Args(`f["(", x]`, 3).Rets(0, 0, false),
		tt.Args(`f["\"(", x]`, 1).Rets(1, 10, true),
		// So are brackets in comments.
		tt.Args("(1 (* ) (* ] *) *) )", 0).Rets(0, 19, true),
		// The buffer spans multiple lines.
		tt.Args("f[1,\n  2]", 8).Rets(1, 8, true),
		// Out of range.
		tt.Args("()", 5).Rets(0, 0, false),
		tt.Args("", 0).Rets(0, 0, false),
	})
}

func TestHighlight(t *testing.T) {
	got := Highlight("f[x] + 1", 1)
	want := ui.Concat(
		ui.T("f"), ui.T("[", ui.Inverse), ui.T("x"), ui.T("]", ui.Inverse), ui.T(" + 1"))
	if got.VTString() != want.VTString() {
		t.Errorf("got %q, want %q", got.VTString(), want.VTString())
	}
	if got.String() != "f[x] + 1" {
		t.Errorf("highlighting changed the text: %q", got.String())
	}

	if got := Highlight("f[x", 1); got.VTString() != "f[x" {
		t.Errorf("unmatched bracket is marked: %q", got.VTString())
	}
}

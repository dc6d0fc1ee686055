package cli

import (
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.wl.sh/pkg/cli/histutil"
	"src.wl.sh/pkg/must"
	"src.wl.sh/pkg/ui"
)

func TestBasicEditor_ReadsLines(t *testing.T) {
	var out strings.Builder
	ed := NewBasicEditor(strings.NewReader("a\nb\r\nc"), &out, EditorSpec{})
	defer ed.Close()

	var got []Result
	for i := 0; i < 5; i++ {
		res, err := ed.ReadLine(ui.T("> "))
		if err != nil {
			t.Fatalf("ReadLine -> error %v", err)
		}
		got = append(got, res)
	}
	want := []Result{{Line, "a"}, {Line, "b"}, {Line, "c"}, {Kind: EOF}, {Kind: EOF}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("results (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(out.String(), "> > > ") {
		t.Errorf("prompts not written: %q", out.String())
	}
}

func TestBasicEditor_AddsHistory(t *testing.T) {
	history := histutil.NewMemStore(10, true)
	ed := NewBasicEditor(strings.NewReader("x\nx\n\ny\n"), &strings.Builder{},
		EditorSpec{History: history})
	defer ed.Close()
	for i := 0; i < 4; i++ {
		ed.ReadLine(nil)
	}

	cmds, _ := history.AllCmds()
	var texts []string
	for _, cmd := range cmds {
		texts = append(texts, cmd.Text)
	}
	if diff := cmp.Diff([]string{"x", "y"}, texts); diff != "" {
		t.Errorf("history (-want +got):\n%s", diff)
	}
}

func TestBasicEditor_StyledPrompt(t *testing.T) {
	for _, styled := range []bool{true, false} {
		var out strings.Builder
		ed := NewBasicEditor(strings.NewReader("\n"), &out, EditorSpec{Styled: styled})
		ed.ReadLine(ui.T("In", ui.FgBlue))
		ed.Close()
		want := "In"
		if styled {
			want = "\033[34mIn\033[m"
		}
		if out.String() != want {
			t.Errorf("styled = %v: got %q, want %q", styled, out.String(), want)
		}
	}
}

func TestBasicEditor_Interrupt(t *testing.T) {
	r, w := must.Pipe()
	defer r.Close()
	defer w.Close()
	var out strings.Builder
	ed := NewBasicEditor(r, &out, EditorSpec{})
	sigCh := make(chan os.Signal, 1)
	ed.notifyInterrupt = func() (<-chan os.Signal, func()) { return sigCh, func() {} }

	sigCh <- os.Interrupt
	if res, _ := ed.ReadLine(ui.T("> ")); res.Kind != Interrupted {
		t.Errorf("got %v, want Interrupted", res)
	}

	// The interrupted read is resumed.
	w.WriteString("1 + 1\n")
	if res, _ := ed.ReadLine(ui.T("> ")); res != (Result{Line, "1 + 1"}) {
		t.Errorf("got %v, want %v", res, Result{Line, "1 + 1"})
	}
	ed.Close()
}

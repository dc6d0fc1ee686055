// Package cli implements the line readers of the interactive session.
//
// There are three implementations of LineReader: Editor, a raw-mode terminal
// editor; BasicEditor, which reads plain lines from a non-terminal input; and
// LinerEditor, which delegates to the liner library.
package cli

import (
	"src.wl.sh/pkg/edit/complete"
	"src.wl.sh/pkg/edit/highlight"
	"src.wl.sh/pkg/logutil"
	"src.wl.sh/pkg/ui"
)

var logger = logutil.GetLogger("cli")

// ResultKind is the kind of a Result.
type ResultKind int

// Possible values of ResultKind.
const (
	// A line was accepted.
	Line ResultKind = iota
	// The end of input was reached.
	EOF
	// The user cancelled the line.
	Interrupted
)

var resultKindNames = [...]string{"Line", "EOF", "Interrupted"}

func (k ResultKind) String() string { return resultKindNames[k] }

// Result is the outcome of a ReadLine call. Text is only meaningful when Kind
// is Line.
type Result struct {
	Kind ResultKind
	Text string
}

// LineReader reads lines from the user.
type LineReader interface {
	// ReadLine shows the prompt and reads one line. The end of input and a
	// cancellation are reported as results; only I/O failures are errors.
	// An accepted line is added to the history of the LineReader.
	ReadLine(prompt ui.Text) (Result, error)
	// Close releases resources held by the LineReader.
	Close() error
}

// Helper provides the editing capabilities of a line editor. Each method is
// independent; embed NopHelper to implement only some of them.
type Helper interface {
	// Complete returns the completion candidates at dot.
	Complete(buf string, dot int) (*complete.Result, error)
	// Hint returns a text shown after the buffer, or nil.
	Hint(buf string, dot int) ui.Text
	// Highlight returns the buffer as styled text. The content of the
	// returned text must be equal to buf.
	Highlight(buf string, dot int) ui.Text
}

// NopHelper is a Helper that provides no completion, no hint and no
// highlighting.
type NopHelper struct{}

func (NopHelper) Complete(string, int) (*complete.Result, error) {
	return nil, complete.ErrNoCompletion
}

func (NopHelper) Hint(string, int) ui.Text { return nil }

func (NopHelper) Highlight(buf string, _ int) ui.Text { return ui.T(buf) }

// DefaultHelper completes filenames and highlights matching brackets. It
// provides no hints.
type DefaultHelper struct{ NopHelper }

func (DefaultHelper) Complete(buf string, dot int) (*complete.Result, error) {
	return complete.Complete(complete.CodeBuffer{Content: buf, Dot: dot})
}

func (DefaultHelper) Highlight(buf string, dot int) ui.Text {
	return highlight.Highlight(buf, dot)
}

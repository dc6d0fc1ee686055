package cli

import (
	"bufio"
	"io"
	"os"
	"os/signal"
	"strings"

	"src.wl.sh/pkg/cli/histutil"
	"src.wl.sh/pkg/ui"
)

// BasicEditor is a LineReader for input that is not a terminal, such as a
// pipe. It does no editing. Lines are read on a separate goroutine, only when
// requested by ReadLine, so that an interrupt signal can cancel the wait.
type BasicEditor struct {
	out     io.Writer
	styled  bool
	history histutil.Store

	reqCh   chan struct{}
	lineCh  chan lineOrError
	pending bool

	// Starts relaying interrupts, returning the channel and a function to
	// stop relaying.
	notifyInterrupt func() (<-chan os.Signal, func())
}

type lineOrError struct {
	line string
	err  error
}

// NewBasicEditor creates a BasicEditor that reads from in and writes prompts
// to out. Only the Styled and History fields of spec are used.
func NewBasicEditor(in io.Reader, out io.Writer, spec EditorSpec) *BasicEditor {
	if spec.History == nil {
		spec.History = histutil.NewMemStore(0, true)
	}
	ed := &BasicEditor{
		out: out, styled: spec.Styled, history: spec.History,
		reqCh:  make(chan struct{}),
		lineCh: make(chan lineOrError, 1),
		notifyInterrupt: func() (<-chan os.Signal, func()) {
			ch := make(chan os.Signal, 1)
			signal.Notify(ch, os.Interrupt)
			return ch, func() { signal.Stop(ch) }
		},
	}
	go ed.readLines(bufio.NewReader(in))
	return ed
}

func (ed *BasicEditor) readLines(rd *bufio.Reader) {
	defer close(ed.lineCh)
	for range ed.reqCh {
		line, err := rd.ReadString('\n')
		if line != "" {
			// A final line without a newline is still a line; the end of
			// input is reported on the next request.
			err = nil
		}
		ed.lineCh <- lineOrError{strings.TrimRight(line, "\r\n"), err}
	}
}

// ReadLine writes the prompt and waits for a line or an interrupt. An
// interrupted read is resumed by the next ReadLine call.
func (ed *BasicEditor) ReadLine(prompt ui.Text) (Result, error) {
	io.WriteString(ed.out, prompt.Render(ed.styled))
	if !ed.pending {
		ed.reqCh <- struct{}{}
		ed.pending = true
	}
	sigCh, stop := ed.notifyInterrupt()
	defer stop()
	select {
	case r, ok := <-ed.lineCh:
		ed.pending = false
		switch {
		case !ok || r.err == io.EOF:
			io.WriteString(ed.out, "\n")
			return Result{Kind: EOF}, nil
		case r.err != nil:
			return Result{}, r.err
		}
		if _, err := ed.history.AddCmd(r.line); err != nil {
			logger.Warnf("failed to add history: %v", err)
		}
		return Result{Line, r.line}, nil
	case <-sigCh:
		io.WriteString(ed.out, "\n")
		return Result{Kind: Interrupted}, nil
	}
}

// Close stops the reading goroutine. It must not be called during ReadLine.
func (ed *BasicEditor) Close() error {
	close(ed.reqCh)
	return nil
}

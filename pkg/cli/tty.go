package cli

import (
	"os"
	"os/signal"

	"src.wl.sh/pkg/cli/term"
	"src.wl.sh/pkg/sys"
	"src.wl.sh/pkg/ui"
)

// TTY is the type the terminal dependency of the editor needs to satisfy.
type TTY interface {
	// Setup sets up the terminal for one ReadLine call and starts the event
	// reader. It returns a restore function that undoes the setup.
	//
	// This method should be called before any other method is called.
	Setup() (restore func(), err error)

	// ReadEvent reads a single event from the terminal.
	ReadEvent() (term.Event, error)
	// CloseReader stops the event reader. Any outstanding or later ReadEvent
	// call returns term.ErrStopped.
	CloseReader()

	// NotifySignals starts relaying signals and returns a channel on which
	// signals are delivered.
	NotifySignals() <-chan os.Signal
	// StopSignals stops the relaying of signals.
	StopSignals()

	// Size returns the height and width of the terminal.
	Size() (h, w int)

	// UpdateBuffer shows msg above the editor, if it is not nil, and updates
	// the editor area to buf.
	UpdateBuffer(msg ui.Text, buf *term.Buffer, full bool) error
	// Finish moves the cursor below the editor area, leaving its content on
	// the screen.
	Finish() error
	// ClearScreen clears the terminal screen.
	ClearScreen()
}

type aTTY struct {
	in, out *os.File
	r       term.Reader
	w       term.Writer
	sigCh   chan os.Signal
}

const sigsChanBufferSize = 256

// NewTTY returns a new TTY from input and output terminal files. If styled is
// false, messages are written without styles.
func NewTTY(in, out *os.File, styled bool) TTY {
	return &aTTY{in: in, out: out, w: term.NewWriter(out, styled)}
}

func (t *aTTY) Setup() (func(), error) {
	r, err := term.NewReader(t.in)
	if err != nil {
		return nil, err
	}
	restore, err := term.Setup(t.in, t.out)
	if err != nil {
		if restore != nil {
			restore()
		}
		r.Close()
		return nil, err
	}
	t.r = r
	return func() {
		if err := restore(); err != nil {
			logger.Warnf("failed to restore terminal properties: %v", err)
		}
	}, nil
}

func (t *aTTY) ReadEvent() (term.Event, error) {
	return t.r.ReadEvent()
}

func (t *aTTY) CloseReader() {
	t.r.Close()
}

func (t *aTTY) Size() (h, w int) {
	return sys.WinSize(t.out)
}

func (t *aTTY) UpdateBuffer(msg ui.Text, buf *term.Buffer, full bool) error {
	return t.w.UpdateBuffer(msg, buf, full)
}

func (t *aTTY) Finish() error {
	return t.w.Finish()
}

func (t *aTTY) ClearScreen() {
	t.w.ClearScreen()
}

func (t *aTTY) NotifySignals() <-chan os.Signal {
	t.sigCh = make(chan os.Signal, sigsChanBufferSize)
	signal.Notify(t.sigCh, os.Interrupt, sys.SIGWINCH)
	return t.sigCh
}

func (t *aTTY) StopSignals() {
	signal.Stop(t.sigCh)
	close(t.sigCh)
	t.sigCh = nil
}

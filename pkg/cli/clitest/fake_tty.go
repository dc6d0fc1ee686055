// Package clitest provides a fake terminal for testing the line editors.
package clitest

import (
	"os"
	"reflect"
	"sync"
	"testing"
	"time"

	"src.wl.sh/pkg/cli"
	"src.wl.sh/pkg/cli/term"
	"src.wl.sh/pkg/testutil"
	"src.wl.sh/pkg/ui"
)

const (
	// Maximum number of buffer updates FakeTTY expect to see.
	fakeTTYBufferUpdates = 4096
	// Maximum number of events FakeTTY produces.
	fakeTTYEvents = 4096
	// Maximum number of signals FakeTTY produces.
	fakeTTYSignals = 4096
)

// An implementation of the cli.TTY interface that is useful in tests.
type fakeTTY struct {
	setup func() (func(), error)
	// Channel that ReadEvent reads from. Events stay in the channel across
	// ReadLine calls.
	eventCh chan term.Event
	// Closed by CloseReader, recreated by Setup.
	stopCh    chan struct{}
	stopMutex sync.Mutex
	// Channel for publishing updates of the main buffer.
	bufCh chan *term.Buffer
	// Records history of the main buffer and the messages.
	bufs []*term.Buffer
	msgs []ui.Text
	// Mutex for guarding bufs and msgs.
	bufMutex sync.RWMutex
	// Channel that NotifySignals returns. Can be used to inject signals.
	sigCh chan os.Signal
	// Number of times the TTY screen has been cleared, incremented in
	// ClearScreen; and number of Finish calls.
	cleared, finished int

	sizeMutex sync.RWMutex
	// Predefined sizes.
	height, width int
}

// Initial size of fake TTY.
const (
	FakeTTYHeight = 20
	FakeTTYWidth  = 50
)

// NewFakeTTY creates a new FakeTTY and a handle for controlling it. The initial
// size of the terminal is FakeTTYHeight and FakeTTYWidth.
func NewFakeTTY() (cli.TTY, TTYCtrl) {
	tty := &fakeTTY{
		eventCh: make(chan term.Event, fakeTTYEvents),
		stopCh:  make(chan struct{}),
		sigCh:   make(chan os.Signal, fakeTTYSignals),
		bufCh:   make(chan *term.Buffer, fakeTTYBufferUpdates),
		height:  FakeTTYHeight, width: FakeTTYWidth,
	}
	return tty, TTYCtrl{tty}
}

// Starts a new reader, then delegates to the setup function specified using
// the SetSetup method of TTYCtrl, or returns a nop function and a nil error.
func (t *fakeTTY) Setup() (func(), error) {
	t.stopMutex.Lock()
	t.stopCh = make(chan struct{})
	t.stopMutex.Unlock()
	if t.setup == nil {
		return func() {}, nil
	}
	return t.setup()
}

// Returns the size specified by using the SetSize method of TTYCtrl.
func (t *fakeTTY) Size() (h, w int) {
	t.sizeMutex.RLock()
	defer t.sizeMutex.RUnlock()
	return t.height, t.width
}

// Returns the next event from t.eventCh, or term.ErrStopped after
// CloseReader.
func (t *fakeTTY) ReadEvent() (term.Event, error) {
	stopCh := t.getStopCh()
	select {
	case <-stopCh:
		return nil, term.ErrStopped
	default:
	}
	select {
	case event := <-t.eventCh:
		return event, nil
	case <-stopCh:
		return nil, term.ErrStopped
	}
}

func (t *fakeTTY) getStopCh() chan struct{} {
	t.stopMutex.Lock()
	defer t.stopMutex.Unlock()
	return t.stopCh
}

func (t *fakeTTY) CloseReader() {
	close(t.getStopCh())
}

// Records the message and the buffer.
func (t *fakeTTY) UpdateBuffer(msg ui.Text, buf *term.Buffer, _ bool) error {
	t.bufMutex.Lock()
	defer t.bufMutex.Unlock()
	if msg != nil {
		t.msgs = append(t.msgs, msg)
	}
	t.bufs = append(t.bufs, buf)
	t.bufCh <- buf
	return nil
}

func (t *fakeTTY) Finish() error {
	t.bufMutex.Lock()
	defer t.bufMutex.Unlock()
	t.finished++
	return nil
}

func (t *fakeTTY) ClearScreen() {
	t.bufMutex.Lock()
	defer t.bufMutex.Unlock()
	t.cleared++
}

// Returns the same channel for every call; signals injected before a ReadLine
// call are delivered during it.
func (t *fakeTTY) NotifySignals() <-chan os.Signal { return t.sigCh }

func (t *fakeTTY) StopSignals() {}

// TTYCtrl is an interface for controlling a fake terminal.
type TTYCtrl struct{ *fakeTTY }

// GetTTYCtrl takes a TTY and returns a TTYCtrl and true, if the TTY is a fake
// terminal. Otherwise it returns an invalid TTYCtrl and false.
func GetTTYCtrl(t cli.TTY) (TTYCtrl, bool) {
	fake, ok := t.(*fakeTTY)
	return TTYCtrl{fake}, ok
}

// SetSetup sets the return values of the Setup method of the fake terminal.
func (t TTYCtrl) SetSetup(restore func(), err error) {
	t.setup = func() (func(), error) {
		return restore, err
	}
}

// SetSize sets the size of the fake terminal.
func (t TTYCtrl) SetSize(h, w int) {
	t.sizeMutex.Lock()
	defer t.sizeMutex.Unlock()
	t.height, t.width = h, w
}

// Inject injects events to the fake terminal.
func (t TTYCtrl) Inject(events ...term.Event) {
	for _, event := range events {
		t.eventCh <- event
	}
}

// InjectKeys injects a key event for each rune of s.
func (t TTYCtrl) InjectKeys(s string) {
	for _, r := range s {
		t.eventCh <- term.K(r)
	}
}

// InjectSignal injects signals.
func (t TTYCtrl) InjectSignal(sigs ...os.Signal) {
	for _, sig := range sigs {
		t.sigCh <- sig
	}
}

// ScreenCleared returns the number of times ClearScreen has been called on the
// TTY.
func (t TTYCtrl) ScreenCleared() int {
	t.bufMutex.RLock()
	defer t.bufMutex.RUnlock()
	return t.cleared
}

// Finished returns the number of times Finish has been called on the TTY.
func (t TTYCtrl) Finished() int {
	t.bufMutex.RLock()
	defer t.bufMutex.RUnlock()
	return t.finished
}

// TestBuffer verifies that a buffer will appear within 100ms, and aborts the
// test if it doesn't.
func (t TTYCtrl) TestBuffer(tt *testing.T, b *term.Buffer) {
	tt.Helper()
	if !testBuffer(b, t.bufCh) {
		tt.Logf("wanted buffer not shown:\n%#v", b)
		if lastBuf := t.LastBuffer(); lastBuf != nil {
			tt.Logf("last buffer:\n%#v", lastBuf)
		}
		tt.FailNow()
	}
}

// BufferHistory returns a slice of all buffers that have appeared.
func (t TTYCtrl) BufferHistory() []*term.Buffer {
	t.bufMutex.RLock()
	defer t.bufMutex.RUnlock()
	return t.bufs
}

// LastBuffer returns the last buffer that has appeared.
func (t TTYCtrl) LastBuffer() *term.Buffer {
	t.bufMutex.RLock()
	defer t.bufMutex.RUnlock()
	if len(t.bufs) == 0 {
		return nil
	}
	return t.bufs[len(t.bufs)-1]
}

// Messages returns all messages that have been shown.
func (t TTYCtrl) Messages() []ui.Text {
	t.bufMutex.RLock()
	defer t.bufMutex.RUnlock()
	return t.msgs
}

// Tests that a buffer appears on the channel within 100ms.
func testBuffer(want *term.Buffer, ch <-chan *term.Buffer) bool {
	timeout := time.After(testutil.Scaled(100 * time.Millisecond))
	for {
		select {
		case buf := <-ch:
			if reflect.DeepEqual(buf, want) {
				return true
			}
		case <-timeout:
			return false
		}
	}
}

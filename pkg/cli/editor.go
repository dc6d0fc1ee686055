package cli

import (
	"errors"
	"os"
	"sync"
	"unicode"
	"unicode/utf8"

	"src.wl.sh/pkg/cli/histutil"
	"src.wl.sh/pkg/cli/term"
	"src.wl.sh/pkg/edit/complete"
	"src.wl.sh/pkg/sys"
	"src.wl.sh/pkg/ui"
)

// EditorSpec specifies the configuration of an Editor.
type EditorSpec struct {
	// Whether the prompt and the highlighted buffer are shown with styles.
	Styled bool
	// When there are more completion candidates than this, the user is asked
	// before they are listed. A non-positive value disables the question.
	CompletionTriggerLimit int
	// History of accepted lines. Defaults to an unbounded in-memory store that
	// ignores consecutive duplicates.
	History histutil.Store
	// Defaults to NopHelper.
	Helper Helper
}

// Editor is a LineReader that edits the line on a terminal in raw mode, with
// Emacs-style key bindings.
type Editor struct {
	tty  TTY
	spec EditorSpec

	lp      *eventLoop
	reqRead chan struct{}

	// States of the current ReadLine call, only accessed from the loop.
	prompt  ui.Text
	buf     string
	dot     int
	msg     ui.Text
	walk    *historyWalk
	pending *complete.Result
}

type historyWalk struct {
	cursor histutil.Cursor
	// Buffer content when the walk started.
	saved string
}

type nonfatalErrorEvent struct{ err error }

type fatalErrorEvent struct{ err error }

const defaultWidth = 80

// NewEditor creates a new Editor on the given TTY.
func NewEditor(tty TTY, spec EditorSpec) *Editor {
	if spec.History == nil {
		spec.History = histutil.NewMemStore(0, true)
	}
	if spec.Helper == nil {
		spec.Helper = NopHelper{}
	}
	return &Editor{tty: tty, spec: spec}
}

// ReadLine runs an event loop to read one line from the terminal. It is not
// re-entrant.
func (ed *Editor) ReadLine(prompt ui.Text) (Result, error) {
	restore, err := ed.tty.Setup()
	if err != nil {
		return Result{}, err
	}
	defer restore()

	ed.prompt, ed.buf, ed.dot = prompt, "", 0
	ed.msg, ed.walk, ed.pending = nil, nil, nil
	lp := newLoop(ed.handle, ed.redraw)
	ed.lp = lp

	var wg sync.WaitGroup
	defer wg.Wait()

	// Relay input events.
	reqRead := make(chan struct{}, 1)
	reqRead <- struct{}{}
	ed.reqRead = reqRead
	defer close(reqRead)
	defer ed.tty.CloseReader()
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range reqRead {
			event, err := ed.tty.ReadEvent()
			if err == nil {
				lp.Input(event)
			} else if err == term.ErrStopped {
				return
			} else if term.IsReadErrorRecoverable(err) {
				lp.Input(nonfatalErrorEvent{err})
			} else {
				lp.Input(fatalErrorEvent{err})
				return
			}
		}
	}()

	// Relay signals.
	sigCh := ed.tty.NotifySignals()
	stopSignals := make(chan struct{})
	defer ed.tty.StopSignals()
	defer close(stopSignals)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case sig, ok := <-sigCh:
				if !ok {
					return
				}
				lp.Input(sig)
			case <-stopSignals:
				return
			}
		}
	}()

	res, err := lp.Run()
	if err == nil && res.Kind == Line {
		if _, err := ed.spec.History.AddCmd(res.Text); err != nil {
			logger.Warnf("failed to add history: %v", err)
		}
	}
	return res, err
}

// Close implements LineReader. The terminal is only set up during ReadLine
// calls, so there is nothing to release.
func (ed *Editor) Close() error { return nil }

func (ed *Editor) handle(e event) {
	switch e := e.(type) {
	case os.Signal:
		switch e {
		case os.Interrupt:
			ed.lp.Return(Result{Kind: Interrupted}, nil)
		case sys.SIGWINCH:
			ed.lp.Redraw(true)
		}
		return
	case fatalErrorEvent:
		ed.lp.Return(Result{}, e.err)
		return
	case nonfatalErrorEvent:
		logger.Warnf("error reading terminal: %v", e.err)
	case term.KeyEvent:
		ed.handleKey(ui.Key(e))
	default:
		logger.Debugf("ignoring event %v", e)
	}
	if !ed.lp.HasReturned() {
		ed.reqRead <- struct{}{}
	}
}

func (ed *Editor) handleKey(k ui.Key) {
	if ed.pending != nil {
		ed.answerListing(k)
		return
	}
	if !walksHistory(k) {
		ed.walk = nil
	}
	if fn, ok := emacsBindings[k]; ok {
		fn(ed)
		return
	}
	if k.Mod == 0 && k.Rune > 0 && unicode.IsGraphic(k.Rune) {
		ed.insert(string(k.Rune))
		return
	}
	logger.Debugf("unbound key %v", k)
}

var emacsBindings = map[ui.Key]func(*Editor){
	ui.K(ui.Enter):     (*Editor).accept,
	ui.K('M', ui.Ctrl): (*Editor).accept,
	ui.K('C', ui.Ctrl): (*Editor).interrupt,
	ui.K('D', ui.Ctrl): (*Editor).eofOrDelete,

	ui.K(ui.Left):      (*Editor).moveLeft,
	ui.K('B', ui.Ctrl): (*Editor).moveLeft,
	ui.K(ui.Right):     (*Editor).moveRight,
	ui.K('F', ui.Ctrl): (*Editor).moveRight,
	ui.K(ui.Home):      (*Editor).moveHome,
	ui.K('A', ui.Ctrl): (*Editor).moveHome,
	ui.K(ui.End):       (*Editor).moveEnd,
	ui.K('E', ui.Ctrl): (*Editor).moveEnd,

	ui.K(ui.Backspace): (*Editor).backspace,
	ui.K('H', ui.Ctrl): (*Editor).backspace,
	ui.K(ui.Delete):    (*Editor).deleteForward,
	ui.K('K', ui.Ctrl): (*Editor).killLineRight,
	ui.K('U', ui.Ctrl): (*Editor).killLineLeft,
	ui.K('W', ui.Ctrl): (*Editor).killWordLeft,

	ui.K(ui.Up):        (*Editor).historyPrev,
	ui.K('P', ui.Ctrl): (*Editor).historyPrev,
	ui.K(ui.Down):      (*Editor).historyNext,
	ui.K('N', ui.Ctrl): (*Editor).historyNext,

	ui.K(ui.Tab):       (*Editor).completeAtDot,
	ui.K('L', ui.Ctrl): (*Editor).clearScreen,
}

func walksHistory(k ui.Key) bool {
	switch k {
	case ui.K(ui.Up), ui.K('P', ui.Ctrl), ui.K(ui.Down), ui.K('N', ui.Ctrl):
		return true
	}
	return false
}

func (ed *Editor) accept() {
	ed.lp.Return(Result{Line, ed.buf}, nil)
}

func (ed *Editor) interrupt() {
	ed.lp.Return(Result{Kind: Interrupted}, nil)
}

func (ed *Editor) eofOrDelete() {
	if ed.buf == "" {
		ed.lp.Return(Result{Kind: EOF}, nil)
		return
	}
	ed.deleteForward()
}

func (ed *Editor) insert(s string) {
	ed.buf = ed.buf[:ed.dot] + s + ed.buf[ed.dot:]
	ed.dot += len(s)
}

func (ed *Editor) setBuf(s string) {
	ed.buf, ed.dot = s, len(s)
}

func (ed *Editor) moveLeft() {
	_, w := utf8.DecodeLastRuneInString(ed.buf[:ed.dot])
	ed.dot -= w
}

func (ed *Editor) moveRight() {
	_, w := utf8.DecodeRuneInString(ed.buf[ed.dot:])
	ed.dot += w
}

func (ed *Editor) moveHome() { ed.dot = 0 }

func (ed *Editor) moveEnd() { ed.dot = len(ed.buf) }

func (ed *Editor) backspace() {
	_, w := utf8.DecodeLastRuneInString(ed.buf[:ed.dot])
	ed.buf = ed.buf[:ed.dot-w] + ed.buf[ed.dot:]
	ed.dot -= w
}

func (ed *Editor) deleteForward() {
	_, w := utf8.DecodeRuneInString(ed.buf[ed.dot:])
	ed.buf = ed.buf[:ed.dot] + ed.buf[ed.dot+w:]
}

func (ed *Editor) killLineRight() { ed.buf = ed.buf[:ed.dot] }

func (ed *Editor) killLineLeft() {
	ed.buf = ed.buf[ed.dot:]
	ed.dot = 0
}

// Kills the whitespace-delimited word before the dot, along with any
// whitespace between it and the dot.
func (ed *Editor) killWordLeft() {
	i := ed.dot
	for i > 0 && isBlank(ed.buf[i-1]) {
		i--
	}
	for i > 0 && !isBlank(ed.buf[i-1]) {
		i--
	}
	ed.buf = ed.buf[:i] + ed.buf[ed.dot:]
	ed.dot = i
}

func isBlank(b byte) bool { return b == ' ' || b == '\t' }

// Walks back through the history entries that start with the buffer content
// at the start of the walk.
func (ed *Editor) historyPrev() {
	if ed.walk == nil {
		ed.walk = &historyWalk{ed.spec.History.Cursor(ed.buf), ed.buf}
	}
	ed.walk.cursor.Prev()
	cmd, err := ed.walk.cursor.Get()
	if err != nil {
		if !errors.Is(err, histutil.ErrEndOfHistory) {
			logger.Warnf("failed to walk history: %v", err)
		}
		// Stay at the oldest entry.
		ed.walk.cursor.Next()
		return
	}
	ed.setBuf(cmd.Text)
}

func (ed *Editor) historyNext() {
	if ed.walk == nil {
		return
	}
	ed.walk.cursor.Next()
	cmd, err := ed.walk.cursor.Get()
	if err != nil {
		ed.setBuf(ed.walk.saved)
		ed.walk = nil
		return
	}
	ed.setBuf(cmd.Text)
}

func (ed *Editor) clearScreen() {
	ed.tty.ClearScreen()
	ed.lp.Redraw(true)
}

func (ed *Editor) redraw(flag redrawFlag) {
	_, width := ed.tty.Size()
	if width <= 0 {
		width = defaultWidth
	}
	final := flag&finalRedraw != 0
	msg := ed.msg
	ed.msg = nil
	if err := ed.tty.UpdateBuffer(msg, ed.render(width, final), flag&fullRedraw != 0); err != nil {
		logger.Warnf("failed to update terminal: %v", err)
	}
	if final {
		if err := ed.tty.Finish(); err != nil {
			logger.Warnf("failed to finish terminal: %v", err)
		}
	}
}

// Renders the prompt and the buffer. The final rendering is left on the
// screen, so it has no highlighting, hint or question.
func (ed *Editor) render(width int, final bool) *term.Buffer {
	styled := ed.spec.Styled
	bb := term.NewBufferBuilder(width)
	bb.EagerWrap = true
	bb.WriteText(ed.prompt, styled)
	if final {
		bb.WriteText(ui.T(ed.buf), styled)
		bb.SetDotHere()
		return bb.Buffer()
	}

	code := ed.spec.Helper.Highlight(ed.buf, ed.dot)
	if code.String() != ed.buf {
		logger.Warnf("highlighter changed the content of %q", ed.buf)
		code = ui.T(ed.buf)
	}
	pos := 0
	for _, seg := range code {
		style := ""
		if styled {
			style = seg.SGR()
		}
		for _, r := range seg.Text {
			if pos == ed.dot {
				bb.SetDotHere()
			}
			bb.WriteRuneSGR(r, style)
			pos += utf8.RuneLen(r)
		}
	}
	if pos == ed.dot {
		bb.SetDotHere()
	}
	bb.WriteText(ed.spec.Helper.Hint(ed.buf, ed.dot), styled)
	if ed.pending != nil {
		bb.Newline()
		bb.WriteText(ui.T(listingQuestion(len(ed.pending.Items))), styled)
	}
	return bb.Buffer()
}

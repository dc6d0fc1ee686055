package term

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"src.wl.sh/pkg/logutil"
	"src.wl.sh/pkg/ui"
)

var logger = logutil.GetLogger("cli/term")

// Writer represents the output to a terminal.
type Writer interface {
	// Buffer returns the current buffer.
	Buffer() *Buffer
	// ResetBuffer resets the current buffer.
	ResetBuffer()
	// UpdateBuffer updates the terminal display to reflect buf. If msg is not
	// empty, it is written above the buffer and stays on the screen.
	UpdateBuffer(msg ui.Text, buf *Buffer, fullRefresh bool) error
	// Finish moves the cursor to a new line below the current buffer and
	// resets the buffer, leaving the content on the screen.
	Finish() error
	// ClearScreen clears the terminal screen and places the cursor at the top
	// left corner.
	ClearScreen()
}

type writer struct {
	file   io.Writer
	styled bool
	curBuf *Buffer
}

// NewWriter returns a Writer that writes VT100 sequences to the given
// io.Writer. When styled is false, messages are written without SGR
// sequences; the cells of buffers carry their own styles.
func NewWriter(f io.Writer, styled bool) Writer {
	return &writer{f, styled, &Buffer{}}
}

func (w *writer) Buffer() *Buffer { return w.curBuf }

func (w *writer) ResetBuffer() { w.curBuf = &Buffer{} }

// Calculates the escape sequence needed to move the cursor from one position
// to another, with relative movement for the line and absolute movement for
// the column.
func deltaPos(from, to Pos) []byte {
	buf := new(bytes.Buffer)
	if from.Line < to.Line {
		fmt.Fprintf(buf, "\033[%dB", to.Line-from.Line)
	} else if from.Line > to.Line {
		fmt.Fprintf(buf, "\033[%dA", from.Line-to.Line)
	}
	buf.WriteString("\r")
	if to.Col > 0 {
		fmt.Fprintf(buf, "\033[%dC", to.Col)
	}
	return buf.Bytes()
}

const (
	hideCursor = "\033[?25l"
	showCursor = "\033[?25h"
)

func (w *writer) UpdateBuffer(msg ui.Text, buf *Buffer, fullRefresh bool) error {
	if (buf.Width != w.curBuf.Width && w.curBuf.Lines != nil) || msg != nil {
		// Delta rendering is not meaningful after a width change or with a
		// message.
		fullRefresh = true
	}

	output := new(bytes.Buffer)
	output.WriteString(hideCursor)

	// Rewind to the start of the current buffer.
	if pLine := w.curBuf.Dot.Line; pLine > 0 {
		fmt.Fprintf(output, "\033[%dA", pLine)
	}
	output.WriteString("\r")

	if fullRefresh {
		// Write a space before erasing, so that tmux does not save the screen
		// in the scrollback buffer when the cursor is in the top left corner.
		output.WriteString(" \033[J\r")
	}

	if msg != nil {
		// Enable line wrapping for the message, so that copying it from the
		// terminal gives back the original lines.
		// Output post-processing is off in raw mode, so newlines in the
		// message need explicit carriage returns.
		text := strings.ReplaceAll(msg.Render(w.styled), "\n", "\r\n")
		output.WriteString("\033[?7h" + text + "\r\n\033[?7l")
	}

	style := ""
	switchStyle := func(newStyle string) {
		if newStyle != style {
			fmt.Fprintf(output, "\033[0;%sm", newStyle)
			style = newStyle
		}
	}
	writeCells := func(cs []Cell) {
		for _, c := range cs {
			switchStyle(c.Style)
			output.WriteString(c.Text)
		}
	}

	for i, line := range buf.Lines {
		if i > 0 {
			output.WriteString("\r\n")
		}
		if fullRefresh || i >= len(w.curBuf.Lines) {
			writeCells(line)
			continue
		}
		eq, j := compareCells(line, w.curBuf.Lines[i])
		if eq {
			continue
		}
		// Move to the first differing cell and rewrite from there.
		if firstCol := cellsWidth(line[:j]); firstCol != 0 {
			fmt.Fprintf(output, "\033[%dC", firstCol)
		}
		if j < len(w.curBuf.Lines[i]) {
			switchStyle("")
			output.WriteString("\033[K")
		}
		writeCells(line[j:])
	}
	if !fullRefresh && len(w.curBuf.Lines) > len(buf.Lines) {
		// Erase the lines of the old buffer that are no longer used.
		switchStyle("")
		output.WriteString("\r\n\033[J\033[A")
	}
	switchStyle("")
	output.Write(deltaPos(endPos(buf), buf.Dot))
	output.WriteString(showCursor)

	logger.Tracef("writing %q", output.String())
	if _, err := w.file.Write(output.Bytes()); err != nil {
		return err
	}
	w.curBuf = buf
	return nil
}

func (w *writer) Finish() error {
	var err error
	if w.curBuf.Lines != nil {
		_, err = w.file.Write(append(deltaPos(w.curBuf.Dot, endPos(w.curBuf)), "\r\n"...))
	}
	w.ResetBuffer()
	return err
}

func (w *writer) ClearScreen() {
	fmt.Fprint(w.file,
		"\033[H",  // move cursor to the top left corner
		"\033[2J", // clear entire buffer
	)
	w.ResetBuffer()
}

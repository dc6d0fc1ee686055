package term

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"src.wl.sh/pkg/ui"
)

// Cell is an indivisible unit on the screen. It is not necessarily 1 column
// wide.
type Cell struct {
	Text  string
	Style string
}

// Pos is a line/column position.
type Pos struct {
	Line, Col int
}

// Buffer reflects a rectangle area in the terminal, along with a cursor
// (called a "dot" here).
//
// The terminal cannot be queried for its content, so the writer keeps the
// last Buffer written and only synchronizes from the Buffer to the terminal.
// This requires the cell widths to agree with the terminal's.
type Buffer struct {
	Width int
	// Lines the content of the buffer.
	Lines [][]Cell
	// Dot is what the user perceives as the cursor.
	Dot Pos
}

func cellsWidth(cs []Cell) int {
	w := 0
	for _, c := range cs {
		w += runewidth.StringWidth(c.Text)
	}
	return w
}

// Returns whether two Cell slices are equal, and when they are not, the first
// index at which they differ.
func compareCells(r1, r2 []Cell) (bool, int) {
	for i, c := range r1 {
		if i >= len(r2) || c != r2[i] {
			return false, i
		}
	}
	if len(r1) < len(r2) {
		return false, len(r1)
	}
	return true, 0
}

// Returns the position of the cursor after writing the entire buffer.
func endPos(b *Buffer) Pos {
	return Pos{len(b.Lines) - 1, cellsWidth(b.Lines[len(b.Lines)-1])}
}

// String returns the content of the buffer, one line per line, without
// styles. Used in tests and logs.
func (b *Buffer) String() string {
	var sb strings.Builder
	for i, line := range b.Lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, c := range line {
			sb.WriteString(c.Text)
		}
	}
	return sb.String()
}

// GoString shows the buffer with its dot, for test failure messages.
func (b *Buffer) GoString() string {
	return fmt.Sprintf("Buffer{Width: %d, Dot: %v, Lines: %q}", b.Width, b.Dot, strings.Split(b.String(), "\n"))
}

// BufferBuilder supports building of Buffer. Lines that get longer than the
// width are wrapped.
type BufferBuilder struct {
	Width, Col, Indent int
	// EagerWrap controls whether to wrap eagerly, when the line just reaches
	// the full width. Otherwise wrapping happens when the next rune does not
	// fit.
	EagerWrap bool
	Lines     [][]Cell
	Dot       Pos
}

// NewBufferBuilder makes a new BufferBuilder, initially with one empty line.
func NewBufferBuilder(width int) *BufferBuilder {
	return &BufferBuilder{Width: width, Lines: [][]Cell{make([]Cell, 0, width)}}
}

// Cursor returns the position where the next rune would be written.
func (bb *BufferBuilder) Cursor() Pos {
	return Pos{len(bb.Lines) - 1, bb.Col}
}

// SetDotHere sets the dot of the buffer to the current position.
func (bb *BufferBuilder) SetDotHere() *BufferBuilder {
	bb.Dot = bb.Cursor()
	return bb
}

func (bb *BufferBuilder) appendLine() {
	bb.Lines = append(bb.Lines, make([]Cell, 0, bb.Width))
	bb.Col = 0
}

// Newline starts a new line, indented by bb.Indent.
func (bb *BufferBuilder) Newline() *BufferBuilder {
	bb.appendLine()
	for i := 0; i < bb.Indent; i++ {
		bb.appendCell(Cell{" ", ""}, 1)
	}
	return bb
}

func (bb *BufferBuilder) appendCell(c Cell, w int) {
	last := len(bb.Lines) - 1
	bb.Lines[last] = append(bb.Lines[last], c)
	bb.Col += w
}

// WriteRuneSGR writes a single rune with the given SGR style. A newline
// starts a new line; other control characters are written in caret notation.
func (bb *BufferBuilder) WriteRuneSGR(r rune, style string) *BufferBuilder {
	if r == '\n' {
		return bb.Newline()
	}
	text := string(r)
	switch {
	case r < 0x20:
		text = "^" + string(r+0x40)
	case r == 0x7f:
		text = "^?"
	}
	w := runewidth.StringWidth(text)
	if bb.Col+w > bb.Width && bb.Col > 0 {
		bb.Newline()
	}
	bb.appendCell(Cell{text, style}, w)
	if bb.EagerWrap && bb.Col >= bb.Width {
		bb.Newline()
	}
	return bb
}

// WriteStringSGR writes a string with the given SGR style.
func (bb *BufferBuilder) WriteStringSGR(s, style string) *BufferBuilder {
	for _, r := range s {
		bb.WriteRuneSGR(r, style)
	}
	return bb
}

// WriteText writes styled text. If styled is false, the styles are dropped.
func (bb *BufferBuilder) WriteText(t ui.Text, styled bool) *BufferBuilder {
	for _, seg := range t {
		style := ""
		if styled {
			style = seg.SGR()
		}
		bb.WriteStringSGR(seg.Text, style)
	}
	return bb
}

// Buffer returns a Buffer built by the BufferBuilder.
func (bb *BufferBuilder) Buffer() *Buffer {
	return &Buffer{bb.Width, bb.Lines, bb.Dot}
}

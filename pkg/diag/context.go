package diag

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Context is a range of text in a source. It is used for errors that can be
// associated with a part of the input, like parse errors.
type Context struct {
	Name   string
	Source string
	Ranging
}

// NewContext creates a new Context.
func NewContext(name, source string, r Ranger) *Context {
	return &Context{name, source, r.Range()}
}

// Variables controlling the style of the culprit.
var (
	culpritStart       = "\033[1;4m"
	culpritEnd         = "\033[m"
	culpritPlaceHolder = "^"
)

// Position returns the line and column of the start of the range.
func (c *Context) Position() Position {
	return PositionOf(c.Source, c.From)
}

// Describe returns "name:line:col", or a description of why the position is
// not usable.
func (c *Context) Describe() string {
	if err := c.checkPosition(); err != nil {
		return err.Error()
	}
	return c.Name + ":" + c.Position().String()
}

// Show shows the Context: a "name:line:col:" header on its own line, the
// source line(s) with the culprit marked, and a caret line under the start of
// the culprit.
func (c *Context) Show(indent string) string {
	if err := c.checkPosition(); err != nil {
		return err.Error()
	}
	head, culprit, tail := c.excerpt()
	var sb strings.Builder
	sb.WriteString(c.Describe() + ":\n")
	sb.WriteString(indent + head)
	writeCulprit(&sb, culprit, indent)
	sb.WriteString(tail + "\n")
	sb.WriteString(indent + strings.Repeat(" ", runewidth.StringWidth(head)))
	sb.WriteString(strings.Repeat("^", caretWidth(culprit)))
	return sb.String()
}

// ShowCompact shows the Context on as few lines as possible, with no caret
// line.
func (c *Context) ShowCompact(indent string) string {
	if err := c.checkPosition(); err != nil {
		return err.Error()
	}
	desc := c.Describe() + ": "
	// Extra indent so that following lines line up with the first line.
	descIndent := strings.Repeat(" ", runewidth.StringWidth(desc))
	head, culprit, tail := c.excerpt()
	var sb strings.Builder
	sb.WriteString(desc + head)
	writeCulprit(&sb, culprit, indent+descIndent)
	sb.WriteString(tail)
	return sb.String()
}

func (c *Context) checkPosition() error {
	if c.From == -1 {
		return fmt.Errorf("%s, unknown position", c.Name)
	} else if c.From < 0 || c.To > len(c.Source) || c.From > c.To {
		return fmt.Errorf("%s, invalid position %d-%d", c.Name, c.From, c.To)
	}
	return nil
}

// Returns the text before the culprit on its first line, the culprit with
// trailing newlines stripped, and the text after the culprit on its last
// line.
func (c *Context) excerpt() (head, culprit, tail string) {
	head = lastLine(c.Source[:c.From])
	culprit = c.Source[c.From:c.To]
	if strings.HasSuffix(culprit, "\n") {
		culprit = strings.TrimRight(culprit, "\n")
	} else {
		tail = firstLine(c.Source[c.To:])
	}
	return head, culprit, tail
}

func writeCulprit(sb *strings.Builder, culprit, indent string) {
	if culprit == "" {
		culprit = culpritPlaceHolder
	}
	for i, line := range strings.Split(culprit, "\n") {
		if i > 0 {
			sb.WriteByte('\n')
			sb.WriteString(indent)
		}
		sb.WriteString(culpritStart + line + culpritEnd)
	}
}

func caretWidth(culprit string) int {
	if w := runewidth.StringWidth(firstLine(culprit)); w > 0 {
		return w
	}
	return 1
}

// Package ui contains types for styled text and keys, shared by the line
// editors and the read loop.
package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Segment is a string that has some style applied to it.
type Segment struct {
	Style
	Text string
}

// Text is a list of styled Segments.
type Text []*Segment

// T constructs a new Text with the given content and the given Styling's
// applied.
func T(s string, ts ...Styling) Text {
	if s == "" {
		return nil
	}
	return Text{&Segment{ApplyStyling(Style{}, ts...), s}}
}

// Concat returns a new Text with the segments of t and the given Texts.
func Concat(ts ...Text) Text {
	var newt Text
	for _, t := range ts {
		newt = append(newt, t...)
	}
	return newt
}

// String returns the content of the Text without any styling.
func (t Text) String() string {
	var sb strings.Builder
	for _, seg := range t {
		sb.WriteString(seg.Text)
	}
	return sb.String()
}

// VTString renders the Text for a VT-compatible terminal. Each styled segment
// is wrapped in an SGR sequence and a reset.
func (t Text) VTString() string {
	var sb strings.Builder
	for _, seg := range t {
		sgr := seg.SGR()
		if sgr == "" {
			sb.WriteString(seg.Text)
			continue
		}
		sb.WriteString("\033[" + sgr + "m")
		sb.WriteString(seg.Text)
		sb.WriteString("\033[m")
	}
	return sb.String()
}

// Render renders the Text with VTString if styled is true, and String
// otherwise.
func (t Text) Render(styled bool) string {
	if styled {
		return t.VTString()
	}
	return t.String()
}

// Width returns the number of terminal cells the Text occupies.
func (t Text) Width() int {
	return runewidth.StringWidth(t.String())
}

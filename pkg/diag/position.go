package diag

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Ranging is a range [From, To) of byte offsets within a source. Structs
// embed it to satisfy Ranger.
type Ranging struct {
	From int
	To   int
}

// Ranger is implemented by values with a source range, like AST nodes and
// errors.
type Ranger interface {
	Range() Ranging
}

func (r Ranging) Range() Ranging { return r }

// Contains reports whether the cursor position p touches r. Both ends are
// included, so a cursor just after a token is still on it.
func (r Ranging) Contains(p int) bool { return r.From <= p && p <= r.To }

// PointRanging returns the empty Ranging at p.
func PointRanging(p int) Ranging { return Ranging{p, p} }

// MixedRanging returns the Ranging spanning from the start of a to the end of
// b.
func MixedRanging(a, b Ranger) Ranging {
	return Ranging{a.Range().From, b.Range().To}
}

// Position is a human-facing location in a source: a 1-based line number and
// a 1-based column counted in codepoints.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// PositionOf returns the Position of the byte offset idx in source. Offsets
// beyond the end of source are clamped.
func PositionOf(source string, idx int) Position {
	if idx < 0 {
		idx = 0
	} else if idx > len(source) {
		idx = len(source)
	}
	before := source[:idx]
	line := strings.Count(before, "\n") + 1
	col := utf8.RuneCountInString(lastLine(before)) + 1
	return Position{line, col}
}

func firstLine(s string) string {
	i := strings.IndexByte(s, '\n')
	if i == -1 {
		return s
	}
	return s[:i]
}

func lastLine(s string) string {
	// When s does not contain '\n', LastIndexByte returns -1, which happens to
	// be what we want.
	return s[strings.LastIndexByte(s, '\n')+1:]
}

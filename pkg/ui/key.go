package ui

import "fmt"

// Key is a single keyboard input, typically assembled from an escape
// sequence.
type Key struct {
	Rune rune
	Mod  Mod
}

// K constructs a new Key.
func K(r rune, mods ...Mod) Key {
	var mod Mod
	for _, m := range mods {
		mod |= m
	}
	return Key{r, mod}
}

// Mod is a modifier key.
type Mod byte

// Values for Mod.
const (
	// Shift is only applied to function keys (e.g. Shift-F1). Printable
	// characters typed with shift are not considered shift-modified.
	Shift Mod = 1 << iota
	// Alt is also known as the meta modifier.
	Alt
	Ctrl
)

// Negative runes that represent function keys in the Rune field of Key.
const (
	F1 rune = -iota - 1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12

	Up
	Down
	Right
	Left

	Home
	Insert
	Delete
	End
	PageUp
	PageDown

	Tab       = '\t'
	Enter     = '\n'
	Backspace = 0x7f
)

var functionKeyNames = [...]string{
	"(Invalid)",
	"F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8", "F9", "F10", "F11", "F12",
	"Up", "Down", "Right", "Left",
	"Home", "Insert", "Delete", "End", "PageUp", "PageDown",
}

var keyNames = map[rune]string{
	Tab: "Tab", Enter: "Enter", Backspace: "Backspace",
}

func (k Key) String() string {
	var s string
	if k.Mod&Ctrl != 0 {
		s += "Ctrl-"
	}
	if k.Mod&Alt != 0 {
		s += "Alt-"
	}
	if k.Mod&Shift != 0 {
		s += "Shift-"
	}
	switch {
	case k.Rune > 0:
		if name, ok := keyNames[k.Rune]; ok {
			s += name
		} else {
			s += string(k.Rune)
		}
	case int(-k.Rune) < len(functionKeyNames):
		s += functionKeyNames[-k.Rune]
	default:
		s += fmt.Sprintf("(bad function key %d)", -k.Rune)
	}
	return s
}

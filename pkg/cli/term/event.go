// Package term provides the terminal layer of the line editor: decoding of
// key sequences read from a terminal file and incremental rendering of the
// editor buffer as VT100 sequences.
package term

import "src.wl.sh/pkg/ui"

// Event represents an event that can be read from the terminal.
type Event interface {
	isEvent()
}

// KeyEvent represents a key press.
type KeyEvent ui.Key

// K constructs a new KeyEvent.
func K(r rune, mods ...ui.Mod) KeyEvent {
	return KeyEvent(ui.K(r, mods...))
}

// CursorPosition represents a report of the current cursor position from the
// terminal, usually as a response to a cursor position request.
type CursorPosition Pos

// PasteSetting indicates the start or finish of pasted text.
type PasteSetting bool

func (KeyEvent) isEvent()       {}
func (CursorPosition) isEvent() {}
func (PasteSetting) isEvent()   {}

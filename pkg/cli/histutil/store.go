// Package histutil provides the command history of the line editors.
package histutil

import (
	"errors"

	"src.wl.sh/pkg/store"
)

// Store is an abstract interface for history store.
type Store interface {
	// AddCmd adds a new command to the history and returns its sequence
	// number. Empty commands, and with duplicate suppression a command equal
	// to the last one, are not recorded; the sequence number is then -1.
	AddCmd(text string) (int, error)
	// AllCmds returns all commands kept in the store, oldest first.
	AllCmds() ([]store.Cmd, error)
	// Cursor returns a cursor that iterates through commands with the given
	// prefix. The cursor is initially placed just after the last command.
	Cursor(prefix string) Cursor
}

// Cursor is used to navigate a Store.
type Cursor interface {
	// Prev moves the cursor to the previous command.
	Prev()
	// Next moves the cursor to the next command.
	Next()
	// Get returns the command the cursor is currently at, or any error if the
	// cursor is in an invalid state. If the cursor is "over the edge", the
	// error is ErrEndOfHistory.
	Get() (store.Cmd, error)
}

// ErrEndOfHistory is returned by Cursor.Get if the cursor is currently over
// the edge.
var ErrEndOfHistory = errors.New("end of history")

package diag

import "fmt"

// ErrorTag is used to parameterize Error into different concrete types. The
// ErrorTag method returns a string that is used as the type of the error. A
// tag type may carry extra fields describing the error.
type ErrorTag interface {
	ErrorTag() string
}

// Error represents an error with context that can be showed.
type Error[T ErrorTag] struct {
	Tag     T
	Message string
	Context Context
}

// Error returns a plain text representation of the error, including the
// position.
func (e *Error[T]) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Tag.ErrorTag(), e.Context.Describe(), e.Message)
}

// Range returns the range of the error.
func (e *Error[T]) Range() Ranging {
	return e.Context.Range()
}

// Show shows the error with its type and message on the first line, followed
// by the context.
func (e *Error[T]) Show(indent string) string {
	return ShowMessage(e.Tag.ErrorTag(), e.Message) + "\n" + indent + e.Context.Show(indent+"  ")
}

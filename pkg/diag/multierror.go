package diag

import "strings"

// MultiError packs multiple errors into one error.
type MultiError struct {
	Errors []error
}

func (es MultiError) Error() string {
	switch len(es.Errors) {
	case 0:
		return "no error"
	case 1:
		return es.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("multiple errors: ")
	for i, e := range es.Errors {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(e.Error())
	}
	return sb.String()
}

// Errors combines multiple errors into one. It returns nil if all errors are
// nil and the only non-nil error if there is exactly one. Otherwise it returns
// a MultiError, flattening any MultiError arguments.
func Errors(errs ...error) error {
	var nonNil []error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if multi, ok := err.(MultiError); ok {
			nonNil = append(nonNil, multi.Errors...)
		} else {
			nonNil = append(nonNil, err)
		}
	}
	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	default:
		return MultiError{nonNil}
	}
}

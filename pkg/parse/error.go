package parse

import (
	"errors"
	"strings"
	"unicode/utf8"

	"src.wl.sh/pkg/diag"
	"src.wl.sh/pkg/parse/grammar"
)

// SyntaxError is returned for malformed input.
type SyntaxError = diag.Error[SyntaxErrorTag]

// SyntaxErrorTag parameterizes diag.Error to define SyntaxError.
type SyntaxErrorTag struct {
	// Descriptions of what was expected at the error position.
	Expected []string
	// Rules being matched at the error position, outermost first.
	RuleStack []string
}

func (SyntaxErrorTag) ErrorTag() string { return "syntax error" }

// IncompleteError is returned for input that is a valid prefix of a longer
// input, like an unclosed bracket. More input may complete it.
type IncompleteError = diag.Error[IncompleteErrorTag]

// IncompleteErrorTag parameterizes diag.Error to define IncompleteError.
type IncompleteErrorTag struct {
	Expected  []string
	RuleStack []string
}

func (IncompleteErrorTag) ErrorTag() string { return "incomplete input" }

// IsIncomplete returns whether err is an *IncompleteError.
func IsIncomplete(err error) bool {
	var incomplete *IncompleteError
	return errors.As(err, &incomplete)
}

func newFailureError(src Source, f *grammar.Failure) error {
	if f.AtEnd {
		msg := "unexpected end of input"
		if expected := f.ExpectedString(); expected != "" {
			msg += ", should be " + expected
		}
		return &IncompleteError{
			Tag:     IncompleteErrorTag{f.Expected, f.RuleStack},
			Message: msg,
			Context: *diag.NewContext(src.Name, src.Code, diag.PointRanging(f.Pos)),
		}
	}
	r, size := utf8.DecodeRuneInString(src.Code[f.Pos:])
	var sb strings.Builder
	sb.WriteString("unexpected ")
	sb.WriteString(quoteRune(r))
	if expected := f.ExpectedString(); expected != "" {
		sb.WriteString(", should be " + expected)
	}
	return &SyntaxError{
		Tag:     SyntaxErrorTag{f.Expected, f.RuleStack},
		Message: sb.String(),
		Context: *diag.NewContext(src.Name, src.Code, diag.Ranging{From: f.Pos, To: f.Pos + size}),
	}
}

func newSyntaxError(src Source, r diag.Ranger, msg string) error {
	return &SyntaxError{
		Message: msg,
		Context: *diag.NewContext(src.Name, src.Code, r),
	}
}

func newEmptyInputError(src Source) error {
	return &IncompleteError{
		Message: "empty input",
		Context: *diag.NewContext(src.Name, src.Code, diag.PointRanging(len(src.Code))),
	}
}

func quoteRune(r rune) string {
	switch r {
	case '\'':
		return `"'"`
	case '\n':
		return "newline"
	}
	return "'" + string(r) + "'"
}

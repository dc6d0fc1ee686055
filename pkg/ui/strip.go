package ui

import (
	"io"
	"regexp"
)

var sgrPattern = regexp.MustCompile("\033\\[[0-9;]*m")

// StripSGR removes all SGR sequences from s.
func StripSGR(s string) string {
	return sgrPattern.ReplaceAllString(s, "")
}

// NewPlainWriter returns a Writer that removes SGR sequences from everything
// written to w. Each Write call must contain whole sequences.
func NewPlainWriter(w io.Writer) io.Writer {
	return plainWriter{w}
}

type plainWriter struct{ w io.Writer }

func (pw plainWriter) Write(p []byte) (int, error) {
	_, err := pw.w.Write(sgrPattern.ReplaceAll(p, nil))
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

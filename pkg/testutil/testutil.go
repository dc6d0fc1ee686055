// Package testutil contains helpers shared by the tests of other packages.
package testutil

import (
	"os"
	"strconv"
	"strings"
	"time"

	"src.wl.sh/pkg/env"
)

// Cleanuper is the subset of [testing.TB] needed to undo changes after a test.
type Cleanuper interface {
	Cleanup(func())
}

// Set sets *p to v, and restores the old value when the test finishes.
func Set[T any](c Cleanuper, p *T, v T) {
	old := *p
	*p = v
	c.Cleanup(func() { *p = old })
}

// Setenv sets an environment variable, and restores or unsets it when the test
// finishes. It returns value.
func Setenv(c Cleanuper, name, value string) string {
	if old, ok := os.LookupEnv(name); ok {
		c.Cleanup(func() { os.Setenv(name, old) })
	} else {
		c.Cleanup(func() { os.Unsetenv(name) })
	}
	os.Setenv(name, value)
	return value
}

// Scaled multiplies d by the positive number in $WL_TEST_TIME_SCALE, so that
// timeouts can be relaxed on slow machines. A missing or malformed value
// means 1.
func Scaled(d time.Duration) time.Duration {
	scale, err := strconv.ParseFloat(os.Getenv(env.WL_TEST_TIME_SCALE), 64)
	if err != nil || scale <= 0 {
		return d
	}
	return time.Duration(float64(d) * scale)
}

// Dedent strips the indentation shared by all non-blank lines of text, and
// drops one leading newline so that a raw string can start on the line after
// its backtick. Lines containing only spaces and tabs become empty.
func Dedent(text string) string {
	text = strings.TrimPrefix(text, "\n")
	lines := strings.Split(text, "\n")
	margin, first := "", true
	for i, line := range lines {
		content := strings.TrimLeft(line, " \t")
		if content == "" {
			lines[i] = ""
			continue
		}
		indent := line[:len(line)-len(content)]
		if first {
			margin, first = indent, false
		} else {
			margin = commonPrefix(margin, indent)
		}
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, margin)
	}
	return strings.Join(lines, "\n")
}

func commonPrefix(a, b string) string {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return a[:n]
}

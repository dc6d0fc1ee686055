package diag

import (
	"errors"
	"strings"
	"testing"

	"src.wl.sh/pkg/testutil"
)

var dedent = testutil.Dedent

func setCulpritMarkers(t *testing.T, start, end string) {
	testutil.Set(t, &culpritStart, start)
	testutil.Set(t, &culpritEnd, end)
}

func setMessageMarkers(t *testing.T, start, end string) {
	testutil.Set(t, &messageStart, start)
	testutil.Set(t, &messageEnd, end)
}

type showerError struct{}

func (showerError) Error() string        { return "error" }
func (showerError) Show(_ string) string { return "show" }

func TestShowError(t *testing.T) {
	setCulpritMarkers(t, "[", "]")
	setMessageMarkers(t, "{", "}")
	for _, test := range []struct {
		name string
		err  error
		want string
	}{
		{"Shower", showerError{}, "show\n"},
		{"plain error", errors.New("cannot evaluate"), "{cannot evaluate}\n"},
		{
			"error with context",
			&Error[testErrorTag]{
				Message: "unexpected ')'",
				Context: *NewContext("In[0]", "1 + )", Ranging{4, 5})},
			"Test error: {unexpected ')'}\nIn[0]:1:5:\n  1 + [)]\n      ^\n",
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			var sb strings.Builder
			ShowError(&sb, test.err)
			if sb.String() != test.want {
				t.Errorf("wrote %q, want %q", sb.String(), test.want)
			}
		})
	}
}

func TestComplainf(t *testing.T) {
	setMessageMarkers(t, "{", "}")
	var sb strings.Builder
	Complainf(&sb, "%d errors", 2)
	if got := sb.String(); got != "{2 errors}\n" {
		t.Errorf("Complainf wrote %q", got)
	}
}

func TestShowMessage(t *testing.T) {
	setMessageMarkers(t, "{", "}")
	if got, want := ShowMessage("syntax error", "bad"), "Syntax error: {bad}"; got != want {
		t.Errorf("ShowMessage -> %q, want %q", got, want)
	}
}

package testutil

import (
	"os"
	"testing"
	"time"

	"src.wl.sh/pkg/env"
	"src.wl.sh/pkg/tt"
)

func TestSet(t *testing.T) {
	x := 1
	t.Run("inner", func(t *testing.T) {
		Set(t, &x, 2)
		if x != 2 {
			t.Errorf("x = %d during the test, want 2", x)
		}
	})
	if x != 1 {
		t.Errorf("x = %d after the test, want 1", x)
	}
}

func TestSetenv(t *testing.T) {
	const name = "WL_TESTUTIL_SETENV"
	os.Unsetenv(name)
	t.Run("inner", func(t *testing.T) {
		if v := Setenv(t, name, "foo"); v != "foo" {
			t.Errorf("Setenv returned %q", v)
		}
		if v := os.Getenv(name); v != "foo" {
			t.Errorf("$%s = %q during the test, want foo", name, v)
		}
	})
	if _, ok := os.LookupEnv(name); ok {
		t.Errorf("$%s still set after the test", name)
	}
}

func TestScaled(t *testing.T) {
	for _, test := range []struct {
		scale string
		d     time.Duration
		want  time.Duration
	}{
		{"", 10 * time.Millisecond, 10 * time.Millisecond},
		{"2", 3 * time.Second, 6 * time.Second},
		{"0.5", 10 * time.Millisecond, 5 * time.Millisecond},
		{"x", 10 * time.Millisecond, 10 * time.Millisecond},
		{"0", 10 * time.Millisecond, 10 * time.Millisecond},
		{"-1", 10 * time.Millisecond, 10 * time.Millisecond},
	} {
		t.Run("scale "+test.scale, func(t *testing.T) {
			Setenv(t, env.WL_TEST_TIME_SCALE, test.scale)
			if got := Scaled(test.d); got != test.want {
				t.Errorf("Scaled(%v) = %v, want %v", test.d, got, test.want)
			}
		})
	}
}

func TestDedent(t *testing.T) {
	tt.Test(t, tt.Fn("Dedent", Dedent), tt.Table{
		tt.Args("\n  a\n    b\n  c\n").Rets("a\n  b\nc\n"),
		tt.Args("  a\n\n  b").Rets("a\n\nb"),
		tt.Args("\t a\n\t  b").Rets("a\n b"),
		tt.Args("  a\n \n  b").Rets("a\n\nb"),
		tt.Args(" a\n\tb").Rets(" a\n\tb"),
		tt.Args("a\n  b").Rets("a\n  b"),
	})
}

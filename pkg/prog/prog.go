// Package prog supports building testable, composable programs.
//
// The main abstraction of this package is the Program interface. A Program
// registers the flags it understands and is then run with the remaining
// arguments. Several Programs can be combined with Composite; the first one
// that does not return ErrNextProgram wins.
package prog

import (
	"flag"
	"fmt"
	"io"
	"os"

	"src.wl.sh/pkg/env"
	"src.wl.sh/pkg/logutil"
)

// Program represents a subprogram.
type Program interface {
	RegisterFlags(fs *FlagSet)
	// Run runs the subprogram. It may return ErrNextProgram to pass control
	// to the next subprogram in a Composite.
	Run(fds [3]*os.File, args []string) error
}

// Environment variables consulted for the defaults of the logging flags.
const (
	LogFileEnv  = env.WL_LOG_FILE
	LogLevelEnv = env.WL_LOG_LEVEL
	LogModeEnv  = env.WL_LOG_MODE
)

type commonFlags struct {
	help     bool
	logFile  string
	logLevel string
	logMode  string
}

func registerCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.BoolVar(&f.help, "help", false, "Show usage help and quit")
	logFile := os.Getenv(LogFileEnv)
	fs.StringVar(&f.logFile, "log-file", logFile,
		"A file to write the log to (env "+LogFileEnv+")")
	fs.StringVar(&f.logFile, "log", logFile, "Alias of -log-file")
	fs.StringVar(&f.logLevel, "log-level", envOr(LogLevelEnv, "info"),
		"Logging level: off, error, warn, info, debug or trace (env "+LogLevelEnv+")")
	fs.StringVar(&f.logMode, "log-mode", envOr(LogModeEnv, "append"),
		"Whether to append to or overwrite the log file: append or overwrite (env "+LogModeEnv+")")
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func setupLogging(f *commonFlags) error {
	level, err := logutil.ParseLevel(f.logLevel)
	if err != nil {
		return err
	}
	var appendMode bool
	switch f.logMode {
	case "append":
		appendMode = true
	case "overwrite":
	default:
		return fmt.Errorf("invalid log mode %q, must be append or overwrite", f.logMode)
	}
	logutil.SetLevel(level)
	return logutil.SetOutputFile(f.logFile, appendMode)
}

// Run parses command-line flags and runs the first applicable subprogram. It
// returns the exit status of the program.
func Run(fds [3]*os.File, args []string, p Program) int {
	fs := flag.NewFlagSet("wl", flag.ContinueOnError)
	// Error and usage will be printed explicitly.
	fs.SetOutput(io.Discard)

	var f commonFlags
	registerCommonFlags(fs, &f)
	p.RegisterFlags(&FlagSet{FlagSet: fs})

	err := fs.Parse(args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			// (*flag.FlagSet).Parse returns ErrHelp when -h was requested but
			// not defined. Treat it like any other undefined flag.
			fmt.Fprintln(fds[2], "flag provided but not defined: -h")
		} else {
			fmt.Fprintln(fds[2], err)
		}
		usage(fds[2], fs)
		return 2
	}

	if f.help {
		usage(fds[1], fs)
		return 0
	}

	if err := setupLogging(&f); err != nil {
		fmt.Fprintln(fds[2], err)
		usage(fds[2], fs)
		return 2
	}
	defer logutil.SetOutput(io.Discard)

	err = p.Run(fds, fs.Args())
	if err == nil {
		return 0
	}
	if np, ok := err.(nextProgramError); ok {
		np.runCleanups(fds)
		fmt.Fprintln(fds[2], "internal error: no suitable subprogram")
		return 2
	}
	if msg := err.Error(); msg != "" {
		fmt.Fprintln(fds[2], msg)
	}
	switch err := err.(type) {
	case badUsageError:
		usage(fds[2], fs)
	case exitError:
		return err.exit
	}
	return 2
}

func usage(out io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(out, "Usage: wl [flags]")
	fmt.Fprintln(out, "Supported flags:")
	fs.SetOutput(out)
	fs.PrintDefaults()
	fs.SetOutput(io.Discard)
}

// Composite returns a Program made up from other programs. It registers the
// flags of all of them, and runs them in turn until one of them does not
// return an error from NextProgram. The cleanups carried by such errors are
// run in reverse order after that program finishes.
func Composite(programs ...Program) Program {
	return composite(programs)
}

type composite []Program

func (cp composite) RegisterFlags(f *FlagSet) {
	for _, p := range cp {
		p.RegisterFlags(f)
	}
}

func (cp composite) Run(fds [3]*os.File, args []string) error {
	var cleanups []func([3]*os.File)
	for _, p := range cp {
		err := p.Run(fds, args)
		np, ok := err.(nextProgramError)
		if !ok {
			nextProgramError{cleanups}.runCleanups(fds)
			return err
		}
		cleanups = append(cleanups, np.cleanups...)
	}
	// If we have reached here, all subprograms have returned NextProgram
	return NextProgram(cleanups...)
}

// NextProgram returns a special error that may be returned by Program.Run that
// is part of a Composite program, indicating that the next program should be
// tried. It can carry cleanup functions that are run after the next program
// has finished.
func NextProgram(cleanups ...func([3]*os.File)) error {
	return nextProgramError{cleanups}
}

// ErrNextProgram is NextProgram without cleanups.
var ErrNextProgram = NextProgram()

type nextProgramError struct{ cleanups []func([3]*os.File) }

func (e nextProgramError) Error() string { return "next program" }

func (e nextProgramError) runCleanups(fds [3]*os.File) {
	for i := len(e.cleanups) - 1; i >= 0; i-- {
		e.cleanups[i](fds)
	}
}

// BadUsage returns a special error that may be returned by Program.Run. It
// causes the main function to print out a message, the usage information and
// exit with 2.
func BadUsage(msg string) error { return badUsageError{msg} }

type badUsageError struct{ msg string }

func (e badUsageError) Error() string { return e.msg }

// Exit returns a special error that may be returned by Program.Run. It causes
// the main function to exit with the given code without printing any error
// messages. Exit(0) returns nil.
func Exit(exit int) error {
	if exit == 0 {
		return nil
	}
	return exitError{exit}
}

type exitError struct{ exit int }

func (e exitError) Error() string { return "" }

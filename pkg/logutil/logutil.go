// Package logutil provides leveled loggers for the different parts of wl.
//
// All loggers share one output and one level. Output is discarded until
// SetOutput or SetOutputFile is called.
package logutil

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a log message.
type Level int

// Possible values of Level, from least to most verbose.
const (
	Off Level = iota
	Error
	Warn
	Info
	Debug
	Trace
)

var levelNames = [...]string{"OFF", "ERROR", "WARN", "INFO", "DEBUG", "TRACE"}

func (l Level) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel parses a level name, case-insensitively.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return Off, fmt.Errorf("invalid log level %q, must be one of off, error, warn, info, debug, trace", s)
}

var (
	mu      sync.Mutex
	out     io.Writer = io.Discard
	level             = Info
	outFile *os.File
	// Overridden in tests.
	now = time.Now
)

// Logger writes messages tagged with a target name.
type Logger struct {
	target string
}

// GetLogger returns a logger for the given target.
func GetLogger(target string) *Logger {
	return &Logger{target}
}

// SetOutput redirects the output of all loggers. It closes any file opened by
// an earlier SetOutputFile call.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	setOutput(w)
}

// SetOutputFile redirects the output of all loggers to the named file. The
// file is appended to if appendMode is true and truncated otherwise. An empty
// name discards the output.
func SetOutputFile(name string, appendMode bool) error {
	if name == "" {
		SetOutput(io.Discard)
		return nil
	}
	flag := os.O_WRONLY | os.O_CREATE
	if appendMode {
		flag |= os.O_APPEND
	} else {
		flag |= os.O_TRUNC
	}
	file, err := os.OpenFile(name, flag, 0644)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	setOutput(file)
	outFile = file
	return nil
}

func setOutput(w io.Writer) {
	if outFile != nil {
		outFile.Close()
		outFile = nil
	}
	out = w
}

// SetLevel sets the most verbose level that gets written.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// Enabled returns whether messages at level l are written.
func Enabled(l Level) bool {
	mu.Lock()
	defer mu.Unlock()
	return l != Off && l <= level
}

func (lg *Logger) log(l Level, msg string) {
	mu.Lock()
	defer mu.Unlock()
	if l == Off || l > level {
		return
	}
	line := fmt.Sprintf("[%s] [%s] [%s] %s",
		l, now().Format("2006-01-02 15:04:05"), lg.target, msg)
	log.New(out, "", 0).Output(3, line)
}

func (lg *Logger) Errorf(format string, args ...any) { lg.log(Error, fmt.Sprintf(format, args...)) }
func (lg *Logger) Warnf(format string, args ...any)  { lg.log(Warn, fmt.Sprintf(format, args...)) }
func (lg *Logger) Infof(format string, args ...any)  { lg.log(Info, fmt.Sprintf(format, args...)) }
func (lg *Logger) Debugf(format string, args ...any) { lg.log(Debug, fmt.Sprintf(format, args...)) }
func (lg *Logger) Tracef(format string, args ...any) { lg.log(Trace, fmt.Sprintf(format, args...)) }

// Println logs at the debug level, for code that treats the logger like a
// standard *log.Logger.
func (lg *Logger) Println(args ...any) {
	lg.log(Debug, strings.TrimSuffix(fmt.Sprintln(args...), "\n"))
}

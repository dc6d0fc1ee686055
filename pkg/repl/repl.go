// Package repl implements the read loop of the interactive session.
//
// The loop reads lines from a cli.LineReader, accumulates them until they
// form a complete expression, and hands each expression to an Evaluator
// together with its sequence number. Only successfully parsed inputs consume
// a sequence number.
package repl

import (
	"fmt"
	"io"
	"strconv"

	"src.wl.sh/pkg/cli"
	"src.wl.sh/pkg/diag"
	"src.wl.sh/pkg/logutil"
	"src.wl.sh/pkg/parse"
	"src.wl.sh/pkg/parse/grammar"
	"src.wl.sh/pkg/ui"
)

var logger = logutil.GetLogger("repl")

// State is the state of a Loop.
type State int

// Possible values of State.
const (
	// Waiting for the first line of an input.
	AwaitingLine State = iota
	// Parsing the pending input, reading continuation lines if it is
	// incomplete.
	Accumulating
	// Handing a parsed expression to the Evaluator.
	Dispatching
	// The loop has finished.
	Terminated
)

var stateNames = [...]string{"AwaitingLine", "Accumulating", "Dispatching", "Terminated"}

func (s State) String() string { return stateNames[s] }

// Spec specifies the collaborators and settings of a Loop.
type Spec struct {
	Reader    cli.LineReader
	Parser    *parse.Parser
	Evaluator Evaluator
	// Where syntax and evaluation errors are shown.
	Stderr io.Writer
	// Prompt for continuation lines.
	ContinuationPrompt string
}

// Loop is the read loop. It is not safe for concurrent use.
type Loop struct {
	spec    Spec
	state   State
	seq     int
	pending string
	expr    parse.Node
}

// New creates a Loop. A nil Parser means the default parser, and a nil
// Evaluator means one that discards expressions.
func New(spec Spec) *Loop {
	if spec.Parser == nil {
		spec.Parser = parse.DefaultParser()
	}
	if spec.Evaluator == nil {
		spec.Evaluator = EvaluatorFunc(func(int, parse.Node) error { return nil })
	}
	if spec.Stderr == nil {
		spec.Stderr = io.Discard
	}
	return &Loop{spec: spec}
}

// State returns the current state.
func (l *Loop) State() State { return l.state }

// Seq returns the sequence number the next accepted input will get.
func (l *Loop) Seq() int { return l.seq }

// Pending returns the accumulated text of an incomplete input.
func (l *Loop) Pending() string { return l.pending }

// SetReader replaces the LineReader. The sequence number and any pending
// input are kept, so a failed reader can be swapped out and Run called again.
func (l *Loop) SetReader(r cli.LineReader) { l.spec.Reader = r }

// Run runs the loop until the input ends. It only returns an error if the
// LineReader fails.
func (l *Loop) Run() error {
	for l.state != Terminated {
		if err := l.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step performs one transition of the loop.
func (l *Loop) Step() error {
	switch l.state {
	case AwaitingLine:
		return l.awaitLine()
	case Accumulating:
		return l.accumulate()
	case Dispatching:
		l.dispatch()
	}
	return nil
}

func (l *Loop) awaitLine() error {
	res, err := l.spec.Reader.ReadLine(InputPrompt(l.seq))
	if err != nil {
		return err
	}
	switch res.Kind {
	case cli.Line:
		if grammar.IsTrivia(res.Text) {
			return nil
		}
		l.pending = res.Text
		l.state = Accumulating
	default:
		logger.Debugf("input ended: %v", res.Kind)
		l.state = Terminated
	}
	return nil
}

func (l *Loop) accumulate() error {
	if grammar.IsTrivia(l.pending) {
		l.reset()
		return nil
	}
	expr, err := l.spec.Parser.Parse(l.source())
	switch {
	case err == nil:
		l.expr = expr
		l.state = Dispatching
		return nil
	case !parse.IsIncomplete(err):
		logger.Debugf("syntax error: %v", err)
		diag.ShowError(l.spec.Stderr, err)
		l.reset()
		return nil
	}

	res, readErr := l.spec.Reader.ReadLine(ui.T(l.spec.ContinuationPrompt))
	if readErr != nil {
		return readErr
	}
	switch res.Kind {
	case cli.Line:
		l.pending += "\n" + res.Text
	case cli.Interrupted:
		logger.Debugf("abandoned incomplete input %q", l.pending)
		l.reset()
	case cli.EOF:
		diag.ShowError(l.spec.Stderr, err)
		l.pending = ""
		l.state = Terminated
	}
	return nil
}

func (l *Loop) dispatch() {
	seq := l.seq
	l.seq++
	logger.Infof("In[%d] := %s", seq, l.pending)
	if err := l.spec.Evaluator.Eval(seq, l.expr); err != nil {
		diag.ShowError(l.spec.Stderr, err)
	}
	l.reset()
}

func (l *Loop) reset() {
	l.pending = ""
	l.expr = nil
	l.state = AwaitingLine
}

func (l *Loop) source() parse.Source {
	return parse.Source{Name: fmt.Sprintf("In[%d]", l.seq), Code: l.pending}
}

// InputPrompt returns the prompt for the first line of the input with the
// given sequence number.
func InputPrompt(seq int) ui.Text {
	return ui.Concat(ui.T(" "),
		ui.T("In[", ui.FgBlue), ui.T(strconv.Itoa(seq)), ui.T("]", ui.FgBlue), ui.T(" := "))
}

// OutputPrompt returns the prompt shown before the result of the input with
// the given sequence number.
func OutputPrompt(seq int) ui.Text {
	return ui.Concat(
		ui.T("Out[", ui.FgBlue), ui.T(strconv.Itoa(seq)), ui.T("]", ui.FgBlue), ui.T("  = "))
}

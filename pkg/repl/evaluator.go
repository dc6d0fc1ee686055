package repl

import (
	"io"

	"src.wl.sh/pkg/parse"
)

// Evaluator consumes the expressions accepted by a Loop.
type Evaluator interface {
	// Eval is called with the sequence number of each accepted input and its
	// expression. An error is shown and does not stop the loop.
	Eval(seq int, expr parse.Node) error
}

// EvaluatorFunc adapts a function to an Evaluator.
type EvaluatorFunc func(seq int, expr parse.Node) error

func (f EvaluatorFunc) Eval(seq int, expr parse.Node) error { return f(seq, expr) }

// EchoEvaluator writes the full form of each expression after an output
// prompt, like "Out[0]  = Plus[1, 2]".
type EchoEvaluator struct {
	Out    io.Writer
	Styled bool
}

func (e EchoEvaluator) Eval(seq int, expr parse.Node) error {
	_, err := io.WriteString(e.Out,
		OutputPrompt(seq).Render(e.Styled)+parse.FullForm(expr)+"\n")
	return err
}

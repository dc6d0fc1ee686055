package shell

import (
	"fmt"
	"io"
	"os"

	"src.wl.sh/pkg/cli"
	"src.wl.sh/pkg/config"
	"src.wl.sh/pkg/parse"
	"src.wl.sh/pkg/repl"
	"src.wl.sh/pkg/sys"
	"src.wl.sh/pkg/ui"
)

// Whether a panic in the interactive mode is recovered and reported as an
// error. It is set to false by unit tests that want to see the panic.
var recoverPanic = true

// InteractConfig keeps configuration for the interactive mode.
type InteractConfig struct {
	Config config.Config
	Parser *parse.Parser
}

// Interactive mode panic handler.
func handlePanic(stderr io.Writer, err *error) {
	r := recover()
	if r != nil {
		fmt.Fprintln(stderr)
		fmt.Fprint(stderr, sys.DumpStack())
		fmt.Fprintln(stderr)
		*err = fmt.Errorf("internal error: %v", r)
	}
}

// Returns where errors are shown: f itself when styles are enabled and f is a
// terminal, and a writer that strips styles from f otherwise.
func errorWriter(f *os.File, styled bool) io.Writer {
	if styled && sys.IsATTY(f) {
		return f
	}
	return ui.NewPlainWriter(f)
}

// Interact runs an interactive session until the input ends.
func Interact(fds [3]*os.File, cfg *InteractConfig) (err error) {
	if recoverPanic {
		defer handlePanic(fds[2], &err)
	}
	hist, closeHist := openHistory(cfg.Config, fds[2])
	defer closeHist()

	ed := newLineReader(fds, cfg.Config, hist)
	defer func() { ed.Close() }()

	loop := repl.New(repl.Spec{
		Reader: ed,
		Parser: cfg.Parser,
		Evaluator: &repl.EchoEvaluator{
			Out:    fds[1],
			Styled: cfg.Config.PromptStyleEnabled && sys.IsATTY(fds[1])},
		Stderr:             errorWriter(fds[2], cfg.Config.PromptStyleEnabled),
		ContinuationPrompt: cfg.Config.ContinuationPrompt,
	})

	for {
		err := loop.Run()
		if err == nil {
			return nil
		}
		logger.Errorf("editor error: %v", err)
		fmt.Fprintln(fds[2], "Editor error:", err)
		if _, isBasic := ed.(*cli.BasicEditor); isBasic {
			return err
		}
		fmt.Fprintln(fds[2], "Falling back to basic line editor")
		ed.Close()
		ed = newBasicEditor(fds, cli.EditorSpec{
			Styled: cfg.Config.PromptStyleEnabled, History: hist})
		loop.SetReader(ed)
	}
}

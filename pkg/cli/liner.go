package cli

import (
	"errors"
	"io"

	"github.com/peterh/liner"

	"src.wl.sh/pkg/cli/histutil"
	"src.wl.sh/pkg/ui"
)

// LinerEditor is a LineReader backed by the liner library. It supports
// history and completion from the Helper; liner has no highlighting, so
// prompts and buffers are always plain text.
type LinerEditor struct {
	state   *liner.State
	history histutil.Store
}

// NewLinerEditor creates a LinerEditor on the process's terminal. Only one
// may be active at a time.
func NewLinerEditor(spec EditorSpec) *LinerEditor {
	if spec.History == nil {
		spec.History = histutil.NewMemStore(0, true)
	}
	if spec.Helper == nil {
		spec.Helper = NopHelper{}
	}
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetTabCompletionStyle(liner.TabPrints)
	state.SetWordCompleter(wordCompleter(spec.Helper))

	cmds, err := spec.History.AllCmds()
	if err != nil {
		logger.Warnf("failed to load history: %v", err)
	}
	for _, cmd := range cmds {
		state.AppendHistory(cmd.Text)
	}
	return &LinerEditor{state, spec.History}
}

// ReadLine reads a line with liner. The prompt is written without styling.
func (ed *LinerEditor) ReadLine(prompt ui.Text) (Result, error) {
	line, err := ed.state.Prompt(prompt.String())
	switch {
	case errors.Is(err, liner.ErrPromptAborted):
		return Result{Kind: Interrupted}, nil
	case errors.Is(err, io.EOF):
		return Result{Kind: EOF}, nil
	case err != nil:
		return Result{}, err
	}
	if seq, err := ed.history.AddCmd(line); err != nil {
		logger.Warnf("failed to add history: %v", err)
	} else if seq != -1 {
		ed.state.AppendHistory(line)
	}
	return Result{Line, line}, nil
}

// Close restores the terminal.
func (ed *LinerEditor) Close() error {
	return ed.state.Close()
}

// Adapts a Helper to a liner.WordCompleter. The position liner passes is a
// rune index.
func wordCompleter(h Helper) liner.WordCompleter {
	return func(line string, pos int) (string, []string, string) {
		runes := []rune(line)
		if pos > len(runes) {
			pos = len(runes)
		}
		dot := len(string(runes[:pos]))
		result, err := h.Complete(line, dot)
		if err != nil || len(result.Items) == 0 {
			return line[:dot], nil, line[dot:]
		}
		completions := make([]string, len(result.Items))
		for i, item := range result.Items {
			completions[i] = item.ToInsert
		}
		return line[:result.Replace.From], completions, line[result.Replace.To:]
	}
}

// Package shell is the entry point for the terminal interface of wl.
//
// Without arguments it runs the interactive session. With a script file, or
// with -c and a piece of code, it parses the code once and prints the full
// form of the expression.
package shell

import (
	"os"

	"src.wl.sh/pkg/logutil"
	"src.wl.sh/pkg/parse"
	"src.wl.sh/pkg/prog"
)

var logger = logutil.GetLogger("shell")

// Program is the shell subprogram.
type Program struct {
	codeInArg bool
	json      *bool
	config    *prog.ConfigFlags
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.codeInArg, "c", false,
		"Take the first argument as code to parse instead of a script file")
	p.json = fs.JSON()
	p.config = fs.Config()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	switch {
	case len(args) > 1:
		return prog.BadUsage("at most one script or piece of code is accepted")
	case p.codeInArg && len(args) == 0:
		return prog.BadUsage("-c requires an argument")
	}

	cfg, err := p.config.Load()
	if err != nil {
		return err
	}
	parser, err := parse.LoadParser(cfg.Operators)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		exit := script(fds, parser, args[0], &scriptCfg{
			Cmd: p.codeInArg, JSON: *p.json, Styled: cfg.PromptStyleEnabled})
		return prog.Exit(exit)
	}

	cleanup := initSignal(fds[2])
	defer cleanup()
	return Interact(fds, &InteractConfig{Config: cfg, Parser: parser})
}

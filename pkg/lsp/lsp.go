// Package lsp implements a language server for wl.
//
// The server reports parse errors as diagnostics, shows the full form of the
// expression under the cursor on hover, and completes file paths.
package lsp

import (
	"context"
	"os"

	"github.com/sourcegraph/jsonrpc2"

	"src.wl.sh/pkg/logutil"
	"src.wl.sh/pkg/parse"
	"src.wl.sh/pkg/prog"
)

var logger = logutil.GetLogger("lsp")

// Program is the LSP subprogram.
type Program struct {
	run    bool
	config *prog.ConfigFlags
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.run, "lsp", false, "Run the language server instead of the interactive session")
	p.config = fs.Config()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	if !p.run {
		return prog.ErrNextProgram
	}
	if len(args) > 0 {
		return prog.BadUsage("arguments are not allowed with -lsp")
	}
	cfg, err := p.config.Load()
	if err != nil {
		return err
	}
	parser, err := parse.LoadParser(cfg.Operators)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := newServer(parser)
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(transport{fds[0], fds[1]}, jsonrpc2.VSCodeObjectCodec{}),
		handler(s))
	logger.Infof("language server started")
	<-conn.DisconnectNotify()
	logger.Infof("language server stopped")
	return nil
}

type transport struct{ in, out *os.File }

func (c transport) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c transport) Write(p []byte) (int, error) { return c.out.Write(p) }

func (c transport) Close() error {
	if err := c.in.Close(); err != nil {
		c.out.Close()
		return err
	}
	return c.out.Close()
}

// Wl is an interactive front-end for a Mathematica-like language. It reads
// input lines in numbered cells, joins continuation lines until an expression
// is complete, and shows the parsed expression in full form. It can also parse
// a single piece of code with -c, or serve editors as a language server with
// -lsp.
package main

import (
	"os"

	"src.wl.sh/pkg/buildinfo"
	"src.wl.sh/pkg/lsp"
	"src.wl.sh/pkg/pprof"
	"src.wl.sh/pkg/prog"
	"src.wl.sh/pkg/shell"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(
			&pprof.Program{}, &buildinfo.Program{}, &lsp.Program{},
			&shell.Program{})))
}

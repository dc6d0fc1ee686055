//go:build !unix

package shell

import (
	"io"
	"os"
)

var handledSignals []os.Signal

func signalName(sig os.Signal) string { return sig.String() }

func handleSignal(os.Signal, io.Writer) {}

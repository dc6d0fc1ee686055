package shell

import (
	"io"
	"os"
	"os/signal"
)

// Starts handling the platform's signals that are not about line editing,
// returning a function to stop.
func initSignal(stderr io.Writer) func() {
	if len(handledSignals) == 0 {
		return func() {}
	}
	sigCh := make(chan os.Signal, 8)
	signal.Notify(sigCh, handledSignals...)
	go func() {
		for sig := range sigCh {
			logger.Infof("signal %s", signalName(sig))
			handleSignal(sig, stderr)
		}
	}()
	return func() {
		signal.Stop(sigCh)
		close(sigCh)
	}
}

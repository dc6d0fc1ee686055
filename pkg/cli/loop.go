package cli

import "sync/atomic"

// Number of events that may queue up while the loop is busy.
const eventBufSize = 128

// An input event: a term.Event, a signal or one of the editor's own error
// events.
type event any

// Flags passed to the redraw function.
type redrawFlag uint

const (
	// The screen should be redrawn from scratch, as asked by Redraw(true).
	fullRedraw redrawFlag = 1 << iota
	// The loop is about to return; this is the last redraw.
	finalRedraw
)

// eventLoop drives a single ReadLine call. The handle and redraw functions
// are only ever called from Run, one at a time, so they can share the
// editor's state without locking. Input, Redraw and Return may be called from
// any goroutine.
type eventLoop struct {
	handle func(event)
	redraw func(redrawFlag)

	events  chan event
	wakeup  chan struct{}
	full    atomic.Bool
	results chan loopResult
}

type loopResult struct {
	res Result
	err error
}

func newLoop(handle func(event), redraw func(redrawFlag)) *eventLoop {
	return &eventLoop{
		handle:  handle,
		redraw:  redraw,
		events:  make(chan event, eventBufSize),
		wakeup:  make(chan struct{}, 1),
		results: make(chan loopResult, 1),
	}
}

// Input queues an event. It blocks when the queue is full.
func (lp *eventLoop) Input(ev event) { lp.events <- ev }

// Redraw asks for a redraw without blocking. Requests made before the loop
// gets to them are merged.
func (lp *eventLoop) Redraw(full bool) {
	if full {
		lp.full.Store(true)
	}
	select {
	case lp.wakeup <- struct{}{}:
	default:
	}
}

// Return makes Run return res and err. Only the first call before Run returns
// has an effect.
func (lp *eventLoop) Return(res Result, err error) {
	select {
	case lp.results <- loopResult{res, err}:
	default:
	}
}

// HasReturned reports whether Return has been called and Run has not yet
// picked up the result.
func (lp *eventLoop) HasReturned() bool { return len(lp.results) == 1 }

// Run redraws and handles events until Return is called.
func (lp *eventLoop) Run() (Result, error) {
	for {
		var flag redrawFlag
		if lp.full.Swap(false) {
			flag = fullRedraw
		}
		lp.redraw(flag)

		var r loopResult
		var done bool
		select {
		case ev := <-lp.events:
			r, done = lp.drain(ev)
		case r = <-lp.results:
			done = true
		case <-lp.wakeup:
		}
		if done {
			lp.redraw(finalRedraw)
			return r.res, r.err
		}
	}
}

// Handles ev and whatever is already queued behind it, so that a burst of
// keys costs one redraw.
func (lp *eventLoop) drain(ev event) (loopResult, bool) {
	for {
		lp.handle(ev)
		select {
		case r := <-lp.results:
			return r, true
		default:
		}
		select {
		case ev = <-lp.events:
		default:
			return loopResult{}, false
		}
	}
}

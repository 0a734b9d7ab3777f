package mediator

import (
	"sync/atomic"

	"resolvemcp/internal/resolve"
	"resolvemcp/pkg/logging"
)

// pageFrame records one active guard: the page it required and the page
// that was open when it was entered.
type pageFrame struct {
	required string
	previous string
}

// pageGuard tracks the guard frames of one dispatched call. Every dispatch
// gets a fresh guard, so frames never outlive the call that pushed them and
// a later call can never mistake a stale frame for its own.
//
// The frames slice is touched only by the leaf goroutine; the abandoned flag
// is the one cross-goroutine signal, set by the dispatcher when it stops
// waiting for a timed-out or cancelled leaf.
type pageGuard struct {
	host      resolve.Host
	frames    []pageFrame
	abandoned atomic.Bool
}

func newPageGuard(host resolve.Host) *pageGuard {
	return &pageGuard{host: host}
}

// abandon marks the call as given up on. The leaf goroutine may still be
// wedged inside the application; when it finally returns, its deferred
// restore must not switch the shared page underneath whatever call is in
// flight by then.
func (g *pageGuard) abandon() {
	g.abandoned.Store(true)
}

// RunOnPage executes fn with the application on the required page and
// restores the prior page on every exit path: normal return, leaf error,
// or panic. Guards nest: re-entering a guard for a page that is already
// required anywhere in this call tree is a no-op wrapper (one switch, one
// restoration, no thrashing), while guards for different pages layer and
// unwind in strict LIFO order.
//
// A refused or failed forward switch is a PageSwitchError and fn is never
// called. A failed restoration is also a PageSwitchError, but it never
// masks an error fn already raised.
func (g *pageGuard) RunOnPage(page string, fn func() (*Result, error)) (result *Result, err error) {
	current, cerr := g.host.CurrentPage()
	if cerr != nil {
		return nil, &PageSwitchError{Page: page, Cause: cerr}
	}

	if current == page || g.guarding(page) {
		return fn()
	}

	ok, serr := g.host.OpenPage(page)
	if serr != nil || !ok {
		// Best-effort restore in case the application landed half-switched.
		if rok, rerr := g.host.OpenPage(current); rerr != nil || !rok {
			logging.Warn("PageGuard", "restore to %s after failed switch also failed", current)
		}
		return nil, &PageSwitchError{Page: page, Cause: serr}
	}

	g.frames = append(g.frames, pageFrame{required: page, previous: current})
	logging.Debug("PageGuard", "switched %s -> %s", current, page)

	defer func() {
		g.frames = g.frames[:len(g.frames)-1]
		if g.abandoned.Load() {
			// The dispatcher has moved on; the page now belongs to later
			// calls and the session is already marked suspect.
			logging.Warn("PageGuard", "call abandoned, skipping restore to %s", current)
			return
		}
		rok, rerr := g.host.OpenPage(current)
		if rerr != nil || !rok {
			logging.Warn("PageGuard", "failed to restore page to %s", current)
			if err == nil {
				result = nil
				err = &PageSwitchError{Page: current, Cause: rerr}
			}
			return
		}
		logging.Debug("PageGuard", "restored page to %s", current)
	}()

	return fn()
}

func (g *pageGuard) guarding(page string) bool {
	for _, frame := range g.frames {
		if frame.required == page {
			return true
		}
	}
	return false
}

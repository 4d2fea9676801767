package download

import (
	"context"
	"sync"
	"sync/atomic"
)

// abortController is the per-task cooperative cancellation token. Requesting
// an abort sets the flag, cancels the provider context (which terminates the
// child process, best effort), and triggers the compensating cleanup pass
// immediately rather than waiting for the worker to unwind. A stuck provider
// call may still linger past the kill; that is a documented limitation.
type abortController struct {
	aborted   atomic.Bool
	cancel    context.CancelFunc
	cleanupFn func()
	cleanup   sync.Once
}

func newAbortController(cancel context.CancelFunc, cleanupFn func()) *abortController {
	return &abortController{cancel: cancel, cleanupFn: cleanupFn}
}

// Request signals the abort. By the time it returns, the cleanup pass for
// this task has been triggered at least once.
func (a *abortController) Request() {
	if !a.aborted.CompareAndSwap(false, true) {
		return
	}
	a.cancel()
	a.runCleanup()
}

// Aborted reports whether an abort was requested. Error classification uses
// this, not message text, as the primary signal.
func (a *abortController) Aborted() bool {
	return a.aborted.Load()
}

// runCleanup executes the cleanup pass once, no matter how many paths reach
// it (abort request, worker unwind).
func (a *abortController) runCleanup() {
	a.cleanup.Do(a.cleanupFn)
}

package download

import (
	"context"
	"testing"
)

func TestAbortControllerRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cleanups := 0
	a := newAbortController(cancel, func() { cleanups++ })

	if a.Aborted() {
		t.Fatal("New controller must not report aborted")
	}

	a.Request()

	if !a.Aborted() {
		t.Error("Aborted() must be true after Request")
	}
	if ctx.Err() == nil {
		t.Error("Context must be canceled by Request")
	}
	// Cleanup has already run by the time Request returns.
	if cleanups != 1 {
		t.Errorf("Cleanup ran %d times, want 1", cleanups)
	}
}

func TestAbortControllerIdempotent(t *testing.T) {
	_, cancel := context.WithCancel(context.Background())
	cleanups := 0
	a := newAbortController(cancel, func() { cleanups++ })

	a.Request()
	a.Request()
	a.runCleanup() // worker unwind path

	if cleanups != 1 {
		t.Errorf("Cleanup ran %d times, want exactly 1", cleanups)
	}
}

func TestAbortControllerCleanupFromUnwindOnly(t *testing.T) {
	_, cancel := context.WithCancel(context.Background())
	cleanups := 0
	a := newAbortController(cancel, func() { cleanups++ })

	// Worker unwinds without an abort request (e.g. provider error path
	// reusing the controller's once).
	a.runCleanup()
	a.runCleanup()

	if cleanups != 1 {
		t.Errorf("Cleanup ran %d times, want 1", cleanups)
	}
	if a.Aborted() {
		t.Error("runCleanup must not mark the task aborted")
	}
}

package provider

import (
	"errors"
	"fmt"
)

// ErrAborted is returned from Run when the task's cancellation token was
// observed. Shells report it as an abort, never as a failure.
var ErrAborted = errors.New("download aborted by user")

// CapabilityError means a required external binary is absent. It is raised
// before any network activity and carries remediation text for the user.
type CapabilityError struct {
	Capability  string
	Remediation string
}

// Error implements the error interface.
func (e *CapabilityError) Error() string {
	return fmt.Sprintf("required capability missing: %s", e.Capability)
}

// FatalError is an unrecoverable provider failure that must stop the whole
// task, as opposed to per-item errors which are delivered as events.
type FatalError struct {
	Msg string
	Err error
}

// Error implements the error interface.
func (e *FatalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *FatalError) Unwrap() error {
	return e.Err
}

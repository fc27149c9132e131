// Package suite executes test cases against live browser sessions and
// wires their outcomes into the capture pipeline: every case gets its
// own session, registered for the case's lifetime so the observer can
// gather evidence if the call phase fails.
package suite

import (
	"context"
	"strings"

	"lantern/internal/capture"
)

// Session is what the runner manages per case: the capture capability
// surface plus teardown. Concrete sessions (e.g. a browser tab) usually
// expose more; cases that need the richer surface assert for it.
type Session interface {
	capture.Session
	Close()
}

// Factory builds one session per test case.
type Factory func(ctx context.Context) (Session, error)

// Case is one test case with optional setup and teardown phases. Call
// is the test body; a non-nil error is a test failure.
type Case struct {
	// ID uniquely identifies the case execution; derived from Name if
	// empty.
	ID   capture.TestID
	Name string
	// Skip marks the case skipped with the given reason.
	Skip string

	Setup    func(ctx context.Context, s Session) error
	Call     func(ctx context.Context, s Session) error
	Teardown func(ctx context.Context, s Session) error
}

func (c Case) id() capture.TestID {
	if c.ID != "" {
		return c.ID
	}
	return capture.TestID("test_" + strings.ReplaceAll(strings.ToLower(c.Name), " ", "_"))
}

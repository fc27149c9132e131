package capture

import "sync"

// Registry maps a test-case execution to its live session so the
// observer can find the right session without coupling to test code.
// It holds non-owning references: the owning case is responsible for
// session teardown and must Release on exit regardless of outcome.
//
// Safe for concurrent use across test cases; entries for different
// test IDs never contend.
type Registry struct {
	sessions sync.Map // TestID -> Session
}

// NewRegistry returns an empty Registry. One registry is created per
// suite run and injected into the observer; it is not ambient state.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register associates a session with a test ID, replacing any prior
// entry for that ID.
func (r *Registry) Register(id TestID, s Session) {
	r.sessions.Store(id, s)
}

// Lookup returns the session for a test ID, or false if none is
// registered. After Release it returns false, never a stale handle.
func (r *Registry) Lookup(id TestID) (Session, bool) {
	v, ok := r.sessions.Load(id)
	if !ok {
		return nil, false
	}
	return v.(Session), true
}

// Release drops the association for a test ID.
func (r *Registry) Release(id TestID) {
	r.sessions.Delete(id)
}

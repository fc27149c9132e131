package capture

import (
	"context"
	"sync"
)

// Sink accepts artifacts for a test's report. Attach must not raise past
// its boundary: any internal I/O failure is swallowed and at most logged,
// since attachment is diagnostic-only and must never fail the suite.
type Sink interface {
	Attach(ctx context.Context, test TestID, a Artifact)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(ctx context.Context, test TestID, a Artifact)

func (f SinkFunc) Attach(ctx context.Context, test TestID, a Artifact) { f(ctx, test, a) }

// MultiSink fans an artifact out to multiple sinks.
type MultiSink []Sink

func (m MultiSink) Attach(ctx context.Context, test TestID, a Artifact) {
	for _, s := range m {
		s.Attach(ctx, test, a)
	}
}

// MemSink records attachments in memory, for tests.
type MemSink struct {
	mu       sync.Mutex
	attached []Attached
}

// Attached pairs an artifact with the test it was attached to.
type Attached struct {
	Test     TestID
	Artifact Artifact
}

func (m *MemSink) Attach(_ context.Context, test TestID, a Artifact) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attached = append(m.attached, Attached{Test: test, Artifact: a})
}

// All returns a copy of everything attached so far.
func (m *MemSink) All() []Attached {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Attached, len(m.attached))
	copy(out, m.attached)
	return out
}

// ForTest returns the artifacts attached for one test ID.
func (m *MemSink) ForTest(test TestID) []Artifact {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Artifact
	for _, at := range m.attached {
		if at.Test == test {
			out = append(out, at.Artifact)
		}
	}
	return out
}

// Package capture implements the evidence pipeline that runs when a test
// case fails: an observer receives per-phase outcomes, looks up the live
// browser session for the failed case, runs a fixed set of capture steps
// against it, and forwards every artifact (or failure note) to the
// configured sinks. The pipeline is strictly best-effort — it never
// changes a test's verdict and never propagates an error past its own
// boundary.
package capture

// TestID uniquely identifies one test-case execution within a run.
type TestID string

// Phase is the execution phase an outcome was observed in.
type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhaseCall     Phase = "call"
	PhaseTeardown Phase = "teardown"
)

// Outcome is the terminal status of one phase of a test case.
type Outcome string

const (
	OutcomePassed  Outcome = "passed"
	OutcomeFailed  Outcome = "failed"
	OutcomeErrored Outcome = "errored"
	OutcomeSkipped Outcome = "skipped"
)

// Report carries one phase outcome for one test case. Immutable once
// delivered to an observer.
type Report struct {
	Test    TestID
	Phase   Phase
	Outcome Outcome
	Reason  string // failure/skip message, empty on pass
}

// Kind declares the payload encoding of an artifact. The payload must
// match the kind; sinks forward it without reinterpretation.
type Kind string

const (
	KindText   Kind = "text"
	KindImage  Kind = "image"  // binary PNG
	KindMarkup Kind = "markup" // decoded HTML
)

// MediaType returns the MIME type for the kind.
func (k Kind) MediaType() string {
	switch k {
	case KindImage:
		return "image/png"
	case KindMarkup:
		return "text/html"
	default:
		return "text/plain"
	}
}

// Ext returns the conventional file extension for the kind.
func (k Kind) Ext() string {
	switch k {
	case KindImage:
		return ".png"
	case KindMarkup:
		return ".html"
	default:
		return ".txt"
	}
}

// Artifact is a named diagnostic payload produced by a capture step.
type Artifact struct {
	Name    string
	Kind    Kind
	Payload []byte
}

// Failure records a capture step that could not complete. It is itself
// reported downstream as a text artifact, never raised.
type Failure struct {
	Name string
	Err  string
}

// Result is the outcome of one step invocation: an artifact, a failure,
// or nothing at all (a step may legitimately have nothing to report,
// e.g. an empty console log). Never more than one of the three.
type Result struct {
	artifact *Artifact
	failure  *Failure
}

// Of wraps an artifact in a successful Result.
func Of(a Artifact) Result {
	return Result{artifact: &a}
}

// Failed wraps a step error in a failed Result.
func Failed(name string, err error) Result {
	return Result{failure: &Failure{Name: name, Err: err.Error()}}
}

// Nothing is the empty Result: the step ran but has nothing to report.
func Nothing() Result {
	return Result{}
}

// Artifact returns the captured artifact, if any.
func (r Result) Artifact() (Artifact, bool) {
	if r.artifact == nil {
		return Artifact{}, false
	}
	return *r.artifact, true
}

// Failure returns the capture failure, if any.
func (r Result) Failure() (Failure, bool) {
	if r.failure == nil {
		return Failure{}, false
	}
	return *r.failure, true
}

// Empty reports whether the result carries neither artifact nor failure.
func (r Result) Empty() bool {
	return r.artifact == nil && r.failure == nil
}

package capture

import (
	"context"
	"log/slog"
)

// Observer subscribes to end-of-phase reports and, on a failed call
// phase, runs the registered capture steps against the failed case's
// session. Setup/teardown outcomes and non-failure outcomes are ignored.
//
// Capture is best-effort throughout: a missing session means nothing to
// capture, and a failing step becomes a text artifact describing the
// failure rather than an error.
type Observer struct {
	registry *Registry
	sink     Sink
	steps    []Step
	logger   *slog.Logger
}

// NewObserver wires an observer to a registry and sink. The step set is
// fixed at construction; nil steps means DefaultSteps. The steps run
// sequentially in the given order — most drivers do not tolerate
// concurrent commands against one session handle.
func NewObserver(registry *Registry, sink Sink, steps []Step, logger *slog.Logger) *Observer {
	if steps == nil {
		steps = DefaultSteps()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Observer{registry: registry, sink: sink, steps: steps, logger: logger}
}

// Observe receives one phase outcome for one test case. It fires the
// capture pipeline if and only if the phase is "call" and the outcome
// is "failed".
func (o *Observer) Observe(ctx context.Context, rep Report) {
	if rep.Phase != PhaseCall || rep.Outcome != OutcomeFailed {
		return
	}

	session, ok := o.registry.Lookup(rep.Test)
	if !ok {
		o.logger.DebugContext(ctx, "no session registered, skipping capture", "test", rep.Test)
		return
	}

	o.logger.InfoContext(ctx, "capturing failure evidence", "test", rep.Test, "steps", len(o.steps))
	for _, step := range o.steps {
		o.runStep(ctx, rep.Test, step, session)
	}
}

func (o *Observer) runStep(ctx context.Context, test TestID, step Step, session Session) {
	res := capturePanicSafe(ctx, step, session)
	if res.Empty() {
		return
	}
	if f, failed := res.Failure(); failed {
		o.logger.WarnContext(ctx, "capture step failed", "test", test, "step", f.Name, "error", f.Err)
		o.sink.Attach(ctx, test, Artifact{
			Name:    f.Name + " error",
			Kind:    KindText,
			Payload: []byte(f.Err),
		})
		return
	}
	a, _ := res.Artifact()
	o.sink.Attach(ctx, test, a)
}

// capturePanicSafe guards the pipeline against a misbehaving step
// implementation; the Step contract forbids panics but the original
// test failure must be reported no matter what.
func capturePanicSafe(ctx context.Context, step Step, session Session) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{failure: &Failure{Name: step.Name(), Err: panicMessage(r)}}
		}
	}()
	return step.Capture(ctx, session)
}

func panicMessage(r any) string {
	if err, ok := r.(error); ok {
		return "panic: " + err.Error()
	}
	if s, ok := r.(string); ok {
		return "panic: " + s
	}
	return "panic in capture step"
}

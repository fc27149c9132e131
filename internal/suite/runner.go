package suite

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"lantern/internal/capture"
)

// Reporter receives suite and case lifecycle events. Implementations
// must be best-effort: they may not fail the run.
type Reporter interface {
	RunStarted(ctx context.Context, name string, start time.Time)
	RunFinished(ctx context.Context, end time.Time, failed bool)
	CaseStarted(ctx context.Context, id capture.TestID, name string)
	CaseFinished(ctx context.Context, id capture.TestID, name string,
		outcome capture.Outcome, reason string, start, stop time.Time)
}

// CaseResult is the terminal record of one case.
type CaseResult struct {
	ID      capture.TestID
	Name    string
	Outcome capture.Outcome
	Reason  string
}

// Summary aggregates a run.
type Summary struct {
	Results []CaseResult
	Passed  int
	Failed  int
	Errored int
	Skipped int
}

// Anomalous reports whether any case failed or errored.
func (s Summary) Anomalous() bool { return s.Failed > 0 || s.Errored > 0 }

// Runner executes cases, each against its own session. Cases may run in
// parallel (bounded by Workers); one case's session is only ever driven
// by that case's goroutine.
type Runner struct {
	Name      string
	Registry  *capture.Registry
	Observer  *capture.Observer
	Factory   Factory
	Reporters []Reporter
	Workers   int
	Logger    *slog.Logger
}

// Run executes all cases and returns the run summary.
func (r *Runner) Run(ctx context.Context, cases []Case) Summary {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}

	start := time.Now()
	for _, rep := range r.Reporters {
		rep.RunStarted(ctx, r.Name, start)
	}

	var (
		mu      sync.Mutex
		summary Summary
	)
	summary.Results = make([]CaseResult, len(cases))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range cases {
		i, c := i, c
		g.Go(func() error {
			res := r.runCase(gctx, c, logger)
			mu.Lock()
			summary.Results[i] = res
			switch res.Outcome {
			case capture.OutcomePassed:
				summary.Passed++
			case capture.OutcomeFailed:
				summary.Failed++
			case capture.OutcomeSkipped:
				summary.Skipped++
			default:
				summary.Errored++
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for _, rep := range r.Reporters {
		rep.RunFinished(ctx, time.Now(), summary.Anomalous())
	}
	return summary
}

// runCase drives one case through its phases, reporting each phase
// outcome to the observer while the session is still registered, then
// releases and closes the session regardless of outcome.
func (r *Runner) runCase(ctx context.Context, c Case, logger *slog.Logger) CaseResult {
	id := c.id()
	caseStart := time.Now()
	for _, rep := range r.Reporters {
		rep.CaseStarted(ctx, id, c.Name)
	}
	res := CaseResult{ID: id, Name: c.Name}

	finish := func(outcome capture.Outcome, reason string) CaseResult {
		res.Outcome = outcome
		res.Reason = reason
		for _, rep := range r.Reporters {
			rep.CaseFinished(ctx, id, c.Name, outcome, reason, caseStart, time.Now())
		}
		logger.Info("case finished", "test", id, "outcome", outcome)
		return res
	}

	if c.Skip != "" {
		r.Observer.Observe(ctx, capture.Report{Test: id, Phase: capture.PhaseCall, Outcome: capture.OutcomeSkipped, Reason: c.Skip})
		return finish(capture.OutcomeSkipped, c.Skip)
	}

	session, err := r.Factory(ctx)
	if err != nil {
		reason := fmt.Sprintf("session setup: %v", err)
		r.Observer.Observe(ctx, capture.Report{Test: id, Phase: capture.PhaseSetup, Outcome: capture.OutcomeErrored, Reason: reason})
		return finish(capture.OutcomeErrored, reason)
	}

	r.Registry.Register(id, session)
	defer func() {
		r.Registry.Release(id)
		session.Close()
	}()

	if c.Setup != nil {
		if err := c.Setup(ctx, session); err != nil {
			reason := err.Error()
			r.Observer.Observe(ctx, capture.Report{Test: id, Phase: capture.PhaseSetup, Outcome: capture.OutcomeErrored, Reason: reason})
			r.teardown(ctx, id, c, session)
			return finish(capture.OutcomeErrored, reason)
		}
		r.Observer.Observe(ctx, capture.Report{Test: id, Phase: capture.PhaseSetup, Outcome: capture.OutcomePassed})
	}

	outcome, reason := capture.OutcomePassed, ""
	if err := c.Call(ctx, session); err != nil {
		outcome, reason = capture.OutcomeFailed, err.Error()
	}
	// The observer runs the capture pipeline here, while the session is
	// still registered and alive.
	r.Observer.Observe(ctx, capture.Report{Test: id, Phase: capture.PhaseCall, Outcome: outcome, Reason: reason})

	r.teardown(ctx, id, c, session)
	return finish(outcome, reason)
}

func (r *Runner) teardown(ctx context.Context, id capture.TestID, c Case, session Session) {
	if c.Teardown == nil {
		return
	}
	outcome, reason := capture.OutcomePassed, ""
	if err := c.Teardown(ctx, session); err != nil {
		outcome, reason = capture.OutcomeErrored, err.Error()
	}
	r.Observer.Observe(ctx, capture.Report{Test: id, Phase: capture.PhaseTeardown, Outcome: outcome, Reason: reason})
}

package report

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"lantern/internal/capture"
)

// Sink forwards suite lifecycle events and failure artifacts to the
// report store. Every call is best-effort: an unreachable store is
// logged and otherwise ignored, it never fails the suite.
type Sink struct {
	scope  *ProjectScope
	logger *slog.Logger

	mu         sync.Mutex
	launchUUID string
	items      map[capture.TestID]string
}

// NewSink returns a Sink that reports into the given project.
func NewSink(client *Client, project string, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{
		scope:  client.Project(project),
		logger: logger,
		items:  make(map[capture.TestID]string),
	}
}

// RunStarted opens a launch. If the store rejects it, the sink degrades
// to a no-op for the rest of the run.
func (s *Sink) RunStarted(ctx context.Context, name string, start time.Time) {
	uuid, err := s.scope.StartLaunch(ctx, StartLaunchRQ{
		Name:      name,
		StartTime: EpochMillis(start),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "report store: start launch failed", "error", err)
		return
	}
	s.mu.Lock()
	s.launchUUID = uuid
	s.mu.Unlock()
}

// RunFinished closes the launch.
func (s *Sink) RunFinished(ctx context.Context, end time.Time, failed bool) {
	s.mu.Lock()
	launch := s.launchUUID
	s.mu.Unlock()
	if launch == "" {
		return
	}
	status := StatusPassed
	if failed {
		status = StatusFailed
	}
	err := s.scope.FinishLaunch(ctx, launch, FinishExecutionRQ{
		EndTime: EpochMillis(end),
		Status:  status,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "report store: finish launch failed", "error", err)
	}
}

// CaseStarted opens a test item for the case.
func (s *Sink) CaseStarted(ctx context.Context, id capture.TestID, name string) {
	s.mu.Lock()
	launch := s.launchUUID
	s.mu.Unlock()
	if launch == "" {
		return
	}
	uuid, err := s.scope.StartItem(ctx, StartItemRQ{
		Name:       name,
		Type:       "TEST",
		LaunchUUID: launch,
		StartTime:  EpochMillis(time.Now()),
		CodeRef:    string(id),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "report store: start item failed", "test", id, "error", err)
		return
	}
	s.mu.Lock()
	s.items[id] = uuid
	s.mu.Unlock()
}

// CaseFinished closes the case's test item with its terminal status.
func (s *Sink) CaseFinished(ctx context.Context, id capture.TestID, _ string, outcome capture.Outcome, _ string, _, stop time.Time) {
	s.mu.Lock()
	launch := s.launchUUID
	item, ok := s.items[id]
	delete(s.items, id)
	s.mu.Unlock()
	if !ok {
		return
	}
	err := s.scope.FinishItem(ctx, item, FinishExecutionRQ{
		EndTime:    EpochMillis(stop),
		Status:     itemStatus(outcome),
		LaunchUUID: launch,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "report store: finish item failed", "test", id, "error", err)
	}
}

// Attach uploads one artifact as a log entry with a file part. Failures
// are swallowed: attachment is diagnostic-only.
func (s *Sink) Attach(ctx context.Context, id capture.TestID, a capture.Artifact) {
	s.mu.Lock()
	launch := s.launchUUID
	item := s.items[id]
	s.mu.Unlock()
	if launch == "" || item == "" {
		return
	}
	rq := SaveLogRQ{
		LaunchUUID: launch,
		ItemUUID:   item,
		Time:       EpochMillis(time.Now()),
		Level:      "INFO",
		Message:    a.Name,
		File:       &FileRef{Name: fileName(a)},
	}
	if err := s.scope.SaveLog(ctx, rq, a.Payload, a.Kind.MediaType()); err != nil {
		s.logger.WarnContext(ctx, "report store: attach failed", "test", id, "artifact", a.Name, "error", err)
	}
}

func itemStatus(outcome capture.Outcome) string {
	switch outcome {
	case capture.OutcomePassed:
		return StatusPassed
	case capture.OutcomeSkipped:
		return StatusSkipped
	default:
		return StatusFailed
	}
}

func fileName(a capture.Artifact) string {
	return strings.ReplaceAll(a.Name, " ", "_") + a.Kind.Ext()
}

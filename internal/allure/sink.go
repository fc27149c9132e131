package allure

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"lantern/internal/capture"
)

// Sink persists results and attachments into a results directory. It is
// best-effort end to end: a full disk or bad permissions are logged and
// never surface to the suite.
type Sink struct {
	dir    string
	logger *slog.Logger

	mu   sync.Mutex
	open map[capture.TestID]*Result
}

// NewSink creates a Sink rooted at dir, creating the directory if absent.
func NewSink(dir string, logger *slog.Logger) (*Sink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("allure: create results dir: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{
		dir:    dir,
		logger: logger,
		open:   make(map[capture.TestID]*Result),
	}, nil
}

// Dir returns the results directory.
func (s *Sink) Dir() string { return s.dir }

// RunStarted records the execution environment alongside the results,
// the way a viewer expects it (environment.properties).
func (s *Sink) RunStarted(ctx context.Context, name string, start time.Time) {
	props := fmt.Sprintf("suite=%s\nos=%s/%s\nruntime=%s\nstarted=%s\n",
		name, runtime.GOOS, runtime.GOARCH, runtime.Version(),
		start.Format(time.RFC3339))
	path := filepath.Join(s.dir, "environment.properties")
	if err := os.WriteFile(path, []byte(props), 0o644); err != nil {
		s.logger.WarnContext(ctx, "allure: write environment failed", "error", err)
	}
}

// RunFinished is a no-op; every case's result is already on disk.
func (s *Sink) RunFinished(context.Context, time.Time, bool) {}

// CaseStarted opens an in-memory result for the case.
func (s *Sink) CaseStarted(_ context.Context, id capture.TestID, name string) {
	res := &Result{
		UUID:      uuid.NewString(),
		HistoryID: string(id),
		Name:      name,
		FullName:  string(id),
		Start:     time.Now().UnixMilli(),
		Labels: []Label{
			{Name: "framework", Value: "lantern"},
		},
	}
	s.mu.Lock()
	s.open[id] = res
	s.mu.Unlock()
}

// Attach writes the payload to an attachment file and references it
// from the case's result. Artifacts for unknown cases are dropped.
func (s *Sink) Attach(ctx context.Context, id capture.TestID, a capture.Artifact) {
	s.mu.Lock()
	res, ok := s.open[id]
	s.mu.Unlock()
	if !ok {
		s.logger.DebugContext(ctx, "allure: attach for unknown case dropped", "test", id, "artifact", a.Name)
		return
	}

	source := uuid.NewString() + "-attachment" + a.Kind.Ext()
	if err := os.WriteFile(filepath.Join(s.dir, source), a.Payload, 0o644); err != nil {
		s.logger.WarnContext(ctx, "allure: write attachment failed", "test", id, "artifact", a.Name, "error", err)
		return
	}

	s.mu.Lock()
	res.Attachments = append(res.Attachments, Attachment{
		Name:   a.Name,
		Source: source,
		Type:   a.Kind.MediaType(),
	})
	s.mu.Unlock()
}

// CaseFinished seals the case's result and writes its result file.
func (s *Sink) CaseFinished(ctx context.Context, id capture.TestID, _ string, outcome capture.Outcome, reason string, _, stop time.Time) {
	s.mu.Lock()
	res, ok := s.open[id]
	delete(s.open, id)
	s.mu.Unlock()
	if !ok {
		return
	}

	res.Status = status(outcome)
	res.Stage = StageFinished
	res.Stop = stop.UnixMilli()
	if reason != "" {
		res.StatusDetails = &StatusDetails{Message: reason}
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		s.logger.WarnContext(ctx, "allure: marshal result failed", "test", id, "error", err)
		return
	}
	path := filepath.Join(s.dir, res.UUID+"-result.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.WarnContext(ctx, "allure: write result failed", "test", id, "error", err)
	}
}

func status(outcome capture.Outcome) string {
	switch outcome {
	case capture.OutcomePassed:
		return StatusPassed
	case capture.OutcomeFailed:
		return StatusFailed
	case capture.OutcomeSkipped:
		return StatusSkipped
	default:
		return StatusBroken
	}
}

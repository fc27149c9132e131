package capture

import (
	"context"
	"fmt"
	"strings"
)

// Step is one independent, failure-isolated diagnostic-gathering
// operation. A step that cannot complete must trap the condition and
// return a failed Result — it never panics past its boundary, and its
// failure must not mask the test failure being reported.
type Step interface {
	Name() string
	Capture(ctx context.Context, s Session) Result
}

// DefaultSteps is the reference step set, in the order the observer
// runs them.
func DefaultSteps() []Step {
	return []Step{
		ScreenshotStep{},
		LocationStep{},
		MarkupStep{},
		ConsoleLogStep{Category: "browser"},
	}
}

// ScreenshotStep captures a PNG of the current view.
type ScreenshotStep struct{}

func (ScreenshotStep) Name() string { return "screenshot on failure" }

func (st ScreenshotStep) Capture(ctx context.Context, s Session) Result {
	png, err := s.Screenshot(ctx)
	if err != nil {
		return Failed(st.Name(), err)
	}
	return Of(Artifact{Name: st.Name(), Kind: KindImage, Payload: png})
}

// LocationStep captures the current navigable address as text.
type LocationStep struct{}

func (LocationStep) Name() string { return "page url on failure" }

func (st LocationStep) Capture(ctx context.Context, s Session) Result {
	loc, err := s.CurrentLocation(ctx)
	if err != nil {
		return Failed(st.Name(), err)
	}
	return Of(Artifact{Name: st.Name(), Kind: KindText, Payload: []byte(loc)})
}

// MarkupStep captures the rendered document source.
type MarkupStep struct{}

func (MarkupStep) Name() string { return "page source" }

func (st MarkupStep) Capture(ctx context.Context, s Session) Result {
	src, err := s.PageMarkup(ctx)
	if err != nil {
		return Failed(st.Name(), err)
	}
	return Of(Artifact{Name: st.Name(), Kind: KindMarkup, Payload: []byte(src)})
}

// ConsoleLogStep captures the session's diagnostic log, one
// "[LEVEL] message" line per entry. An empty log is not an error —
// the step simply has nothing to report.
type ConsoleLogStep struct {
	Category string
}

func (ConsoleLogStep) Name() string { return "browser logs" }

func (st ConsoleLogStep) Capture(ctx context.Context, s Session) Result {
	entries, err := s.FetchLogs(ctx, st.Category)
	if err != nil {
		return Failed(st.Name(), err)
	}
	if len(entries) == 0 {
		return Nothing()
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("[%s] %s", e.Level, e.Message))
	}
	return Of(Artifact{
		Name:    st.Name(),
		Kind:    KindText,
		Payload: []byte(strings.Join(lines, "\n")),
	})
}

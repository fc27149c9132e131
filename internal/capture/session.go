package capture

import "context"

// LogEntry is one line from the session's own diagnostic log.
type LogEntry struct {
	Level   string
	Message string
}

// Session is the slice of a live browser session the capture pipeline
// needs. Every call is bounded by the session's per-operation timeout so
// a hung page cannot stall the reporting phase.
type Session interface {
	// CurrentLocation returns the current navigable address.
	CurrentLocation(ctx context.Context) (string, error)
	// Screenshot returns a PNG of the current view.
	Screenshot(ctx context.Context) ([]byte, error)
	// PageMarkup returns the rendered document source.
	PageMarkup(ctx context.Context) (string, error)
	// FetchLogs returns the session's accumulated diagnostic log for a
	// category (e.g. "browser"). An empty log is not an error.
	FetchLogs(ctx context.Context, category string) ([]LogEntry, error)
}

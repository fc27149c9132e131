// Package browser drives a headless Chrome instance via chromedp and
// exposes it through the session capability interfaces the rest of the
// suite consumes. Every operation carries the session's per-operation
// timeout so a hung page never blocks a test or the capture pipeline
// indefinitely.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"lantern/internal/capture"
)

// DefaultTimeout bounds every single driver operation.
const DefaultTimeout = 10 * time.Second

// Config holds browser construction settings. All values are optional.
type Config struct {
	// ExecPath overrides the browser binary chromedp discovers.
	ExecPath string
	// Headless runs the browser without a display (default true).
	Headless bool
	// WindowWidth / WindowHeight set the viewport (default 1920x1080).
	WindowWidth  int
	WindowHeight int
	// Timeout bounds each driver operation (default DefaultTimeout).
	Timeout time.Duration
	// Logger receives session lifecycle events.
	Logger *slog.Logger
}

// Session is one live browser tab. It implements capture.Session and
// the element-level operations page objects need. A session is owned by
// exactly one test case and must not be shared across goroutines.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	timeout     time.Duration
	logger      *slog.Logger
	console     *consoleBuffer
}

// New launches a browser and opens a fresh tab. The caller must Close
// the session when the owning test case ends.
func New(ctx context.Context, cfg Config) (*Session, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.WindowWidth <= 0 {
		cfg.WindowWidth = 1920
	}
	if cfg.WindowHeight <= 0 {
		cfg.WindowHeight = 1080
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
	)
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	s := &Session{
		ctx:         tabCtx,
		cancel:      tabCancel,
		allocCancel: allocCancel,
		timeout:     cfg.Timeout,
		logger:      logger,
		console:     newConsoleBuffer(),
	}
	s.console.listen(tabCtx)

	// Start the browser eagerly so construction fails here, not on the
	// first navigation.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("browser: launch: %w", err)
	}
	logger.Debug("browser session started", "headless", cfg.Headless, "timeout", cfg.Timeout)
	return s, nil
}

// Close tears the tab and browser process down.
func (s *Session) Close() {
	s.cancel()
	s.allocCancel()
}

// run executes chromedp actions under the per-operation timeout. The
// caller's context is honored for early cancellation.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opCtx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(opCtx, actions...)
}

// Navigate loads the given absolute URL and waits for the page to be ready.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("browser: navigate %s: %w", url, err)
	}
	return nil
}

// CurrentLocation returns the tab's current address.
func (s *Session) CurrentLocation(ctx context.Context) (string, error) {
	var loc string
	if err := s.run(ctx, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("browser: current location: %w", err)
	}
	return loc, nil
}

// Screenshot captures a PNG of the visible viewport.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	var png []byte
	if err := s.run(ctx, chromedp.CaptureScreenshot(&png)); err != nil {
		return nil, fmt.Errorf("browser: screenshot: %w", err)
	}
	return png, nil
}

// PageMarkup returns the rendered document source.
func (s *Session) PageMarkup(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("browser: page markup: %w", err)
	}
	return html, nil
}

// FetchLogs returns the console entries accumulated since the session
// started. Only the "browser" category is populated; an empty log is
// not an error.
func (s *Session) FetchLogs(_ context.Context, category string) ([]capture.LogEntry, error) {
	if category != "browser" {
		return nil, nil
	}
	return s.console.entries(), nil
}

// Title returns the current document title.
func (s *Session) Title(ctx context.Context) (string, error) {
	var title string
	if err := s.run(ctx, chromedp.Title(&title)); err != nil {
		return "", fmt.Errorf("browser: title: %w", err)
	}
	return title, nil
}

// WaitVisible blocks until the selector matches a visible element, or
// the operation timeout elapses.
func (s *Session) WaitVisible(ctx context.Context, selector string) error {
	if err := s.run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("browser: wait visible %q: %w", selector, err)
	}
	return nil
}

// Click waits for the selector and clicks it.
func (s *Session) Click(ctx context.Context, selector string) error {
	if err := s.run(ctx, chromedp.Click(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("browser: click %q: %w", selector, err)
	}
	return nil
}

// SendKeys clears the matched input and types the given value.
func (s *Session) SendKeys(ctx context.Context, selector, value string) error {
	err := s.run(ctx,
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("browser: send keys to %q: %w", selector, err)
	}
	return nil
}

// Text returns the trimmed text content of the first element matching
// the selector.
func (s *Session) Text(ctx context.Context, selector string) (string, error) {
	var text string
	if err := s.run(ctx, chromedp.Text(selector, &text, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("browser: text of %q: %w", selector, err)
	}
	return text, nil
}

// Count returns how many elements currently match the selector, without
// waiting for any to appear.
func (s *Session) Count(ctx context.Context, selector string) (int, error) {
	var nodes []*cdp.Node
	err := s.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)))
	if err != nil {
		return 0, fmt.Errorf("browser: count %q: %w", selector, err)
	}
	return len(nodes), nil
}

package browser

import (
	"context"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"lantern/internal/capture"
)

// consoleBuffer accumulates console API calls and uncaught exceptions
// from a tab so they can be attached to a failing test's report, like a
// driver's get-log facility.
type consoleBuffer struct {
	mu  sync.Mutex
	buf []capture.LogEntry
}

func newConsoleBuffer() *consoleBuffer {
	return &consoleBuffer{}
}

// listen subscribes to the tab's runtime events for the lifetime of ctx.
func (b *consoleBuffer) listen(ctx context.Context) {
	chromedp.ListenTarget(ctx, func(ev any) {
		switch e := ev.(type) {
		case *runtime.EventConsoleAPICalled:
			b.append(capture.LogEntry{
				Level:   consoleLevel(e.Type),
				Message: consoleMessage(e.Args),
			})
		case *runtime.EventExceptionThrown:
			b.append(capture.LogEntry{
				Level:   "SEVERE",
				Message: exceptionMessage(e.ExceptionDetails),
			})
		}
	})
}

func (b *consoleBuffer) append(e capture.LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, e)
}

func (b *consoleBuffer) entries() []capture.LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]capture.LogEntry, len(b.buf))
	copy(out, b.buf)
	return out
}

// consoleLevel maps a console API call type onto driver-style log levels.
func consoleLevel(t runtime.APIType) string {
	switch t {
	case runtime.APITypeError, runtime.APITypeAssert:
		return "SEVERE"
	case runtime.APITypeWarning:
		return "WARNING"
	case runtime.APITypeDebug:
		return "DEBUG"
	default:
		return "INFO"
	}
}

// consoleMessage renders console call arguments as one line.
func consoleMessage(args []*runtime.RemoteObject) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, remoteObjectString(arg))
	}
	return strings.Join(parts, " ")
}

func remoteObjectString(obj *runtime.RemoteObject) string {
	if obj == nil {
		return ""
	}
	if len(obj.Value) > 0 {
		return strings.Trim(string(obj.Value), `"`)
	}
	if obj.Description != "" {
		return obj.Description
	}
	return string(obj.Type)
}

func exceptionMessage(details *runtime.ExceptionDetails) string {
	if details == nil {
		return "uncaught exception"
	}
	msg := details.Text
	if details.Exception != nil && details.Exception.Description != "" {
		if msg != "" {
			msg += " "
		}
		msg += details.Exception.Description
	}
	return msg
}

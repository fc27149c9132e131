package capture

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeSession is a scriptable Session for pipeline tests. A nil error
// field means the call succeeds with the canned value.
type fakeSession struct {
	location    string
	locationErr error
	png         []byte
	pngErr      error
	markup      string
	markupErr   error
	logs        []LogEntry
	logsErr     error
}

func (f *fakeSession) CurrentLocation(context.Context) (string, error) {
	return f.location, f.locationErr
}

func (f *fakeSession) Screenshot(context.Context) ([]byte, error) {
	return f.png, f.pngErr
}

func (f *fakeSession) PageMarkup(context.Context) (string, error) {
	return f.markup, f.markupErr
}

func (f *fakeSession) FetchLogs(context.Context, string) ([]LogEntry, error) {
	return f.logs, f.logsErr
}

func TestScreenshotStep(t *testing.T) {
	ctx := context.Background()

	res := ScreenshotStep{}.Capture(ctx, &fakeSession{png: []byte{0x89, 'P', 'N', 'G'}})
	a, ok := res.Artifact()
	if !ok {
		t.Fatal("expected artifact")
	}
	want := Artifact{Name: "screenshot on failure", Kind: KindImage, Payload: []byte{0x89, 'P', 'N', 'G'}}
	if diff := cmp.Diff(want, a); diff != "" {
		t.Errorf("artifact mismatch (-want +got):\n%s", diff)
	}

	res = ScreenshotStep{}.Capture(ctx, &fakeSession{pngErr: errors.New("timeout waiting for frame")})
	f, failed := res.Failure()
	if !failed {
		t.Fatal("expected failure result, not an error")
	}
	if f.Err != "timeout waiting for frame" {
		t.Errorf("failure err = %q", f.Err)
	}
}

func TestLocationStep(t *testing.T) {
	res := LocationStep{}.Capture(context.Background(), &fakeSession{location: "http://example.test/secure"})
	a, ok := res.Artifact()
	if !ok {
		t.Fatal("expected artifact")
	}
	if a.Kind != KindText || string(a.Payload) != "http://example.test/secure" {
		t.Errorf("unexpected artifact: %+v", a)
	}
}

func TestMarkupStep(t *testing.T) {
	res := MarkupStep{}.Capture(context.Background(), &fakeSession{markup: "<html><body>hi</body></html>"})
	a, ok := res.Artifact()
	if !ok {
		t.Fatal("expected artifact")
	}
	if a.Kind != KindMarkup {
		t.Errorf("kind = %q, want markup", a.Kind)
	}
	if string(a.Payload) != "<html><body>hi</body></html>" {
		t.Errorf("payload = %q", a.Payload)
	}
}

func TestConsoleLogStep(t *testing.T) {
	tests := []struct {
		name    string
		session *fakeSession
		want    string
		empty   bool
		failed  bool
	}{
		{
			name: "entries formatted and newline joined",
			session: &fakeSession{logs: []LogEntry{
				{Level: "SEVERE", Message: "Uncaught TypeError"},
				{Level: "WARNING", Message: "deprecated API"},
			}},
			want: "[SEVERE] Uncaught TypeError\n[WARNING] deprecated API",
		},
		{
			name:    "empty log produces nothing, not a failure",
			session: &fakeSession{},
			empty:   true,
		},
		{
			name:    "fetch error becomes failure",
			session: &fakeSession{logsErr: errors.New("log endpoint unavailable")},
			failed:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ConsoleLogStep{Category: "browser"}.Capture(context.Background(), tt.session)
			if tt.empty {
				if !res.Empty() {
					t.Fatalf("expected empty result, got %+v", res)
				}
				return
			}
			if tt.failed {
				if _, failed := res.Failure(); !failed {
					t.Fatal("expected failure result")
				}
				return
			}
			a, ok := res.Artifact()
			if !ok {
				t.Fatal("expected artifact")
			}
			if got := string(a.Payload); got != tt.want {
				t.Errorf("payload:\n got %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestDefaultSteps_Order(t *testing.T) {
	var names []string
	for _, s := range DefaultSteps() {
		names = append(names, s.Name())
	}
	want := []string{"screenshot on failure", "page url on failure", "page source", "browser logs"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("step order (-want +got):\n%s", diff)
	}
}

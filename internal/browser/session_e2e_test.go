//go:build e2e

package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const consolePage = `<!DOCTYPE html>
<html>
<head><title>Console Fixture</title></head>
<body>
  <h1 id="greeting">hello</h1>
  <input id="field" type="text">
  <script>
    console.log("page loaded");
    console.error("simulated failure");
  </script>
</body>
</html>`

func TestSession_DriverOperations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(consolePage))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	s, err := New(ctx, Config{Headless: true, Timeout: 15 * time.Second})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	defer s.Close()

	if err := s.Navigate(ctx, srv.URL); err != nil {
		t.Fatalf("navigate: %v", err)
	}

	t.Run("location and title", func(t *testing.T) {
		loc, err := s.CurrentLocation(ctx)
		if err != nil {
			t.Fatalf("current location: %v", err)
		}
		if !strings.HasPrefix(loc, srv.URL) {
			t.Errorf("location = %q, want prefix %q", loc, srv.URL)
		}
		title, err := s.Title(ctx)
		if err != nil {
			t.Fatalf("title: %v", err)
		}
		if title != "Console Fixture" {
			t.Errorf("title = %q", title)
		}
	})

	t.Run("screenshot and markup", func(t *testing.T) {
		png, err := s.Screenshot(ctx)
		if err != nil {
			t.Fatalf("screenshot: %v", err)
		}
		if len(png) < 8 || png[1] != 'P' || png[2] != 'N' || png[3] != 'G' {
			t.Error("screenshot is not a PNG")
		}
		html, err := s.PageMarkup(ctx)
		if err != nil {
			t.Fatalf("page markup: %v", err)
		}
		if !strings.Contains(html, `id="greeting"`) {
			t.Errorf("markup missing fixture content: %s", html)
		}
	})

	t.Run("element operations", func(t *testing.T) {
		if err := s.WaitVisible(ctx, "#greeting"); err != nil {
			t.Fatalf("wait visible: %v", err)
		}
		text, err := s.Text(ctx, "#greeting")
		if err != nil {
			t.Fatalf("text: %v", err)
		}
		if text != "hello" {
			t.Errorf("text = %q", text)
		}
		if err := s.SendKeys(ctx, "#field", "tomsmith"); err != nil {
			t.Fatalf("send keys: %v", err)
		}
		n, err := s.Count(ctx, "input")
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if n != 1 {
			t.Errorf("count inputs = %d, want 1", n)
		}
		if n, _ := s.Count(ctx, ".does-not-exist"); n != 0 {
			t.Errorf("count missing selector = %d, want 0", n)
		}
	})

	t.Run("console logs collected", func(t *testing.T) {
		// Console events arrive asynchronously after script execution.
		deadline := time.Now().Add(5 * time.Second)
		for {
			entries, err := s.FetchLogs(ctx, "browser")
			if err != nil {
				t.Fatalf("fetch logs: %v", err)
			}
			if len(entries) >= 2 || time.Now().After(deadline) {
				var sawError bool
				for _, e := range entries {
					if e.Level == "SEVERE" && strings.Contains(e.Message, "simulated failure") {
						sawError = true
					}
				}
				if !sawError {
					t.Errorf("console entries missing error line: %+v", entries)
				}
				break
			}
			time.Sleep(100 * time.Millisecond)
		}
	})
}

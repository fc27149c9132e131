package report

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestProjectScope_SaveLog_Multipart(t *testing.T) {
	var gotRQ []SaveLogRQ
	var gotFile []byte
	var gotFileType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/ui-suite/log" || r.Method != "POST" {
			http.NotFound(w, r)
			return
		}
		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "multipart/form-data" {
			t.Errorf("content type = %q (%v)", mediaType, err)
			return
		}
		mr := multipart.NewReader(r.Body, params["boundary"])
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatalf("next part: %v", err)
			}
			switch part.FormName() {
			case "json_request_part":
				if err := json.NewDecoder(part).Decode(&gotRQ); err != nil {
					t.Errorf("decode json part: %v", err)
				}
			case "file":
				gotFile, _ = io.ReadAll(part)
				gotFileType = part.Header.Get("Content-Type")
			}
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, _ := New(server.URL, "test-token", WithHTTPClient(server.Client()))
	scope := client.Project("ui-suite")

	payload := []byte{0x89, 'P', 'N', 'G'}
	err := scope.SaveLog(context.Background(), SaveLogRQ{
		LaunchUUID: "launch-uuid-1",
		ItemUUID:   "item-uuid-1",
		Time:       EpochMillis(time.Now()),
		Level:      "INFO",
		Message:    "screenshot on failure",
		File:       &FileRef{Name: "screenshot_on_failure.png"},
	}, payload, "image/png")
	if err != nil {
		t.Fatalf("save log: %v", err)
	}

	if len(gotRQ) != 1 {
		t.Fatalf("json part has %d entries, want 1", len(gotRQ))
	}
	rq := gotRQ[0]
	if rq.ItemUUID != "item-uuid-1" || rq.Message != "screenshot on failure" {
		t.Errorf("unexpected log entry: %+v", rq)
	}
	if rq.File == nil || rq.File.Name != "screenshot_on_failure.png" {
		t.Errorf("file ref = %+v", rq.File)
	}
	if !bytes.Equal(gotFile, payload) {
		t.Errorf("file payload = %v", gotFile)
	}
	if gotFileType != "image/png" {
		t.Errorf("file content type = %q", gotFileType)
	}
}

func TestProjectScope_SaveLog_DefaultsTime(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, params, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		mr := multipart.NewReader(r.Body, params["boundary"])
		part, err := mr.NextPart()
		if err != nil {
			t.Fatalf("next part: %v", err)
		}
		var rqs []SaveLogRQ
		json.NewDecoder(part).Decode(&rqs)
		if len(rqs) == 1 && rqs[0].Time.Time().IsZero() {
			t.Error("zero time was not defaulted")
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, _ := New(server.URL, "test-token", WithHTTPClient(server.Client()))
	err := client.Project("ui-suite").SaveLog(context.Background(), SaveLogRQ{
		LaunchUUID: "l",
		ItemUUID:   "i",
		Message:    "page url on failure",
	}, nil, "text/plain")
	if err != nil {
		t.Fatalf("save log: %v", err)
	}
}

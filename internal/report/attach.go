package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"time"
)

// SaveLog posts one log entry with an optional binary attachment to the
// item referenced by rq. The attachment goes out as a multipart request:
// a "json_request_part" carrying the entry array and a file part named
// by rq.File.Name.
func (p *ProjectScope) SaveLog(ctx context.Context, rq SaveLogRQ, payload []byte, mediaType string) error {
	if rq.Time.Time().IsZero() {
		rq.Time = EpochMillis(time.Now())
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	jsonHeader := textproto.MIMEHeader{}
	jsonHeader.Set("Content-Disposition", `form-data; name="json_request_part"`)
	jsonHeader.Set("Content-Type", "application/json")
	jsonPart, err := w.CreatePart(jsonHeader)
	if err != nil {
		return fmt.Errorf("save log: create json part: %w", err)
	}
	if err := json.NewEncoder(jsonPart).Encode([]SaveLogRQ{rq}); err != nil {
		return fmt.Errorf("save log: encode json part: %w", err)
	}

	if rq.File != nil {
		fileHeader := textproto.MIMEHeader{}
		fileHeader.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="file"; filename=%q`, rq.File.Name))
		fileHeader.Set("Content-Type", mediaType)
		filePart, err := w.CreatePart(fileHeader)
		if err != nil {
			return fmt.Errorf("save log: create file part: %w", err)
		}
		if _, err := filePart.Write(payload); err != nil {
			return fmt.Errorf("save log: write file part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("save log: finalize multipart: %w", err)
	}

	u := fmt.Sprintf("%s/api/v1/%s/log", p.client.baseURL, p.project)
	return p.client.doJSON(ctx, "POST", u, "save log", w.FormDataContentType(), &body, nil)
}

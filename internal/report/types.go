package report

import (
	"encoding/json"
	"fmt"
	"time"
)

// EpochMillis is a point in time serialized as integer Unix milliseconds,
// the timestamp format the report store expects.
type EpochMillis time.Time

// Time returns the underlying time.Time value.
func (e EpochMillis) Time() time.Time { return time.Time(e) }

// MarshalJSON serializes EpochMillis as Unix milliseconds.
func (e EpochMillis) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(e).UnixMilli())
}

// UnmarshalJSON deserializes an integer millisecond timestamp.
func (e *EpochMillis) UnmarshalJSON(data []byte) error {
	var ms int64
	if err := json.Unmarshal(data, &ms); err != nil {
		return fmt.Errorf("unmarshal epoch millis: %w", err)
	}
	*e = EpochMillis(time.UnixMilli(ms))
	return nil
}

// ErrorRS is the error body returned by the report store API.
type ErrorRS struct {
	ErrorCode int    `json:"errorCode"`
	Message   string `json:"message"`
}

// EntryCreatedRS is the generic creation response carrying the new
// resource UUID.
type EntryCreatedRS struct {
	ID string `json:"id"`
}

// StartLaunchRQ begins a launch (one suite run).
type StartLaunchRQ struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	StartTime   EpochMillis     `json:"startTime"`
	Mode        string          `json:"mode,omitempty"`
	Attributes  []ItemAttribute `json:"attributes,omitempty"`
}

// FinishExecutionRQ ends a launch or item.
type FinishExecutionRQ struct {
	EndTime    EpochMillis `json:"endTime"`
	Status     string      `json:"status,omitempty"`
	LaunchUUID string      `json:"launchUuid,omitempty"`
}

// StartItemRQ begins a test item under a launch.
type StartItemRQ struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	LaunchUUID  string      `json:"launchUuid"`
	Description string      `json:"description,omitempty"`
	StartTime   EpochMillis `json:"startTime"`
	CodeRef     string      `json:"codeRef,omitempty"`
}

// ItemAttribute is a key-value attribute on a launch or item.
type ItemAttribute struct {
	Key   string `json:"key,omitempty"`
	Value string `json:"value"`
}

// SaveLogRQ is one log entry, optionally referencing an uploaded file
// part by name.
type SaveLogRQ struct {
	LaunchUUID string      `json:"launchUuid"`
	ItemUUID   string      `json:"itemUuid,omitempty"`
	Time       EpochMillis `json:"time"`
	Level      string      `json:"level,omitempty"`
	Message    string      `json:"message,omitempty"`
	File       *FileRef    `json:"file,omitempty"`
}

// FileRef names a multipart file attached alongside a log entry.
type FileRef struct {
	Name string `json:"name"`
}

// Launch and item statuses the suite reports.
const (
	StatusPassed  = "PASSED"
	StatusFailed  = "FAILED"
	StatusSkipped = "SKIPPED"
)

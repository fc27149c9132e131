// Package allure writes test results and attachments in the Allure
// results-directory format, so the suite's evidence can be rendered by
// a standard report viewer.
package allure

// Stage and status values understood by the report viewer.
const StageFinished = "finished"

const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
	StatusBroken  = "broken"
)

// Result is one test case's result file (<uuid>-result.json).
type Result struct {
	UUID          string         `json:"uuid"`
	HistoryID     string         `json:"historyId,omitempty"`
	Name          string         `json:"name"`
	FullName      string         `json:"fullName,omitempty"`
	Status        string         `json:"status"`
	StatusDetails *StatusDetails `json:"statusDetails,omitempty"`
	Stage         string         `json:"stage"`
	Start         int64          `json:"start"`
	Stop          int64          `json:"stop"`
	Labels        []Label        `json:"labels,omitempty"`
	Attachments   []Attachment   `json:"attachments,omitempty"`
}

// StatusDetails carries the failure or skip message.
type StatusDetails struct {
	Message string `json:"message,omitempty"`
	Trace   string `json:"trace,omitempty"`
}

// Label is a key-value tag the viewer groups results by.
type Label struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Attachment references a payload file next to the result file.
type Attachment struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Type   string `json:"type"`
}

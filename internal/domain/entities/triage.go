package entities

import "time"

// TriageResult is the raw completion text produced for one intake. It is
// treated as opaque natural language; the only structure ever read out of it
// is the severity marker scan.
type TriageResult struct {
	Diagnostico string
	Model       string
}

// Report describes a rendered triage document staged for download. A report
// never outlives the retention window of the staging directory.
type Report struct {
	Filename    string    `json:"filename"`
	Path        string    `json:"path"`
	DownloadURL string    `json:"downloadUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

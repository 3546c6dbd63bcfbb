package domain

import "time"

// LogStatus classifies one probe log entry. Connectivity statuses describe
// whether the HTTP request itself completed; content statuses describe
// whether the required substrings were found in a successful response body.
type LogStatus string

const (
	StatusConnOK     LogStatus = "CONN_OK"
	StatusConnNOK    LogStatus = "CONN_NOK"
	StatusContentOK  LogStatus = "CONTENT_OK"
	StatusContentNOK LogStatus = "CONTENT_NOK"
)

// Target is one monitored endpoint. ContentRequirements may be empty, in
// which case only connectivity is checked.
type Target struct {
	URL                 string   `json:"url"`
	ContentRequirements []string `json:"req,omitempty"`
}

// LogEntry is the sole persisted record: one appended row per probe outcome.
// Duration is non-nil exactly for connectivity entries and nil for content
// entries; that is the discriminator between the two kinds sharing one table.
type LogEntry struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	URL       string    `json:"url"`
	Duration  *int64    `json:"duration"` // milliseconds; pointer to allow nil
	Status    LogStatus `json:"status"`
	Details   string    `json:"details"`
}

// IsConnectivity reports whether the entry records a connectivity outcome.
func (e *LogEntry) IsConnectivity() bool { return e.Duration != nil }

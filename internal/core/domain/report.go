package domain

import "time"

// PrivacyNote is the fixed disclaimer attached to every exported report.
const PrivacyNote = "This report contains no user data. Only error categories, generic messages, and timestamps are included."

// ReportEntry is the privacy-safe projection of a single error record.
// Context is deliberately absent: type, message and timestamp are the only
// fields allowed to leave the process.
type ReportEntry struct {
	Type      ErrorType `json:"type" db:"error_type"`
	Message   string    `json:"message" db:"message"`
	Timestamp time.Time `json:"timestamp" db:"occurred_at"`
}

// Report is the one exported artifact of the error subsystem. Its schema is
// a compatibility surface for downstream consumers of downloaded reports.
type Report struct {
	Timestamp   time.Time     `json:"timestamp"`
	Component   string        `json:"component"`
	TotalErrors int           `json:"total_errors"`
	RetryCount  int           `json:"retry_count"`
	Errors      []ReportEntry `json:"errors"`
	PrivacyNote string        `json:"privacy_note"`
}

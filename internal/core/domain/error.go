package domain

import "time"

// ErrorType buckets a classified failure into the stable taxonomy that the
// UI and the export schema depend on.
type ErrorType string

const (
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeForecast   ErrorType = "forecast"
	ErrorTypeUpload     ErrorType = "file_upload"
	ErrorTypeSession    ErrorType = "session"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeMemory     ErrorType = "memory"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// Severity ranks how disruptive a failure is for the user.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// RemedyAction is a suggested remediation surfaced alongside an error.
type RemedyAction struct {
	Label    string `json:"label"`
	ActionID string `json:"action_id"`
	Style    string `json:"style"`
}

// ErrorInfo is the structured, privacy-safe classification of a raw failure.
// It is immutable once produced and never carries payload data.
type ErrorInfo struct {
	Type           ErrorType
	Severity       Severity
	UserMessage    string
	PrivacyMessage string
	Retryable      bool
	Actions        []RemedyAction
}

// ErrorRecord is the surfaced projection of an ErrorInfo retained by the
// aggregator until cleared or evicted.
type ErrorRecord struct {
	ID             string         `json:"id"`
	Type           ErrorType      `json:"type"`
	Message        string         `json:"message"`
	PrivacyMessage string         `json:"privacy_message,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
	Context        map[string]any `json:"-"`
}

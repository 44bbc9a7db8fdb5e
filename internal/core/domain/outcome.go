package domain

import "time"

// Outcome is the terminal result of a retry chain. It is always returned,
// never raised: success carries the action result, failure carries the last
// classification plus whether the attempt budget was exhausted.
type Outcome struct {
	Success            bool
	Result             any
	RetriedAfter       int
	ErrorInfo          ErrorInfo
	MaxRetriesExceeded bool
}

// RetryStats is a point-in-time snapshot of orchestrator state.
type RetryStats struct {
	ActiveRetries int             `json:"active_retries"`
	MaxRetries    int             `json:"max_retries"`
	RetryDelays   []time.Duration `json:"retry_delays"`
}

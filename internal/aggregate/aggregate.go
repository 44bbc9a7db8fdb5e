package aggregate

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/vietddude/sentinel/internal/core/domain"
	"github.com/vietddude/sentinel/internal/telemetry"
)

// defaultMaxRecords caps retained history: oldest records are evicted first
// once the cap is reached.
const defaultMaxRecords = 10

// Summary condenses current aggregator state for status surfaces.
type Summary struct {
	TotalErrors   int                `json:"total_errors"`
	ErrorTypes    []domain.ErrorType `json:"error_types"`
	HasValidation bool               `json:"has_validation"`
	HasNetwork    bool               `json:"has_network"`
	LastErrorTime time.Time          `json:"last_error_time"`
	RetryCount    int                `json:"retry_count"`
}

// Aggregator is the session-scoped collection of surfaced errors. Recording
// dedups on (type, message) so an operation failing identically in a loop
// produces one record, not notification spam.
type Aggregator struct {
	mu         sync.Mutex
	records    []domain.ErrorRecord
	retryCount int
	maxRecords int
	now        func() time.Time
}

// New creates an empty aggregator with the default history cap.
func New() *Aggregator {
	return &Aggregator{
		maxRecords: defaultMaxRecords,
		now:        time.Now,
	}
}

// Record projects info into an ErrorRecord and retains it. If a record with
// the same (type, message) already exists the call is a no-op returning the
// existing record.
func (a *Aggregator) Record(info domain.ErrorInfo, context map[string]any) domain.ErrorRecord {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, r := range a.records {
		if r.Type == info.Type && r.Message == info.UserMessage {
			return r
		}
	}

	rec := domain.ErrorRecord{
		ID:             ulid.MustNew(ulid.Timestamp(a.now()), rand.Reader).String(),
		Type:           info.Type,
		Message:        info.UserMessage,
		PrivacyMessage: info.PrivacyMessage,
		Timestamp:      a.now(),
		Context:        context,
	}

	a.records = append(a.records, rec)
	if len(a.records) > a.maxRecords {
		a.records = a.records[len(a.records)-a.maxRecords:]
	}

	telemetry.ErrorsTotal.WithLabelValues(string(info.Type)).Inc()
	return rec
}

// RecordRetry bumps the session retry counter. Wired as the orchestrator's
// attempt recorder.
func (a *Aggregator) RecordRetry() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.retryCount++
}

// Clear drops all records and resets the retry counter.
func (a *Aggregator) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = nil
	a.retryCount = 0
}

// ClearOne removes the record with the given id, if present.
func (a *Aggregator) ClearOne(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, r := range a.records {
		if r.ID == id {
			a.records = append(a.records[:i], a.records[i+1:]...)
			return
		}
	}
}

// ByType returns all records of the given type, oldest first.
func (a *Aggregator) ByType(t domain.ErrorType) []domain.ErrorRecord {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []domain.ErrorRecord
	for _, r := range a.records {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

// HasType reports whether any record of the given type is retained.
func (a *Aggregator) HasType(t domain.ErrorType) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, r := range a.records {
		if r.Type == t {
			return true
		}
	}
	return false
}

// HasErrors reports whether any record is retained.
func (a *Aggregator) HasErrors() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records) > 0
}

// Records returns a copy of the retained records, oldest first.
func (a *Aggregator) Records() []domain.ErrorRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.ErrorRecord, len(a.records))
	copy(out, a.records)
	return out
}

// Summary returns the condensed state, or nil when there is nothing to
// summarize.
func (a *Aggregator) Summary() *Summary {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.records) == 0 && a.retryCount == 0 {
		return nil
	}

	s := &Summary{
		TotalErrors: len(a.records),
		RetryCount:  a.retryCount,
	}
	seen := make(map[domain.ErrorType]bool)
	for _, r := range a.records {
		if !seen[r.Type] {
			seen[r.Type] = true
			s.ErrorTypes = append(s.ErrorTypes, r.Type)
		}
		if r.Timestamp.After(s.LastErrorTime) {
			s.LastErrorTime = r.Timestamp
		}
	}
	s.HasValidation = seen[domain.ErrorTypeValidation]
	s.HasNetwork = seen[domain.ErrorTypeNetwork]
	return s
}

// ExportReport builds the privacy-safe export payload. Context never leaves
// through this projection; each entry carries only type, message and
// timestamp. This is the one path by which error history may leave the
// process.
func (a *Aggregator) ExportReport(component string) domain.Report {
	a.mu.Lock()
	defer a.mu.Unlock()

	entries := make([]domain.ReportEntry, 0, len(a.records))
	for _, r := range a.records {
		entries = append(entries, domain.ReportEntry{
			Type:      r.Type,
			Message:   r.Message,
			Timestamp: r.Timestamp,
		})
	}

	return domain.Report{
		Timestamp:   a.now(),
		Component:   component,
		TotalErrors: len(a.records),
		RetryCount:  a.retryCount,
		Errors:      entries,
		PrivacyNote: domain.PrivacyNote,
	}
}

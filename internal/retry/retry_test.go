package retry

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vietddude/sentinel/internal/core/domain"
	"github.com/vietddude/sentinel/internal/notify"
)

// fakeDispatcher records notifications for assertions.
type fakeDispatcher struct {
	mu            sync.Mutex
	notifications []domain.Notification
}

func (d *fakeDispatcher) AddNotification(n domain.Notification) notify.Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notifications = append(d.notifications, n)
	return "h"
}

func (d *fakeDispatcher) byTitle(prefix string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	count := 0
	for _, n := range d.notifications {
		if strings.HasPrefix(n.Title, prefix) {
			count++
		}
	}
	return count
}

type countingRecorder struct {
	mu    sync.Mutex
	count int
}

func (r *countingRecorder) RecordRetry() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
}

func testConfig() Config {
	return Config{
		MaxRetries: 3,
		Delays:     []time.Duration{time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond},
	}
}

func retryableInfo() domain.ErrorInfo {
	return domain.ErrorInfo{
		Type:        domain.ErrorTypeNetwork,
		Severity:    domain.SeverityMedium,
		UserMessage: "network trouble",
		Retryable:   true,
	}
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	d := &fakeDispatcher{}
	rec := &countingRecorder{}
	store := NewAttemptStore()
	o := New(testConfig(), store, d, rec, nil)

	// Three 429 failures already happened once externally; the action fails
	// twice more, then succeeds.
	calls := 0
	action := RetryableFunc(func(ctx context.Context) (any, error) {
		calls++
		if calls < 3 {
			return nil, &domain.RawFailure{Message: "too many requests", Response: &domain.RawResponse{Status: 429}}
		}
		return "forecast-data", nil
	})

	out := o.Retry(context.Background(), "op-forecast", action, retryableInfo())

	if !out.Success {
		t.Fatalf("expected success, got %+v", out)
	}
	if out.Result != "forecast-data" {
		t.Errorf("Result = %v, want forecast-data", out.Result)
	}
	if out.RetriedAfter != 3 {
		t.Errorf("RetriedAfter = %d, want 3", out.RetriedAfter)
	}
	if got := d.byTitle("Retrying"); got != 3 {
		t.Errorf("retrying notifications = %d, want 3", got)
	}
	if got := d.byTitle("Recovered"); got != 1 {
		t.Errorf("success notifications = %d, want 1", got)
	}
	if rec.count != 3 {
		t.Errorf("recorded retries = %d, want 3", rec.count)
	}
	if store.Len() != 0 {
		t.Errorf("attempt store not cleaned up, Len = %d", store.Len())
	}
}

func TestRetryBoundedByBudget(t *testing.T) {
	d := &fakeDispatcher{}
	store := NewAttemptStore()
	o := New(testConfig(), store, d, nil, nil)

	calls := 0
	action := RetryableFunc(func(ctx context.Context) (any, error) {
		calls++
		return nil, errors.New("connection reset by peer")
	})

	out := o.Retry(context.Background(), "op-doomed", action, retryableInfo())

	if out.Success {
		t.Fatal("expected failure")
	}
	if !out.MaxRetriesExceeded {
		t.Error("expected MaxRetriesExceeded")
	}
	if calls != 3 {
		t.Errorf("action invoked %d times, want exactly maxRetries (3)", calls)
	}
	if store.Len() != 0 {
		t.Errorf("attempt entry must be absent after exhaustion, Len = %d", store.Len())
	}
	if got := d.byTitle("Still not working"); got != 1 {
		t.Errorf("terminal notifications = %d, want 1", got)
	}
}

func TestRetryNeverInvokesActionForSession(t *testing.T) {
	d := &fakeDispatcher{}
	o := New(testConfig(), NewAttemptStore(), d, nil, nil)

	invoked := false
	action := RetryableFunc(func(ctx context.Context) (any, error) {
		invoked = true
		return nil, errors.New("session expired")
	})

	sessionInfo := domain.ErrorInfo{
		Type:        domain.ErrorTypeSession,
		Severity:    domain.SeverityMedium,
		UserMessage: "session ended",
		Retryable:   false,
	}
	out := o.Retry(context.Background(), "op-session", action, sessionInfo)

	if invoked {
		t.Error("retry action must never run for session errors")
	}
	if out.Success || out.MaxRetriesExceeded {
		t.Errorf("expected plain failure outcome, got %+v", out)
	}
}

func TestRetryStopsWhenFailureTurnsSession(t *testing.T) {
	o := New(testConfig(), NewAttemptStore(), &fakeDispatcher{}, nil, nil)

	calls := 0
	action := RetryableFunc(func(ctx context.Context) (any, error) {
		calls++
		return nil, errors.New("session expired during replay")
	})

	out := o.Retry(context.Background(), "op-turncoat", action, retryableInfo())

	if calls != 1 {
		t.Errorf("action invoked %d times, want 1 (then halted on session classification)", calls)
	}
	if out.ErrorInfo.Type != domain.ErrorTypeSession {
		t.Errorf("final ErrorInfo.Type = %s, want session", out.ErrorInfo.Type)
	}
}

func TestRetryContextCancellation(t *testing.T) {
	cfg := Config{MaxRetries: 3, Delays: []time.Duration{time.Hour}}
	store := NewAttemptStore()
	o := New(cfg, store, &fakeDispatcher{}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	action := RetryableFunc(func(ctx context.Context) (any, error) {
		t.Error("action must not run after cancellation")
		return nil, nil
	})

	out := o.Retry(ctx, "op-cancel", action, retryableInfo())
	if out.Success {
		t.Error("expected failure outcome on cancellation")
	}
	if store.Len() != 0 {
		t.Errorf("attempt entry must be removed on cancellation, Len = %d", store.Len())
	}
}

func TestDelayTableClamped(t *testing.T) {
	o := New(Config{
		MaxRetries: 5,
		Delays:     []time.Duration{time.Second, 2 * time.Second, 4 * time.Second},
	}, NewAttemptStore(), &fakeDispatcher{}, nil, nil)

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 4 * time.Second},
		{10, 4 * time.Second},
	}
	for _, tt := range tests {
		if got := o.delayFor(tt.attempt); got != tt.want {
			t.Errorf("delayFor(%d) = %s, want %s", tt.attempt, got, tt.want)
		}
	}
}

func TestStats(t *testing.T) {
	store := NewAttemptStore()
	o := New(testConfig(), store, &fakeDispatcher{}, nil, nil)

	store.Begin("a", 3)
	store.Begin("b", 3)

	stats := o.Stats()
	if stats.ActiveRetries != 2 {
		t.Errorf("ActiveRetries = %d, want 2", stats.ActiveRetries)
	}
	if stats.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", stats.MaxRetries)
	}
	if len(stats.RetryDelays) != 3 {
		t.Errorf("RetryDelays length = %d, want 3", len(stats.RetryDelays))
	}
}

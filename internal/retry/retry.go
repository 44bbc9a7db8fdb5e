package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vietddude/sentinel/internal/classify"
	"github.com/vietddude/sentinel/internal/core/domain"
	"github.com/vietddude/sentinel/internal/notify"
	"github.com/vietddude/sentinel/internal/telemetry"
)

// Retryable is a caller-supplied capability that re-executes the failed
// operation. It resolves with a result or a new raw failure.
type Retryable interface {
	Invoke(ctx context.Context) (any, error)
}

// RetryableFunc adapts a plain function to Retryable.
type RetryableFunc func(ctx context.Context) (any, error)

func (f RetryableFunc) Invoke(ctx context.Context) (any, error) { return f(ctx) }

// Recorder receives a callback for every executed retry attempt.
type Recorder interface {
	RecordRetry()
}

// Config defines retry behavior. Delays is a fixed per-attempt backoff
// table; attempts beyond its length reuse the last entry. The cap is
// deliberate: a human is waiting synchronously, unbounded exponential
// growth would read as a hang.
type Config struct {
	MaxRetries int
	Delays     []time.Duration
}

// DefaultConfig provides the standard budget and backoff table.
var DefaultConfig = Config{
	MaxRetries: 3,
	Delays:     []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
}

// Orchestrator schedules bounded, backed-off re-invocations of retry
// actions, keyed by request identity. The attempt store is constructor
// injected so tests can run isolated instances.
type Orchestrator struct {
	cfg        Config
	store      *AttemptStore
	dispatcher notify.Dispatcher
	recorder   Recorder
	log        *slog.Logger
}

// New creates an orchestrator. recorder may be nil.
func New(cfg Config, store *AttemptStore, dispatcher notify.Dispatcher, recorder Recorder, log *slog.Logger) *Orchestrator {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultConfig.MaxRetries
	}
	if len(cfg.Delays) == 0 {
		cfg.Delays = DefaultConfig.Delays
	}
	if store == nil {
		store = NewAttemptStore()
	}
	if dispatcher == nil {
		dispatcher = notify.NewLogDispatcher(log)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		cfg:        cfg,
		store:      store,
		dispatcher: dispatcher,
		recorder:   recorder,
		log:        log.With("component", "retry"),
	}
}

// Retry drives the backoff loop for requestID until the action succeeds,
// the attempt budget is exhausted, or the latest failure is no longer
// retryable. All terminal states come back as tagged outcomes; nothing is
// raised past this boundary.
func (o *Orchestrator) Retry(ctx context.Context, requestID string, action Retryable, last domain.ErrorInfo) domain.Outcome {
	info := last

	for {
		// Session failures are never replayed, and a classification that
		// turned non-retryable terminates the chain.
		if !info.Retryable || info.Type == domain.ErrorTypeSession {
			o.store.Remove(requestID)
			return domain.Outcome{ErrorInfo: info}
		}

		count, ok := o.store.Begin(requestID, o.cfg.MaxRetries)
		if !ok {
			o.store.Remove(requestID)
			o.notifyExhausted(requestID)
			telemetry.RetriesExhaustedTotal.Inc()
			return domain.Outcome{ErrorInfo: info, MaxRetriesExceeded: true}
		}

		attempt := count + 1
		delay := o.delayFor(count)
		o.notifyAttempt(attempt, delay)
		o.log.Info("Retrying request",
			"request_id", requestID, "attempt", attempt, "max", o.cfg.MaxRetries, "delay", delay)

		select {
		case <-ctx.Done():
			o.store.Remove(requestID)
			return domain.Outcome{ErrorInfo: info}
		case <-time.After(delay):
		}

		telemetry.RetriesTotal.Inc()
		if o.recorder != nil {
			o.recorder.RecordRetry()
		}

		result, err := action.Invoke(ctx)
		if err == nil {
			o.store.Remove(requestID)
			o.notifySuccess(attempt)
			return domain.Outcome{Success: true, Result: result, RetriedAfter: attempt}
		}

		info = classify.Classify(err)
	}
}

// Stats returns a snapshot of orchestrator state.
func (o *Orchestrator) Stats() domain.RetryStats {
	delays := make([]time.Duration, len(o.cfg.Delays))
	copy(delays, o.cfg.Delays)
	return domain.RetryStats{
		ActiveRetries: o.store.Len(),
		MaxRetries:    o.cfg.MaxRetries,
		RetryDelays:   delays,
	}
}

// Store exposes the injected attempt store for lifecycle wiring (a full
// aggregator reset also resets it).
func (o *Orchestrator) Store() *AttemptStore { return o.store }

func (o *Orchestrator) delayFor(attempt int) time.Duration {
	if attempt >= len(o.cfg.Delays) {
		return o.cfg.Delays[len(o.cfg.Delays)-1]
	}
	return o.cfg.Delays[attempt]
}

func (o *Orchestrator) notifyAttempt(attempt int, delay time.Duration) {
	o.dispatcher.AddNotification(domain.Notification{
		Type:       domain.NotificationInfo,
		Title:      "Retrying",
		Message:    fmt.Sprintf("Attempt %d of %d, retrying in %s.", attempt, o.cfg.MaxRetries, delay),
		Icon:       "refresh",
		AutoRemove: true,
		Duration:   delay + 2*time.Second,
	})
}

func (o *Orchestrator) notifySuccess(attempt int) {
	o.dispatcher.AddNotification(domain.Notification{
		Type:       domain.NotificationSuccess,
		Title:      "Recovered",
		Message:    fmt.Sprintf("The operation succeeded after %d retry attempt(s).", attempt),
		Icon:       "check",
		AutoRemove: true,
		Duration:   5 * time.Second,
	})
}

func (o *Orchestrator) notifyExhausted(requestID string) {
	o.log.Warn("Retry budget exhausted", "request_id", requestID, "max", o.cfg.MaxRetries)
	o.dispatcher.AddNotification(domain.Notification{
		Type:    domain.NotificationError,
		Title:   "Still not working",
		Message: fmt.Sprintf("The operation failed after %d attempts.", o.cfg.MaxRetries),
		Icon:    "alert",
		Actions: []domain.RemedyAction{
			{Label: "Start over", ActionID: "restart", Style: "primary"},
		},
	})
}

// Package handler composes the classifier, aggregator and retry
// orchestrator into ergonomic entry points for callers. It holds no policy
// of its own beyond wiring.
package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vietddude/sentinel/internal/aggregate"
	"github.com/vietddude/sentinel/internal/classify"
	"github.com/vietddude/sentinel/internal/core/domain"
	"github.com/vietddude/sentinel/internal/notify"
	"github.com/vietddude/sentinel/internal/retry"
)

// Options shape a single Handle call.
type Options struct {
	// RequestID scopes the retry attempt count for one logical operation.
	// Derive it deterministically from the operation so concurrent callers
	// share one chain; when empty a random id is generated.
	RequestID string
	// Context is recorded with the error for in-process inspection. It is
	// never exported.
	Context map[string]any
	// Action, when supplied for a retryable classification, is re-invoked
	// by the orchestrator.
	Action retry.Retryable
	// Quiet suppresses the error notification (retry narration still runs).
	Quiet bool
}

// Handler is the general error-handling facade.
type Handler struct {
	agg        *aggregate.Aggregator
	orch       *retry.Orchestrator
	dispatcher notify.Dispatcher
	log        *slog.Logger
}

// New wires a facade over the given collaborators.
func New(agg *aggregate.Aggregator, orch *retry.Orchestrator, dispatcher notify.Dispatcher, log *slog.Logger) *Handler {
	if dispatcher == nil {
		dispatcher = notify.NewLogDispatcher(log)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Handler{agg: agg, orch: orch, dispatcher: dispatcher, log: log.With("component", "handler")}
}

// Handle classifies err, records it, surfaces a notification and, when the
// classification is retryable and an action was supplied, drives the retry
// loop. The record is cleared again if the retry chain ends in success.
func (h *Handler) Handle(ctx context.Context, err error, opts Options) (domain.ErrorInfo, *domain.Outcome) {
	info := classify.Classify(err)
	rec := h.agg.Record(info, opts.Context)

	h.log.Warn("Handling failure",
		"type", info.Type, "severity", info.Severity, "retryable", info.Retryable)

	if !opts.Quiet {
		h.notifyError(info)
	}

	if !info.Retryable || info.Type == domain.ErrorTypeSession || opts.Action == nil {
		return info, nil
	}

	requestID := opts.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	out := h.orch.Retry(ctx, requestID, opts.Action, info)
	if out.Success {
		h.agg.ClearOne(rec.ID)
	}
	return info, &out
}

// Reset clears all aggregator state and active attempt counts.
func (h *Handler) Reset() {
	h.agg.Clear()
	h.orch.Store().Reset()
}

// Aggregator exposes the underlying aggregator for status surfaces.
func (h *Handler) Aggregator() *aggregate.Aggregator { return h.agg }

// Stats returns the orchestrator's retry snapshot.
func (h *Handler) Stats() domain.RetryStats { return h.orch.Stats() }

func (h *Handler) notifyError(info domain.ErrorInfo) {
	message := info.UserMessage
	if info.PrivacyMessage != "" {
		message += " " + info.PrivacyMessage
	}
	h.dispatcher.AddNotification(domain.Notification{
		Type:       severityToNotification(info.Severity),
		Title:      titleFor(info.Type),
		Message:    message,
		Icon:       "alert",
		AutoRemove: info.Severity == domain.SeverityLow || info.Severity == domain.SeverityMedium,
		Duration:   8 * time.Second,
		Actions:    info.Actions,
	})
}

func severityToNotification(s domain.Severity) domain.NotificationType {
	switch s {
	case domain.SeverityLow:
		return domain.NotificationInfo
	case domain.SeverityMedium:
		return domain.NotificationWarning
	default:
		return domain.NotificationError
	}
}

func titleFor(t domain.ErrorType) string {
	switch t {
	case domain.ErrorTypeNetwork:
		return "Connection problem"
	case domain.ErrorTypeValidation:
		return "Check your input"
	case domain.ErrorTypeForecast:
		return "Forecast unavailable"
	case domain.ErrorTypeUpload:
		return "Upload problem"
	case domain.ErrorTypeSession:
		return "Session ended"
	case domain.ErrorTypeTimeout:
		return "Operation timed out"
	case domain.ErrorTypeMemory:
		return "Out of memory"
	default:
		return "Something went wrong"
	}
}

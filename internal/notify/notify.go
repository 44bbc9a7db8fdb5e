package notify

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/vietddude/sentinel/internal/core/domain"
	"github.com/vietddude/sentinel/internal/telemetry"
)

// Handle identifies a dispatched notification so callers can dismiss it.
type Handle string

// Dispatcher is the external notification widget's input contract. The core
// only ever calls it; rendering happens elsewhere.
type Dispatcher interface {
	AddNotification(n domain.Notification) Handle
}

// LogDispatcher writes notifications to structured logs. It is the default
// dispatcher when no UI channel is configured.
type LogDispatcher struct {
	log *slog.Logger
}

// NewLogDispatcher creates a slog-backed dispatcher.
func NewLogDispatcher(log *slog.Logger) *LogDispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &LogDispatcher{log: log.With("component", "notify")}
}

// AddNotification logs the notification at a level matching its type.
func (d *LogDispatcher) AddNotification(n domain.Notification) Handle {
	attrs := []any{"title", n.Title, "message", n.Message}
	switch n.Type {
	case domain.NotificationError:
		d.log.Error("notification", attrs...)
	case domain.NotificationWarning:
		d.log.Warn("notification", attrs...)
	default:
		d.log.Info("notification", attrs...)
	}
	return Handle(uuid.NewString())
}

// Multi fans a notification out to several dispatchers, returning the first
// handle. A nil or empty list is valid and drops notifications silently.
type Multi []Dispatcher

func (m Multi) AddNotification(n domain.Notification) Handle {
	var first Handle
	for i, d := range m {
		h := d.AddNotification(n)
		if i == 0 {
			first = h
		}
	}
	return first
}

// Instrumented wraps a dispatcher with a per-type prometheus counter.
type Instrumented struct {
	next Dispatcher
}

// NewInstrumented wraps next so every notification is counted exactly once.
func NewInstrumented(next Dispatcher) *Instrumented {
	return &Instrumented{next: next}
}

func (d *Instrumented) AddNotification(n domain.Notification) Handle {
	telemetry.NotificationsTotal.WithLabelValues(string(n.Type)).Inc()
	return d.next.AddNotification(n)
}

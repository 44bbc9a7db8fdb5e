package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vietddude/sentinel/internal/core/domain"
)

// Publisher is the subset of the Redis client used for pub/sub fan-out.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// RedisDispatcher publishes notifications to a Redis channel consumed by the
// UI process. Publish failures are logged, never propagated: a broken UI
// channel must not break the retry loop that emitted the notification.
type RedisDispatcher struct {
	pub     Publisher
	channel string
	timeout time.Duration
	log     *slog.Logger
}

// NewRedisDispatcher creates a dispatcher publishing to channel.
func NewRedisDispatcher(pub Publisher, channel string, log *slog.Logger) *RedisDispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &RedisDispatcher{
		pub:     pub,
		channel: channel,
		timeout: 2 * time.Second,
		log:     log.With("component", "notify"),
	}
}

type wireNotification struct {
	ID string `json:"id"`
	domain.Notification
}

func (d *RedisDispatcher) AddNotification(n domain.Notification) Handle {
	id := uuid.NewString()

	payload, err := json.Marshal(wireNotification{ID: id, Notification: n})
	if err != nil {
		d.log.Error("Failed to encode notification", "error", err)
		return Handle(id)
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.pub.Publish(ctx, d.channel, payload); err != nil {
		d.log.Error("Failed to publish notification", "channel", d.channel, "error", err)
	}
	return Handle(id)
}

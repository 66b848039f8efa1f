package reload

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Message is the pub/sub payload of a reload signal.
type Message struct {
	ID     string    `json:"id"`
	Scope  Scope     `json:"scope"`
	SentAt time.Time `json:"sent_at"`
}

// Channel returns the pub/sub channel for a storage group.
func Channel(group string) string {
	return "wordwidget:" + group + ":reload"
}

// RedisNotifier publishes reload signals to display processes over Redis pub/sub.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
	now     func() time.Time
}

// NewRedisNotifier publishes on the reload channel of group.
func NewRedisNotifier(client *redis.Client, group string, logger *slog.Logger) *RedisNotifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RedisNotifier{client: client, channel: Channel(group), logger: logger, now: time.Now}
}

// NotifyDisplaysChanged implements Notifier. Publish failures are logged.
func (n *RedisNotifier) NotifyDisplaysChanged(ctx context.Context, scope Scope) {
	msg := Message{ID: uuid.NewString(), Scope: scope, SentAt: n.now().UTC()}
	data, err := json.Marshal(msg)
	if err != nil {
		n.logger.Warn("reload signal not encoded", slog.Any("error", err))
		return
	}
	if err := n.client.Publish(ctx, n.channel, data).Err(); err != nil {
		n.logger.Warn("reload signal not published",
			slog.String("channel", n.channel),
			slog.String("scope", string(scope)),
			slog.Any("error", err))
		return
	}
	n.logger.Debug("reload signal published", slog.String("id", msg.ID), slog.String("scope", string(scope)))
}

// RedisListener receives reload signals published by a RedisNotifier.
type RedisListener struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

// NewRedisListener listens on the reload channel of group.
func NewRedisListener(client *redis.Client, group string, logger *slog.Logger) *RedisListener {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RedisListener{client: client, channel: Channel(group), logger: logger}
}

// Listen forwards every valid signal to next until ctx is done.
func (l *RedisListener) Listen(ctx context.Context, next Notifier) error {
	sub := l.client.Subscribe(ctx, l.channel)
	defer func() {
		if cerr := sub.Close(); cerr != nil {
			// Best-effort unsubscribe.
			_ = cerr
		}
	}()
	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("subscribe %s: %w", l.channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var m Message
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				l.logger.Warn("ignoring malformed reload signal", slog.Any("error", err))
				continue
			}
			scope, err := ParseScope(string(m.Scope))
			if err != nil {
				l.logger.Warn("ignoring reload signal", slog.Any("error", err))
				continue
			}
			next.NotifyDisplaysChanged(ctx, scope)
		}
	}
}

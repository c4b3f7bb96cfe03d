// Package notifications provides real-time notification delivery over Redis
// pub/sub and websockets.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"

	"jokerclub/internal/models"
	"jokerclub/internal/observability"

	"github.com/redis/go-redis/v9"
)

const broadcastChannel = "notifications:broadcast"

// UserChannel returns the Redis channel for one user's notifications.
func UserChannel(userID uint) string {
	return fmt.Sprintf("notifications:user:%d", userID)
}

// Notifier publishes notifications into Redis channels so every API instance
// can fan them out to its own websocket connections.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Publish marshals a persisted notification and publishes it to the
// recipient's channel. Delivery is best-effort; errors are logged, not
// returned, so a Redis hiccup cannot fail the triggering request.
func (n *Notifier) Publish(ctx context.Context, notif *models.Notification) {
	payload, err := json.Marshal(map[string]any{
		"type":    "notification",
		"payload": notif,
	})
	if err != nil {
		log.Printf("marshal notification: %v", err)
		return
	}
	if err := n.PublishUser(ctx, notif.UserID, string(payload)); err != nil {
		log.Printf("publish notification for user %d: %v", notif.UserID, err)
		return
	}
	observability.NotificationsPublished.WithLabelValues(string(notif.Type)).Inc()
}

// PublishUser sends a raw payload to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, payload string) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}

// PublishBroadcast sends a payload to all connected users.
func (n *Notifier) PublishBroadcast(ctx context.Context, payload string) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, broadcastChannel, payload).Err()
}

// StartPatternSubscriber subscribes to the per-user pattern and the broadcast
// channel, calling onMessage for each incoming message until ctx is done.
func (n *Notifier) StartPatternSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "notifications:user:*", broadcastChannel)
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in PatternSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

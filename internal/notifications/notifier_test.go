package notifications

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jokerclub/internal/models"
)

func TestNotifier_NilRedisIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	assert.NoError(t, n.PublishUser(context.Background(), 1, "payload"))
	assert.NoError(t, n.PublishBroadcast(context.Background(), "payload"))
	assert.NoError(t, n.StartPatternSubscriber(context.Background(), nil))
	n.Publish(context.Background(), &models.Notification{UserID: 1, ActorID: 2, Type: models.NotificationTypeLike})
}

func TestUserChannel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "notifications:user:1", UserChannel(1))
	assert.Equal(t, "notifications:user:100", UserChannel(100))
}

func TestNotifier_PublishRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type envelope struct {
		Type    string              `json:"type"`
		Payload models.Notification `json:"payload"`
	}

	received := make(chan envelope, 1)
	require.NoError(t, n.StartPatternSubscriber(ctx, func(channel, payload string) {
		var env envelope
		if json.Unmarshal([]byte(payload), &env) == nil && channel == UserChannel(7) {
			received <- env
		}
	}))

	n.Publish(ctx, &models.Notification{
		UserID:  7,
		ActorID: 2,
		Type:    models.NotificationTypeFollow,
	})

	select {
	case env := <-received:
		assert.Equal(t, "notification", env.Type)
		assert.Equal(t, uint(7), env.Payload.UserID)
		assert.Equal(t, models.NotificationTypeFollow, env.Payload.Type)
	case <-time.After(time.Second):
		t.Fatal("notification never arrived")
	}
}

func TestNotifier_SubscriberStopsOnCancel(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())

	var received int32
	require.NoError(t, n.StartPatternSubscriber(ctx, func(_, _ string) {
		atomic.AddInt32(&received, 1)
	}))

	require.NoError(t, n.PublishUser(context.Background(), 1, "before-cancel"))
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&received) >= 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, n.PublishUser(context.Background(), 1, "after-cancel"))
	assert.Never(t, func() bool {
		return atomic.LoadInt32(&received) >= 2
	}, 200*time.Millisecond, 10*time.Millisecond)
}

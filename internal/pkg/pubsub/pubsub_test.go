package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, cleanup
}

func TestPublishSubscribe(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	pub := NewPublisher(client)
	sub := NewSubscriber(client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *OrderEvent, 1)
	go func() {
		_ = sub.Subscribe(ctx, func(ev *OrderEvent) {
			received <- ev
		})
	}()

	// 等待订阅建立
	time.Sleep(100 * time.Millisecond)

	ev := &OrderEvent{
		Type:           "skip",
		SubscriptionID: 1,
		UserID:         10,
		UserName:       "Rahul",
		Meal:           "lunch",
		Date:           "2025-06-15",
		Message:        "Rahul skipped lunch for 2025-06-15",
	}
	require.NoError(t, pub.PublishOrderEvent(ctx, ev))

	select {
	case got := <-received:
		assert.Equal(t, "skip", got.Type)
		assert.Equal(t, int64(10), got.UserID)
		assert.Equal(t, "lunch", got.Meal)
	case <-time.After(2 * time.Second):
		t.Fatal("did not receive published event")
	}
}

func TestSubscribe_ContextCancel(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	sub := NewSubscriber(client)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- sub.Subscribe(ctx, func(*OrderEvent) {})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop on context cancel")
	}
}

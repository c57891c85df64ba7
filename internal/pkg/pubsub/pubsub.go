package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelOrderEvents = "order_events"
)

// OrderEvent 跳餐等订单事件，推送给在线管理员
type OrderEvent struct {
	Type           string `json:"type"`
	SubscriptionID int64  `json:"subscription_id"`
	UserID         int64  `json:"user_id"`
	UserName       string `json:"user_name"`
	Meal           string `json:"meal"`
	Date           string `json:"date"` // YYYY-MM-DD
	Message        string `json:"message"`
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishOrderEvent 发布订单事件
func (p *Publisher) PublishOrderEvent(ctx context.Context, ev *OrderEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	return p.client.Publish(ctx, ChannelOrderEvents, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅订单事件
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*OrderEvent)) error {
	pubsub := s.client.Subscribe(ctx, ChannelOrderEvents)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var ev OrderEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				continue // 忽略解析错误
			}

			handler(&ev)
		}
	}
}

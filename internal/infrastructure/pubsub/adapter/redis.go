package adapter

import (
	"context"
	"errors"
	"fmt"
	"os"

	redis "github.com/redis/go-redis/v9"

	"github.com/ayush1432220/Meet-mind-web-App/internal/infrastructure/pubsub/port"
)

// RedisPubSub implements both port.Publisher and port.Subscriber on Redis
// PUBLISH/SUBSCRIBE.
type RedisPubSub struct {
	client *redis.Client
}

// NewRedisPubSubFromEnv constructs the relay using the REDIS_URL env var.
func NewRedisPubSubFromEnv() (*RedisPubSub, error) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		return nil, errors.New("pubsub: REDIS_URL environment variable is not set")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("pubsub: parse url: %w", err)
	}
	return &RedisPubSub{client: redis.NewClient(opt)}, nil
}

var (
	_ port.Publisher  = (*RedisPubSub)(nil)
	_ port.Subscriber = (*RedisPubSub)(nil)
)

func (p *RedisPubSub) Publish(ctx context.Context, channel string, payload []byte) error {
	return p.client.Publish(ctx, channel, payload).Err()
}

// Subscribe blocks delivering messages to h until ctx is canceled.
func (p *RedisPubSub) Subscribe(ctx context.Context, channel string, h func(payload []byte)) error {
	sub := p.client.Subscribe(ctx, channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			h([]byte(msg.Payload))
		}
	}
}

func (p *RedisPubSub) Close() error {
	return p.client.Close()
}

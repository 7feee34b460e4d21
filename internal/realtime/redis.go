package realtime

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisChannelPrefix = "chat:"

// RedisBus fans events out across server instances via Redis Pub/Sub.
// Local subscribers attach to an in-process hub fed by a single shared
// pattern subscription, so one Redis connection serves every session.
type RedisBus struct {
	client *redis.Client
	hub    *hub
	once   sync.Once
}

func NewRedisBus(client *redis.Client) *RedisBus {
	return &RedisBus{client: client, hub: newHub()}
}

// Start launches the shared Redis listener. Safe to call more than once.
func (b *RedisBus) Start(ctx context.Context) {
	b.once.Do(func() {
		go b.runSubscriber(ctx)
	})
}

func (b *RedisBus) Publish(ctx context.Context, evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, redisChannelPrefix+evt.Topic, data).Err()
}

func (b *RedisBus) Subscribe(topic string) (<-chan Event, func()) {
	return b.hub.subscribe(topic)
}

func (b *RedisBus) runSubscriber(ctx context.Context) {
	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			pubsub := b.client.PSubscribe(ctx, redisChannelPrefix+"*")
			defer pubsub.Close()

			log.Printf("✅ Realtime Redis subscriber started (pattern: %s*)", redisChannelPrefix)

			for {
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					log.Printf("Redis subscriber error: %v", err)
					time.Sleep(backoff)
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
					return
				}

				backoff = time.Second

				var evt Event
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
					log.Printf("failed to unmarshal realtime event: %v", err)
					continue
				}

				b.hub.dispatch(evt)
			}
		}()
	}
}

// Package realtime publishes purchase events over Redis pub/sub. Frontends
// subscribe to their own user channel; dashboards subscribe to the
// broadcast channel.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const broadcastChannel = "broadcast"

type Publisher struct {
	client *redis.Client
}

func New(addr string) *Publisher {
	return &Publisher{client: redis.NewClient(&redis.Options{Addr: addr})}
}

type event struct {
	ID      string      `json:"id"`
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
	SentAt  time.Time   `json:"sent_at"`
}

func (p *Publisher) PublishToUser(ctx context.Context, userID uint, name string, payload interface{}) error {
	return p.publish(ctx, fmt.Sprintf("user:%d", userID), name, payload)
}

func (p *Publisher) Broadcast(ctx context.Context, name string, payload interface{}) error {
	return p.publish(ctx, broadcastChannel, name, payload)
}

func (p *Publisher) publish(ctx context.Context, channel, name string, payload interface{}) error {
	b, err := json.Marshal(event{
		ID:      uuid.NewString(),
		Event:   name,
		Payload: payload,
		SentAt:  time.Now(),
	})
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, channel, b).Err()
}

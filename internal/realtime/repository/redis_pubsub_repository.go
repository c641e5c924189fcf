package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"student_community_service/internal/realtime/domain"
	"student_community_service/pkg/logger"

	"github.com/go-redis/redis/v8"
)

// PubSub definition cross-instance event fanout
type PubSub interface {
	Publish(channel string, event domain.Event) error
	PSubscribe(ctx context.Context, pattern string, handler func(ev domain.Event)) error
}

// RedisPubSub definition redis pub/sub
type RedisPubSub struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisPubSub create RedisPubSub
func NewRedisPubSub(client *redis.Client) *RedisPubSub {
	return &RedisPubSub{
		client: client,
		ctx:    context.Background(),
	}
}

// Publish serialize the event and publish it on the channel
func (r *RedisPubSub) Publish(channel string, event domain.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return r.client.Publish(r.ctx, channel, data).Err()
}

// PSubscribe subscribe a channel pattern, calling handler per event until
// ctx is cancelled
func (r *RedisPubSub) PSubscribe(ctx context.Context, pattern string, handler func(ev domain.Event)) error {
	sub := r.client.PSubscribe(r.ctx, pattern)
	go func() {
		ch := sub.Channel()

		for {
			select {
			case m, ok := <-ch:
				if !ok {
					return
				}

				var ev domain.Event
				if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
					logger.Log.Errorf("pubsub unmarshal error:", err)
					continue
				}
				handler(ev)
			case <-ctx.Done():
				logger.Log.Info(fmt.Sprintf("%s , sub close", pattern))
				sub.Close()
				return
			}
		}
	}()
	return nil
}

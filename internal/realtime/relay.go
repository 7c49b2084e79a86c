package realtime

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const relayChannelPrefix = "notifications:user:"

// RedisRelay carries realtime messages between instances. Deliver publishes
// to the user's Redis channel and every instance forwards what it receives
// to its local hub. Redis drops messages nobody is subscribed to, which
// keeps delivery at-most-once.
type RedisRelay struct {
	rdb *redis.Client
	hub *Hub
	log zerolog.Logger
}

func NewRedisRelay(rdb *redis.Client, hub *Hub, log zerolog.Logger) *RedisRelay {
	return &RedisRelay{rdb: rdb, hub: hub, log: log}
}

func (r *RedisRelay) Deliver(ctx context.Context, userID string, payload []byte) error {
	return r.rdb.Publish(ctx, relayChannelPrefix+userID, payload).Err()
}

// Start subscribes to every user channel and forwards messages to the hub
// until ctx is done. It returns once the subscription is confirmed.
func (r *RedisRelay) Start(ctx context.Context) error {
	sub := r.rdb.PSubscribe(ctx, relayChannelPrefix+"*")
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s*: %w", relayChannelPrefix, err)
	}
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
				r.forward(ctx, msg)
			}
		}
	}()
	return nil
}

func (r *RedisRelay) forward(ctx context.Context, msg *redis.Message) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Interface("panic", rec).Bytes("stack", debug.Stack()).Msg("relay forward panicked")
		}
	}()

	userID, ok := strings.CutPrefix(msg.Channel, relayChannelPrefix)
	if !ok || userID == "" {
		r.log.Warn().Str("channel", msg.Channel).Msg("invalid relay channel")
		return
	}
	_ = r.hub.Deliver(ctx, userID, []byte(msg.Payload))
}

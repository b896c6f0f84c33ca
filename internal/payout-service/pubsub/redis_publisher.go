package pubsub

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const ChannelPayoutBroadcast = "payout_checked_broadcast"

type RedisBroadcaster struct {
	r       *redis.Client
	channel string
}

func NewRedisBroadcaster(r *redis.Client, channel string) *RedisBroadcaster {
	if channel == "" {
		channel = ChannelPayoutBroadcast
	}
	return &RedisBroadcaster{r: r, channel: channel}
}

func (b *RedisBroadcaster) Publish(ctx context.Context, payload []byte) error {
	return b.r.Publish(ctx, b.channel, payload).Err()
}

// Payload padrão para o WS do payout-service
type WSUpdate struct {
	UserID  string      `json:"userId"`
	Payload interface{} `json:"payload"`
}

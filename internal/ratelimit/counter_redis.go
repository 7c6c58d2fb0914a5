package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const consumerRateKeyPrefix = "rate:consumer:"

// RedisCounter implements Counter on a Redis sorted set per consumer, scored
// by request time. This is the recommended implementation when multiple
// instances share rate state.
type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

func (c *RedisCounter) Observe(ctx context.Context, consumerID string, at time.Time) (int64, error) {
	key := consumerRateKeyPrefix + consumerID
	cutoff := at.Add(-Window)

	// Trim, count, record, and refresh expiry in one round trip. The member
	// carries a UUID suffix so same-millisecond requests stay distinct.
	pipe := c.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", fmt.Sprintf("%d", cutoff.UnixMilli()))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(at.UnixMilli()),
		Member: fmt.Sprintf("%d-%s", at.UnixMilli(), uuid.NewString()),
	})
	pipe.Expire(ctx, key, Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("observe consumer rate: %w", err)
	}
	return countCmd.Val(), nil
}

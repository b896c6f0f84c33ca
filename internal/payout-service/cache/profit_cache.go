package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// ProfitCache guarda o resumo diário de lucro por usuário.
type ProfitCache struct {
	R   *redis.Client
	TTL time.Duration
}

func New(r *redis.Client, ttl time.Duration) *ProfitCache { return &ProfitCache{R: r, TTL: ttl} }

func keyUser(userID string) string { return "profit:daily:" + userID }

// Get lê o resumo do intervalo (field) dentro do hash do usuário.
func (c *ProfitCache) Get(ctx context.Context, userID, rangeKey string, dst any) (bool, error) {
	b, err := c.R.HGet(ctx, keyUser(userID), rangeKey).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (c *ProfitCache) Set(ctx context.Context, userID, rangeKey string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	pipe := c.R.TxPipeline()
	pipe.HSet(ctx, keyUser(userID), rangeKey, b)
	pipe.Expire(ctx, keyUser(userID), c.TTL)
	_, err = pipe.Exec(ctx)
	return err
}

// Invalidate descarta todos os intervalos em cache do usuário (nova aposta salva).
func (c *ProfitCache) Invalidate(ctx context.Context, userID string) error {
	return c.R.Del(ctx, keyUser(userID)).Err()
}

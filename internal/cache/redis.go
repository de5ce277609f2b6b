package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"triquery/internal/history"
)

const historyKeyPrefix = "history:"

type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache client.
func NewRedisCache(addr, password string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisCache{client: client}, nil
}

func (c *RedisCache) GetRecent(ctx context.Context, userID string) ([]history.Record, error) {
	data, err := c.client.Get(ctx, historyKeyPrefix+userID).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, err
	}

	var recs []history.Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (c *RedisCache) SetRecent(ctx context.Context, userID string, recs []history.Record, ttl time.Duration) error {
	data, err := json.Marshal(recs)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, historyKeyPrefix+userID, data, ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, historyKeyPrefix+userID).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/lifesim/config"
	"github.com/user/lifesim/internal/types"
)

const redisKeyPrefix = "lifesim:life:"

// RedisStore keeps snapshots as JSON strings in redis, optionally expiring them
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to the redis server named by the configuration
func NewRedisStore(cfg config.DatabaseConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.DSN,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisStoreFromClient(client, cfg.TTL()), nil
}

// NewRedisStoreFromClient wraps an existing client
func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Get loads a snapshot by id
func (s *RedisStore) Get(ctx context.Context, id string) (*types.Life, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get life: %w", err)
	}

	var life types.Life
	if err := json.Unmarshal(data, &life); err != nil {
		return nil, fmt.Errorf("failed to parse life: %w", err)
	}
	return &life, nil
}

// Put replaces a snapshot and refreshes its expiry
func (s *RedisStore) Put(ctx context.Context, life *types.Life) error {
	data, err := json.Marshal(life)
	if err != nil {
		return fmt.Errorf("failed to marshal life: %w", err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+life.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store life: %w", err)
	}
	return nil
}

// Delete removes a snapshot
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, redisKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete life: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}

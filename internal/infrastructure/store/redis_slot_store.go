package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// redisClient is the subset of *redis.Client the slot store needs
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// RedisSlotStore keeps slots as Redis string keys
type RedisSlotStore struct {
	client redisClient
	prefix string
	ttl    time.Duration
}

// NewRedisSlotStore stores slot "x" under key prefix+"x". A zero ttl keeps keys forever.
func NewRedisSlotStore(client redisClient, prefix string, ttl time.Duration) *RedisSlotStore {
	return &RedisSlotStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisSlotStore) Load(ctx context.Context, slot string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.prefix+slot).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load slot %s: %w", slot, err)
	}
	return data, true, nil
}

func (s *RedisSlotStore) Save(ctx context.Context, slot string, data []byte) error {
	if err := s.client.Set(ctx, s.prefix+slot, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save slot %s: %w", slot, err)
	}
	return nil
}

func (s *RedisSlotStore) Close() error {
	return s.client.Close()
}

// ConnectRedis opens a client and verifies it with PING
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/desertthunder/reel/internal/shared"
	"github.com/redis/go-redis/v9"
)

// RedisPreferenceStore keeps preferences as plain string keys under a prefix.
type RedisPreferenceStore struct {
	redis  *redis.Client
	prefix string
}

// NewRedisPreferenceStore wraps an existing client.
func NewRedisPreferenceStore(client *redis.Client, prefix string) *RedisPreferenceStore {
	if client == nil {
		panic("redis client cannot be nil")
	}
	return &RedisPreferenceStore{redis: client, prefix: prefix}
}

// DialRedisPreferenceStore connects using cfg and verifies the connection with PING.
func DialRedisPreferenceStore(ctx context.Context, cfg shared.RedisConfig) (*RedisPreferenceStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: redis ping %s: %v", shared.ErrServiceUnavailable, cfg.Addr, err)
	}
	return NewRedisPreferenceStore(client, cfg.KeyPrefix), nil
}

func (s *RedisPreferenceStore) key(k string) string { return s.prefix + k }

// Get returns the value stored under key. The boolean is false when the key is absent.
func (s *RedisPreferenceStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.redis.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

// Set stores value under key without expiry.
func (s *RedisPreferenceStore) Set(ctx context.Context, key, value string) error {
	if err := s.redis.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes key.
func (s *RedisPreferenceStore) Delete(ctx context.Context, key string) error {
	if err := s.redis.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Keys lists stored keys without the prefix, sorted.
func (s *RedisPreferenceStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.redis.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *RedisPreferenceStore) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

// Close closes the client.
func (s *RedisPreferenceStore) Close() error {
	return s.redis.Close()
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisOpTimeout = 2 * time.Second

type RedisStore struct {
	client *redis.Client
}

// NewRedisStore accepts a redis:// URL.
func NewRedisStore(rawURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisStore{client: redis.NewClient(opts)}, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, redisOpTimeout, func(ctx context.Context) error {
		return s.client.Ping(ctx).Err()
	})
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}

	var (
		b   []byte
		err error
	)
	err = withTimeout(ctx, redisOpTimeout, func(ctx context.Context) error {
		b, err = s.client.Get(ctx, key).Bytes()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	return withTimeout(ctx, redisOpTimeout, func(ctx context.Context) error {
		return s.client.Set(ctx, key, value, 0).Err()
	})
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}

package store

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "storefront:session:"

// RedisStore keeps sessions as plain string keys that expire after TTL.
// Every save refreshes the expiry.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisStore(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	c := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, errors.Wrap(err, "ping redis")
	}
	return &RedisStore{Client: c, TTL: ttl}, nil
}

func redisKey(sessionID string) string { return redisKeyPrefix + sessionID }

func (s *RedisStore) CheckoutID(ctx context.Context, sessionID string) (string, error) {
	id, err := s.Client.Get(ctx, redisKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", errors.Wrap(err, "redis get")
	}
	return id, nil
}

func (s *RedisStore) SaveCheckoutID(ctx context.Context, sessionID, checkoutID string) error {
	if err := s.Client.Set(ctx, redisKey(sessionID), checkoutID, s.TTL).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

func (s *RedisStore) ClearCheckout(ctx context.Context, sessionID string) error {
	n, err := s.Client.Del(ctx, redisKey(sessionID)).Result()
	if err != nil {
		return errors.Wrap(err, "redis del")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) Close() error { return s.Client.Close() }

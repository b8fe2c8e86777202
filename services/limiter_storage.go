package services

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisLimiterKeyPrefix = "mooc:ratelimit:"

// RedisLimiterStorage backs fiber's limiter with redis so every replica
// counts against the same window.
type RedisLimiterStorage struct {
	client redis.UniversalClient
}

func NewRedisLimiterStorage(client redis.UniversalClient) *RedisLimiterStorage {
	return &RedisLimiterStorage{client: client}
}

func (s *RedisLimiterStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	val, err := s.client.Get(context.Background(), redisLimiterKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (s *RedisLimiterStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	return s.client.Set(context.Background(), redisLimiterKeyPrefix+key, val, exp).Err()
}

func (s *RedisLimiterStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	return s.client.Del(context.Background(), redisLimiterKeyPrefix+key).Err()
}

// Reset removes every limiter key, leaving session keys alone.
func (s *RedisLimiterStorage) Reset() error {
	ctx := context.Background()
	iter := s.client.Scan(ctx, 0, redisLimiterKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close is a no-op; the client belongs to RedisService.
func (s *RedisLimiterStorage) Close() error {
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/mooc_api/model"
	"github.com/lac-hong-legacy/mooc_api/shared"
	"github.com/redis/go-redis/v9"
)

type RedisService struct {
	appContext.DefaultService
	redis *redis.Client

	sessionTTL time.Duration
}

const REDIS_SVC = "redis_svc"

func (svc RedisService) Id() string {
	return REDIS_SVC
}

func (svc *RedisService) Configure(ctx *appContext.Context) error {
	svc.initRedisClient()

	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return fmt.Errorf("invalid SESSION_TTL: %w", err)
		}
		svc.sessionTTL = d
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *RedisService) Start() error {
	if svc.redis != nil {
		ctx := context.Background()
		_, err := svc.redis.Ping(ctx).Result()
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
	}
	return nil
}

func (svc *RedisService) Shutdown() {
	if svc.redis != nil {
		_ = svc.redis.Close()
	}
}

func (svc *RedisService) initRedisClient() {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	redisPassword := os.Getenv("REDIS_PASSWORD")

	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			redisDB = db
		}
	}

	svc.redis = redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})
}

func (svc *RedisService) GetClient() *redis.Client {
	return svc.redis
}

func (svc *RedisService) SessionTTL() time.Duration {
	return svc.sessionTTL
}

const (
	redisSessionKeyPrefix = "mooc:session:"
	redisMaxTxRetries     = 10
)

// RedisSessionStore persists sessions as JSON documents. Updates use
// WATCH/MULTI so a concurrent writer on the same key forces a retry instead
// of a lost update.
type RedisSessionStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisSessionStore(svc *RedisService) *RedisSessionStore {
	return NewRedisSessionStoreWithClient(svc.GetClient(), svc.SessionTTL())
}

func NewRedisSessionStoreWithClient(client redis.UniversalClient, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) key(sessionID string) string {
	return redisSessionKeyPrefix + sessionID
}

func (s *RedisSessionStore) Create(ctx context.Context, session *model.Session) error {
	data, err := shared.JSONMarshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ok, err := s.client.SetNX(ctx, s.key(session.ID), data, s.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("session %s already exists", session.ID)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeSession(data)
}

func (s *RedisSessionStore) Update(ctx context.Context, sessionID string, fn func(*model.Session) error) (*model.Session, error) {
	key := s.key(sessionID)

	var updated *model.Session
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return model.ErrSessionNotFound
		}
		if err != nil {
			return err
		}

		session, err := decodeSession(data)
		if err != nil {
			return err
		}
		if err := fn(session); err != nil {
			return err
		}

		encoded, err := shared.JSONMarshal(session)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if s.ttl > 0 {
				pipe.Set(ctx, key, encoded, s.ttl)
			} else {
				pipe.Set(ctx, key, encoded, redis.KeepTTL)
			}
			return nil
		})
		if err == nil {
			updated = session
		}
		return err
	}

	for attempt := 0; attempt < redisMaxTxRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("session %s: too much write contention", sessionID)
}

func decodeSession(data []byte) (*model.Session, error) {
	var session model.Session
	if err := shared.JSONUnmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

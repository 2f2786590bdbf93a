package storage

import (
	"context"
	"errors"
	"time"

	redislib "github.com/redis/go-redis/v9"

	redisclient "github.com/kiranakart/kiranakart-backend/pkg/redis"
)

type redisKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	StorefrontKey(clientSessionID, name string) string
}

// RedisStore persists storefront blobs in redis, namespaced per browser
// session so two tabs never share in-memory state but do share the durable
// copy when they present the same client session id.
type RedisStore struct {
	kv              redisKV
	clientSessionID string
	ttl             time.Duration
}

// NewRedisStore scopes a storage handle to one client session.
func NewRedisStore(client *redisclient.Client, clientSessionID string, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if clientSessionID == "" {
		return nil, errors.New("client session id is required")
	}
	return &RedisStore{kv: client, clientSessionID: clientSessionID, ttl: ttl}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.kv.Get(ctx, s.kv.StorefrontKey(s.clientSessionID, key))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (s *RedisStore) Put(ctx context.Context, key, value string) error {
	return s.kv.Set(ctx, s.kv.StorefrontKey(s.clientSessionID, key), value, s.ttl)
}

func (s *RedisStore) Del(ctx context.Context, key string) error {
	return s.kv.Del(ctx, s.kv.StorefrontKey(s.clientSessionID, key))
}

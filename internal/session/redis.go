package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps session blobs in Redis under "session:<id>", expiry
// handled by the key TTL.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Load(ctx context.Context, id string) (string, error) {
	val, err := s.rdb.Get(ctx, "session:"+id).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (s *RedisStore) Save(ctx context.Context, id, blob string, ttl time.Duration) error {
	return s.rdb.Set(ctx, "session:"+id, blob, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, "session:"+id).Err()
}

// NewRedisClient creates and pings a Redis client with optional password auth.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSlot stores values as plain Redis strings under a key prefix.
type RedisSlot struct {
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewRedisSlot returns a RedisSlot.  A zero ttl keeps values forever.
func NewRedisSlot(rdb redis.Cmdable, prefix string, ttl time.Duration) *RedisSlot {
	return &RedisSlot{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (r *RedisSlot) key(k string) string { return r.prefix + k }

func (r *RedisSlot) Get(ctx context.Context, key string) (string, error) {
	v, err := r.rdb.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSlotEmpty
	}
	return v, err
}

func (r *RedisSlot) Set(ctx context.Context, key, value string) error {
	return r.rdb.Set(ctx, r.key(key), value, r.ttl).Err()
}

func (r *RedisSlot) Remove(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, r.key(key)).Err()
}

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the bundle under a single key so several operator
// machines (or a jump host and a laptop) can share one signed-in session.
type RedisStore struct {
	rdb redis.UniversalClient
	key string
	ttl time.Duration
}

// NewRedisStore stores profile's bundle under "<prefix>:session:<profile>".
// A zero ttl keeps the key until Clear.
func NewRedisStore(rdb redis.UniversalClient, prefix, profile string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "bet-console"
	}
	if profile == "" {
		profile = "default"
	}
	return &RedisStore{
		rdb: rdb,
		key: prefix + ":session:" + profile,
		ttl: ttl,
	}
}

// NewRedisClient builds a client from a redis:// URL.
func NewRedisClient(rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

// Key returns the redis key holding the bundle.
func (r *RedisStore) Key() string { return r.key }

func (r *RedisStore) Load(ctx context.Context) (Bundle, error) {
	data, err := r.rdb.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Bundle{}, nil
	}
	if err != nil {
		return Bundle{}, fmt.Errorf("redis get %s: %w", r.key, err)
	}

	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return Bundle{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, r.key, err)
	}
	return b, nil
}

func (r *RedisStore) Save(ctx context.Context, b Bundle) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", r.key, err)
	}
	return nil
}

// Ping checks the server is reachable.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

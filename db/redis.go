package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisKV is a KV backed by a Redis server. Keys are stored as plain string
// values; a sorted set indexes them by write time so Keys can return the
// most recently written first.
type RedisKV struct {
	client *redis.Client
	index  string
	ctx    context.Context
}

var _ KV = (*RedisKV)(nil)

// ConnectRedis establishes a connection to Redis and verifies it with PING.
func ConnectRedis(addr string, database int) (*RedisKV, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   database,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	return &RedisKV{
		client: client,
		index:  "reactvid:keys",
		ctx:    ctx,
	}, nil
}

func (r *RedisKV) Get(key string) (string, bool, error) {
	v, err := r.client.Get(r.ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &StoreError{Op: "get", Key: key, Err: err}
	}
	return v, true, nil
}

func (r *RedisKV) Set(key, value string) error {
	pipe := r.client.TxPipeline()
	pipe.Set(r.ctx, key, value, 0)
	pipe.ZAdd(r.ctx, r.index, redis.Z{Score: float64(time.Now().UnixNano()), Member: key})
	if _, err := pipe.Exec(r.ctx); err != nil {
		return &StoreError{Op: "set", Key: key, Err: err}
	}
	return nil
}

func (r *RedisKV) Delete(key string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(r.ctx, key)
	pipe.ZRem(r.ctx, r.index, key)
	if _, err := pipe.Exec(r.ctx); err != nil {
		return &StoreError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

func (r *RedisKV) Keys(prefix string) ([]string, error) {
	all, err := r.client.ZRevRange(r.ctx, r.index, 0, -1).Result()
	if err != nil {
		return nil, &StoreError{Op: "keys", Key: prefix, Err: err}
	}
	var keys []string
	for _, k := range all {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (r *RedisKV) Close() error {
	return r.client.Close()
}

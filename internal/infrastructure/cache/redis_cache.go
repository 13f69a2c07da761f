package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisStoreCache caché por loja en Redis.
//
// Cada loja tiene una clave de versión (pos:store:{id}:v). Las entradas se
// guardan bajo pos:store:{id}:{version}:{key}; Invalidate incrementa la versión
// y las entradas viejas quedan huérfanas hasta que vence su TTL.
type RedisStoreCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStoreCache(addr string, password string, db int, ttl time.Duration) *RedisStoreCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisStoreCache{client: client, ttl: ttl}
}

func (c *RedisStoreCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisStoreCache) Close() error {
	return c.client.Close()
}

func versionKey(storeID string) string {
	return "pos:store:" + storeID + ":v"
}

func (c *RedisStoreCache) dataKey(ctx context.Context, storeID, key string) (string, error) {
	v, err := c.client.Get(ctx, versionKey(storeID)).Int64()
	if errors.Is(err, redis.Nil) {
		v = 0
	} else if err != nil {
		return "", err
	}
	return fmt.Sprintf("pos:store:%s:%d:%s", storeID, v, key), nil
}

func (c *RedisStoreCache) Get(ctx context.Context, storeID, key string, dst any) (bool, error) {
	k, err := c.dataKey(ctx, storeID, key)
	if err != nil {
		return false, err
	}
	val, err := c.client.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisStoreCache) Set(ctx context.Context, storeID, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	k, err := c.dataKey(ctx, storeID, key)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, k, payload, c.ttl).Err()
}

func (c *RedisStoreCache) Invalidate(ctx context.Context, storeID string) error {
	return c.client.Incr(ctx, versionKey(storeID)).Err()
}

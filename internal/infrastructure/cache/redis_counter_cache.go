package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rafabene/avantpro-social/internal/domain/ports"
)

const keyPrefix = "social:"

// RedisCounterCache implementa ports.CounterCache
type RedisCounterCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.CounterCache = (*RedisCounterCache)(nil)

// NewRedisCounterCache conecta usando uma URL redis:// e valida com PING
func NewRedisCounterCache(ctx context.Context, url string, ttl time.Duration) (*RedisCounterCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCounterCache{client: client, ttl: ttl}, nil
}

// setIfVersion grava KEYS[1] somente se a versão em KEYS[2] (ausente = 0) for ARGV[2]
var setIfVersion = redis.NewScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[2] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

func valueKey(key string) string   { return keyPrefix + key }
func versionKey(key string) string { return keyPrefix + "v:" + key }

// Get retorna o valor (ok=false no miss) e a versão atual da chave
func (c *RedisCounterCache) Get(ctx context.Context, key string) (int64, int64, bool, error) {
	vals, err := c.client.MGet(ctx, valueKey(key), versionKey(key)).Result()
	if err != nil {
		return 0, 0, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	version, err := parseCounter(vals[1])
	if err != nil {
		return 0, 0, false, fmt.Errorf("parse version %s: %w", key, err)
	}
	if vals[0] == nil {
		return 0, version, false, nil
	}

	n, err := parseCounter(vals[0])
	if err != nil {
		return 0, 0, false, fmt.Errorf("parse counter %s: %w", key, err)
	}
	return n, version, true, nil
}

func parseCounter(v any) (int64, error) {
	if v == nil {
		return 0, nil
	}
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected type %T", v)
	}
	return strconv.ParseInt(s, 10, 64)
}

// Set grava o valor se nenhuma invalidação aconteceu desde o Get que leu version
func (c *RedisCounterCache) Set(ctx context.Context, key string, value, version int64) error {
	err := setIfVersion.Run(ctx, c.client,
		[]string{valueKey(key), versionKey(key)},
		value, version, c.ttl.Milliseconds(),
	).Err()
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Invalidate remove os valores e avança as versões numa única transação
func (c *RedisCounterCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, k := range keys {
			pipe.Del(ctx, valueKey(k))
			pipe.Incr(ctx, versionKey(k))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate: %w", err)
	}
	return nil
}

// Close encerra o pool de conexões
func (c *RedisCounterCache) Close() error {
	return c.client.Close()
}

package book

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	detailKeyPrefix     = "book:detail:"
	generationKeyPrefix = "book:detail:gen:"
)

// setIfGeneration writes the detail only while the generation key still holds
// the value read before the store was queried. A missing key is generation 0.
var setIfGeneration = redis.NewScript(`
local current = redis.call('GET', KEYS[1]) or '0'
if current ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

// RedisDetailCache keeps rendered book details in Redis for ttl.
type RedisDetailCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDetailCache(client *redis.Client, ttl time.Duration) *RedisDetailCache {
	return &RedisDetailCache{client: client, ttl: ttl}
}

func detailKey(id string) string {
	return detailKeyPrefix + id
}

func generationKey(id string) string {
	return generationKeyPrefix + id
}

func (c *RedisDetailCache) Get(ctx context.Context, id string) (Detail, bool, error) {
	raw, err := c.client.Get(ctx, detailKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Detail{}, false, nil
	}
	if err != nil {
		return Detail{}, false, err
	}

	var d Detail
	if err := json.Unmarshal(raw, &d); err != nil {
		return Detail{}, false, err
	}
	return d, true, nil
}

func (c *RedisDetailCache) Generation(ctx context.Context, id string) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisDetailCache) Set(ctx context.Context, d Detail, gen int64) (bool, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return false, err
	}
	keys := []string{generationKey(d.ID), detailKey(d.ID)}
	stored, err := setIfGeneration.Run(ctx, c.client, keys, strconv.FormatInt(gen, 10), raw, c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return stored == 1, nil
}

// Invalidate bumps the book's generation and drops its cached detail. Review writes call it.
func (c *RedisDetailCache) Invalidate(ctx context.Context, id string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(id))
		pipe.Del(ctx, detailKey(id))
		return nil
	})
	return err
}

package cache

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const generationKey = "reports:generation"

// Redis shares rendered reports between API replicas. Every key embeds the
// current generation number, so Invalidate is a single INCR and stale
// entries simply age out through their TTL.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
	log *slog.Logger
}

func NewRedis(rdb *redis.Client, ttl time.Duration, log *slog.Logger) *Redis {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Redis{rdb: rdb, ttl: ttl, log: log}
}

// Generation reads the shared generation counter. Values built after this
// call are written under it, so an Invalidate that lands in between leaves
// them unreachable.
func (c *Redis) Generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *Redis) Get(ctx context.Context, key string, gen int64) ([]byte, bool) {
	b, err := c.rdb.Get(ctx, versioned(key, gen)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WarnContext(ctx, "report cache get failed", "key", key, "err", err)
		}
		return nil, false
	}
	return b, true
}

func (c *Redis) Set(ctx context.Context, key string, gen int64, val []byte) {
	if err := c.rdb.Set(ctx, versioned(key, gen), val, c.ttl).Err(); err != nil {
		c.log.WarnContext(ctx, "report cache set failed", "key", key, "err", err)
	}
}

func (c *Redis) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, generationKey).Err()
}

func versioned(key string, gen int64) string {
	return key + ":gen=" + strconv.FormatInt(gen, 10)
}

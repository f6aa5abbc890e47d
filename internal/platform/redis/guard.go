package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/hearthplan/hearthplan-backend/internal/pkg/logger"
)

// CreationGuard is a short-lived cross-instance lock around idempotent create
// paths. Acquire wins at most once per key within the TTL; losers are expected
// to re-read instead of creating.
type CreationGuard interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
	Close() error
}

type creationGuard struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
}

func NewCreationGuard(log *logger.Logger) (CreationGuard, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	prefix := strings.TrimSpace(os.Getenv("REDIS_GUARD_PREFIX"))
	if prefix == "" {
		prefix = "guard"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &creationGuard{
		log:    log.With("service", "RedisCreationGuard"),
		rdb:    rdb,
		prefix: prefix,
	}, nil
}

func (g *creationGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if g == nil || g.rdb == nil {
		return false, fmt.Errorf("creation guard not initialized")
	}
	ok, err := g.rdb.SetNX(ctx, g.prefix+":"+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

func (g *creationGuard) Release(ctx context.Context, key string) error {
	if g == nil || g.rdb == nil {
		return fmt.Errorf("creation guard not initialized")
	}
	return g.rdb.Del(ctx, g.prefix+":"+key).Err()
}

func (g *creationGuard) Close() error {
	if g == nil || g.rdb == nil {
		return nil
	}
	return g.rdb.Close()
}

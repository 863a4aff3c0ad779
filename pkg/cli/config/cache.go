package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/qrisq/qrisq/pkg/repository/cache"
	"github.com/qrisq/qrisq/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Cache holds CLI flags for the Redis result cache
type Cache struct {
	addr     string
	Password string `masq:"secret"`
	db       int
	ttl      time.Duration
}

// Flags returns CLI flags for cache configuration
func (c *Cache) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "redis-addr",
			Usage:       "Redis address for the result cache (disabled when empty)",
			Category:    "Cache",
			Sources:     cli.EnvVars("QRISQ_REDIS_ADDR"),
			Destination: &c.addr,
		},
		&cli.StringFlag{
			Name:        "redis-password",
			Usage:       "Redis password",
			Category:    "Cache",
			Sources:     cli.EnvVars("QRISQ_REDIS_PASSWORD"),
			Destination: &c.Password,
		},
		&cli.IntFlag{
			Name:        "redis-db",
			Usage:       "Redis database number",
			Category:    "Cache",
			Sources:     cli.EnvVars("QRISQ_REDIS_DB"),
			Destination: &c.db,
		},
		&cli.DurationFlag{
			Name:        "cache-ttl",
			Usage:       "Lifetime of cached analysis results",
			Value:       cache.DefaultTTL,
			Category:    "Cache",
			Sources:     cli.EnvVars("QRISQ_CACHE_TTL"),
			Destination: &c.ttl,
		},
	}
}

// LogValue implements slog.LogValuer
func (c Cache) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", c.addr),
		slog.Int("db", c.db),
		slog.Duration("ttl", c.ttl),
	)
}

// Configure connects to Redis. Returns nil when no address is configured.
func (c *Cache) Configure(ctx context.Context) (*cache.Redis, error) {
	if c.addr == "" {
		return nil, nil
	}
	if c.ttl <= 0 {
		return nil, goerr.Wrap(ErrInvalidConfig, "cache-ttl must be positive", goerr.V(ValueKey, c.ttl))
	}

	redis, err := cache.Connect(ctx, c.addr, c.Password, c.db, cache.WithTTL(c.ttl))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure result cache")
	}

	logging.Default().Info("Result cache enabled", "addr", c.addr, "ttl", c.ttl)
	return redis, nil
}

package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/qrisq/qrisq/pkg/domain/interfaces"
	"github.com/qrisq/qrisq/pkg/domain/model"
	"github.com/qrisq/qrisq/pkg/domain/types"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL is how long a cached response stays valid
	DefaultTTL = 24 * time.Hour

	defaultPrefix = "qrisq:analysis:"
)

// Redis caches analysis responses keyed by provider and description
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

var _ interfaces.ResultCache = &Redis{}

// Option is a functional option for Redis
type Option func(*Redis)

// WithTTL sets the entry lifetime. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(r *Redis) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithPrefix sets the key prefix
func WithPrefix(prefix string) Option {
	return func(r *Redis) {
		r.prefix = prefix
	}
}

// NewRedis wraps an existing client
func NewRedis(client *redis.Client, opts ...Option) *Redis {
	r := &Redis{
		client: client,
		ttl:    DefaultTTL,
		prefix: defaultPrefix,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Connect creates a client for addr and checks it is reachable
func Connect(ctx context.Context, addr, password string, db int, opts ...Option) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, goerr.Wrap(err, "failed to connect to redis", goerr.V("addr", addr))
	}

	return NewRedis(client, opts...), nil
}

// Key derives the cache key of a request. The description is hashed so keys stay short.
func Key(provider types.ModelProvider, description string) string {
	h := sha256.New()
	h.Write([]byte(provider))
	h.Write([]byte{0})
	h.Write([]byte(description))
	return hex.EncodeToString(h.Sum(nil))
}

func (r *Redis) Get(ctx context.Context, provider types.ModelProvider, description string) (*model.AnalyzeResponse, error) {
	key := Key(provider, description)
	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get cached response", goerr.V("key", key))
	}

	var resp model.AnalyzeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to decode cached response", goerr.V("key", key))
	}
	return &resp, nil
}

func (r *Redis) Put(ctx context.Context, provider types.ModelProvider, description string, resp *model.AnalyzeResponse) error {
	key := Key(provider, description)
	raw, err := json.Marshal(resp)
	if err != nil {
		return goerr.Wrap(err, "failed to encode response", goerr.V("key", key))
	}

	if err := r.client.Set(ctx, r.prefix+key, raw, r.ttl).Err(); err != nil {
		return goerr.Wrap(err, "failed to cache response", goerr.V("key", key))
	}
	return nil
}

// Close releases the underlying connection pool
func (r *Redis) Close() error {
	return r.client.Close()
}

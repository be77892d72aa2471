// Package cache stores merged search results between pages of the same
// query. Values are opaque bytes; callers own the encoding.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/reddy-lalith/PlayDex/internal/config"
)

// ErrCacheMiss is returned by Get for absent or expired keys.
var ErrCacheMiss = errors.New("cache miss")

// Client is a TTL key/value store.
type Client interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// DeleteByPrefix removes every key starting with prefix and returns how
	// many were removed.
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)
	Ping(ctx context.Context) error
	Close() error
}

// keyPrefix namespaces keys in a shared Redis.
const keyPrefix = "playdex:"

// New builds the client selected by cfg.Driver.
func New(cfg config.CacheConfig) (Client, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "memory":
		return NewMemoryClient(cfg.MaxEntries), nil
	case "redis":
		return NewRedisClient(cfg.Redis)
	case "none":
		return NopClient{}, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

// NopClient stores nothing; every Get misses.
type NopClient struct{}

func (NopClient) Get(context.Context, string) ([]byte, error)              { return nil, ErrCacheMiss }
func (NopClient) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NopClient) Delete(context.Context, string) error                     { return nil }
func (NopClient) DeleteByPrefix(context.Context, string) (int, error)      { return 0, nil }
func (NopClient) Ping(context.Context) error                               { return nil }
func (NopClient) Close() error                                             { return nil }

// Key joins key components with ':'.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

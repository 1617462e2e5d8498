package querycache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"smm-storefront/internal/metrics"
)

// Cached resources. Keys are scoped by (resource, token).
const (
	ResourceCatalog      = "catalog"
	ResourceUserDetail   = "user.detail"
	ResourceLoginHistory = "user.history"
	ResourceOrders       = "orders.list"
	ResourceDeposits     = "deposits.list"
)

var (
	DefaultFreshness = 5 * time.Minute
	DefaultRetention = 10 * time.Minute
)

// Entry is what a Store keeps for one key.
type Entry struct {
	Data      json.RawMessage `json:"data"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Store returns (nil, nil) on a miss.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key string, e Entry, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Cache struct {
	store     Store
	freshness time.Duration
	retention time.Duration
	now       func() time.Time
	logger    *slog.Logger
	lookups   metric.Int64Counter
}

func New(store Store, freshness, retention time.Duration, logger *slog.Logger) *Cache {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	if retention < freshness {
		retention = freshness
	}

	lookups, err := otel.Meter("smm-storefront/querycache").Int64Counter("querycache.lookups")
	if err != nil {
		logger.Warn("Failed to create cache lookup counter", "error", err)
	}

	return &Cache{
		store:     store,
		freshness: freshness,
		retention: retention,
		now:       time.Now,
		logger:    logger,
		lookups:   lookups,
	}
}

// Key builds the store key for a resource owned by token. The token is hashed
// so raw credentials never reach the store.
func Key(resource, token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("qc:%s:%s", resource, hex.EncodeToString(sum[:8]))
}

// Fetch returns the cached value when fresh, otherwise calls fetch. A failed
// fetch falls back to an entry still inside the retention window.
func Fetch[T any](ctx context.Context, c *Cache, resource, token string, fetch func(context.Context) (T, error)) (T, error) {
	key := Key(resource, token)

	entry, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("Cache read failed", "resource", resource, "error", err)
		entry = nil
	}

	var age time.Duration
	if entry != nil {
		age = c.now().Sub(entry.FetchedAt)
		if age < c.freshness {
			var v T
			if err := json.Unmarshal(entry.Data, &v); err == nil {
				c.record(ctx, resource, "fresh")
				return v, nil
			}
			entry = nil
		}
	}

	v, fetchErr := fetch(ctx)
	if fetchErr != nil {
		if entry != nil && age < c.retention {
			var stale T
			if err := json.Unmarshal(entry.Data, &stale); err == nil {
				c.record(ctx, resource, "stale")
				c.logger.Warn("Serving stale cache entry", "resource", resource, "age", age, "error", fetchErr)
				return stale, nil
			}
		}
		c.record(ctx, resource, "miss")
		return v, fetchErr
	}
	c.record(ctx, resource, "miss")

	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Cache encode failed", "resource", resource, "error", err)
		return v, nil
	}
	if err := c.store.Set(ctx, key, Entry{Data: data, FetchedAt: c.now()}, c.retention); err != nil {
		c.logger.Warn("Cache write failed", "resource", resource, "error", err)
	}
	return v, nil
}

// Invalidate drops the given resources for token.
func (c *Cache) Invalidate(ctx context.Context, token string, resources ...string) error {
	if len(resources) == 0 {
		return nil
	}
	keys := make([]string, 0, len(resources))
	for _, r := range resources {
		keys = append(keys, Key(r, token))
	}
	if err := c.store.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("store.Delete: %w", err)
	}
	return nil
}

// InvalidateAll drops every known resource for token (logout).
func (c *Cache) InvalidateAll(ctx context.Context, token string) error {
	return c.Invalidate(ctx, token,
		ResourceCatalog,
		ResourceUserDetail,
		ResourceLoginHistory,
		ResourceOrders,
		ResourceDeposits,
	)
}

func (c *Cache) record(ctx context.Context, resource, result string) {
	metrics.CacheLookups.WithLabelValues(resource, result).Inc()
	if c.lookups != nil {
		c.lookups.Add(ctx, 1, metric.WithAttributes(
			attribute.String("resource", resource),
			attribute.String("result", result),
		))
	}
}

package itinerary

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/tripplanner/backend/internal/domain"
)

// Cache status values reported by Status.
const (
	CacheHealthy      = "healthy"
	CacheUnhealthy    = "unhealthy"
	CacheDisconnected = "disconnected"
)

// Cache stores generated itineraries. Implementations must never fail a
// generation: read errors are misses and write errors are dropped.
type Cache interface {
	Get(ctx context.Context, key string) (domain.Itinerary, bool)
	Set(ctx context.Context, key string, it domain.Itinerary)
	Status(ctx context.Context) string
}

// CacheKey returns a deterministic key for req. Similar requests share a key:
// the destination is case and whitespace insensitive, the budget is rounded
// to the nearest 10,000 and only enabled preferences count.
func CacheKey(req domain.TripRequest) string {
	prefs := req.Preferences.Enabled()
	if prefs == nil {
		prefs = []string{}
	}
	normalized := struct {
		BudgetRange float64  `json:"budget_range"`
		Days        int      `json:"days"`
		Dest        string   `json:"dest"`
		Prefs       []string `json:"prefs"`
	}{
		BudgetRange: math.Round(req.Budget/10000) * 10000,
		Days:        req.Days(),
		Dest:        strings.ToLower(strings.TrimSpace(req.Destination)),
		Prefs:       prefs,
	}
	raw, _ := json.Marshal(normalized)
	sum := md5.Sum(raw)
	return "itinerary:" + hex.EncodeToString(sum[:])[:12]
}

// RedisCache is a Cache backed by Redis.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *slog.Logger
}

var _ Cache = (*RedisCache)(nil)

// NewRedisCache constructs a RedisCache. A nil client yields a cache that
// always misses and reports itself as disconnected.
func NewRedisCache(rdb *redis.Client, ttl time.Duration, log *slog.Logger) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl, log: log}
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, key string) (domain.Itinerary, bool) {
	if c.rdb == nil {
		return domain.Itinerary{}, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WarnContext(ctx, "itinerary cache read failed", "key", key, "error", err)
		}
		return domain.Itinerary{}, false
	}

	var it domain.Itinerary
	if err := json.Unmarshal(raw, &it); err != nil {
		c.log.WarnContext(ctx, "itinerary cache entry corrupt", "key", key, "error", err)
		return domain.Itinerary{}, false
	}
	return it, true
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, key string, it domain.Itinerary) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(it)
	if err != nil {
		c.log.WarnContext(ctx, "itinerary cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.WarnContext(ctx, "itinerary cache write failed", "key", key, "error", err)
	}
}

// Status implements Cache.
func (c *RedisCache) Status(ctx context.Context) string {
	if c.rdb == nil {
		return CacheDisconnected
	}
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return CacheUnhealthy
	}
	return CacheHealthy
}

// rebase moves the daily plan dates of a cached itinerary onto start.
func rebase(it domain.Itinerary, start time.Time) domain.Itinerary {
	plans := make([]domain.DayPlan, len(it.DailyPlans))
	copy(plans, it.DailyPlans)
	for i := range plans {
		day := plans[i].Day
		if day < 1 {
			day = i + 1
		}
		plans[i].Date = start.AddDate(0, 0, day-1).Format(domain.DateLayout)
	}
	it.DailyPlans = plans
	return it
}

// NewRedisClient parses a redis:// URL and returns a client. It does not
// dial; the first command establishes the connection.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("itinerary.NewRedisClient: %w", err)
	}
	return redis.NewClient(opts), nil
}

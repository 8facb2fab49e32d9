package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/tripplanner/backend/internal/domain"
)

// GuardConfig tunes the protections a Guard puts around a provider.
type GuardConfig struct {
	CallTimeout      time.Duration
	ConcurrencyLimit int64
	AcquireTimeout   time.Duration
	BreakerFailures  uint32
	BreakerCooldown  time.Duration
}

// Guard wraps a Generator. A request is served from the cache when possible;
// otherwise identical concurrent requests share one upstream call, which runs
// under a concurrency limit, a circuit breaker and a timeout.
type Guard struct {
	next     Generator
	cache    Cache
	cfg      GuardConfig
	group    singleflight.Group
	sem      *semaphore.Weighted
	inFlight atomic.Int64
	breaker  *gobreaker.CircuitBreaker
	log      *slog.Logger
}

var _ Generator = (*Guard)(nil)

// NewGuard constructs a Guard around next. cache may be nil.
func NewGuard(next Generator, cache Cache, cfg GuardConfig, log *slog.Logger) *Guard {
	g := &Guard{
		next:  next,
		cache: cache,
		cfg:   cfg,
		sem:   semaphore.NewWeighted(cfg.ConcurrencyLimit),
		log:   log,
	}
	g.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "itinerary",
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= cfg.BreakerFailures
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return g
}

// countsAsSuccess decides what the breaker records as a failure. Only
// upstream call errors do; a malformed reply means the upstream is reachable
// and a cancelled caller says nothing about upstream health.
func countsAsSuccess(err error) bool {
	return err == nil ||
		errors.Is(err, ErrMalformedResponse) ||
		errors.Is(err, context.Canceled)
}

// Generate implements Generator.
func (g *Guard) Generate(ctx context.Context, req domain.TripRequest) (domain.Itinerary, error) {
	key := CacheKey(req)
	if g.cache != nil {
		if it, ok := g.cache.Get(ctx, key); ok {
			g.log.DebugContext(ctx, "itinerary cache hit", "key", key)
			return rebase(it, req.StartDate), nil
		}
	}

	// The shared call must not die with whichever caller started it.
	ch := g.group.DoChan(key, func() (any, error) {
		return g.generate(context.WithoutCancel(ctx), key, req)
	})

	select {
	case <-ctx.Done():
		return domain.Itinerary{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.Itinerary{}, res.Err
		}
		it := res.Val.(domain.Itinerary)
		if res.Shared {
			it = rebase(it, req.StartDate)
		}
		return it, nil
	}
}

func (g *Guard) generate(ctx context.Context, key string, req domain.TripRequest) (domain.Itinerary, error) {
	acquireCtx, cancel := context.WithTimeout(ctx, g.cfg.AcquireTimeout)
	err := g.sem.Acquire(acquireCtx, 1)
	cancel()
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("itinerary.Guard.Generate: %w: too many itinerary requests in progress", domain.ErrRateLimited)
	}
	defer g.sem.Release(1)
	g.inFlight.Add(1)
	defer g.inFlight.Add(-1)

	res, err := g.breaker.Execute(func() (any, error) {
		callCtx, cancel := context.WithTimeout(ctx, g.cfg.CallTimeout)
		defer cancel()
		it, err := g.next.Generate(callCtx, req)
		if err != nil && errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: upstream timed out after %s", domain.ErrGenerationFailed, g.cfg.CallTimeout)
		}
		return it, err
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return domain.Itinerary{}, fmt.Errorf("itinerary.Guard.Generate: %w: itinerary service temporarily unavailable", domain.ErrRateLimited)
	}
	if err != nil {
		return domain.Itinerary{}, err
	}

	it := res.(domain.Itinerary)
	if g.cache != nil {
		g.cache.Set(ctx, key, it)
	}
	return it, nil
}

// BreakerStats describes the circuit breaker.
type BreakerStats struct {
	State               string  `json:"state"`
	ConsecutiveFailures uint32  `json:"consecutive_failures"`
	FailureThreshold    uint32  `json:"failure_threshold"`
	CooldownSeconds     float64 `json:"recovery_timeout_seconds"`
}

// Stats is a point-in-time view of the guard for health reporting.
type Stats struct {
	Breaker          BreakerStats
	ConcurrencyLimit int64
	InFlight         int64
	Cache            string
}

// Stats reports breaker, concurrency and cache state.
func (g *Guard) Stats(ctx context.Context) Stats {
	cache := CacheDisconnected
	if g.cache != nil {
		cache = g.cache.Status(ctx)
	}
	return Stats{
		Breaker: BreakerStats{
			State:               g.breaker.State().String(),
			ConsecutiveFailures: g.breaker.Counts().ConsecutiveFailures,
			FailureThreshold:    g.cfg.BreakerFailures,
			CooldownSeconds:     g.cfg.BreakerCooldown.Seconds(),
		},
		ConcurrencyLimit: g.cfg.ConcurrencyLimit,
		InFlight:         g.inFlight.Load(),
		Cache:            cache,
	}
}

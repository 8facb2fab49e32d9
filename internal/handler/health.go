package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/tripplanner/backend/internal/itinerary"
)

// Component and overall health values.
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status          string                            `json:"status"`
	Components      map[string]string                 `json:"components"`
	CircuitBreakers map[string]itinerary.BreakerStats `json:"circuit_breakers,omitempty"`
	AIConcurrency   *AIConcurrency                    `json:"ai_concurrency,omitempty"`
}

// AIConcurrency describes the itinerary generator's concurrency limit.
type AIConcurrency struct {
	Limit     int64 `json:"limit"`
	InFlight  int64 `json:"in_flight"`
	Available int64 `json:"available"`
}

// healthTimeout bounds the dependency checks so /health answers quickly
// even when a dependency hangs.
const healthTimeout = 2 * time.Second

// GetHealth handles GET /health.
// It returns 200 while Postgres is reachable, with "degraded" when the cache
// is down or the generator breaker is open, and 503 when Postgres is down.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	resp := HealthResponse{Status: statusHealthy, Components: map[string]string{}}
	code := http.StatusOK

	if s.db != nil {
		resp.Components["postgres"] = statusHealthy
		if err := s.db.Ping(ctx); err != nil {
			s.log.WarnContext(ctx, "health check: postgres unreachable", "error", err)
			resp.Components["postgres"] = statusUnhealthy
			resp.Status = statusUnhealthy
			code = http.StatusServiceUnavailable
		}
	}

	if s.generator != nil {
		stats := s.generator.Stats(ctx)
		resp.Components["redis"] = stats.Cache
		resp.CircuitBreakers = map[string]itinerary.BreakerStats{"itinerary": stats.Breaker}
		resp.AIConcurrency = &AIConcurrency{
			Limit:     stats.ConcurrencyLimit,
			InFlight:  stats.InFlight,
			Available: stats.ConcurrencyLimit - stats.InFlight,
		}
		degraded := stats.Cache == itinerary.CacheUnhealthy || stats.Breaker.State != "closed"
		if degraded && resp.Status == statusHealthy {
			resp.Status = statusDegraded
		}
	}

	writeJSON(w, code, resp)
}

// Package itinerary produces day-by-day travel plans for a TripRequest.
//
// Providers (LLM-backed or the offline template) implement Generator. Guard
// wraps any provider with caching, request coalescing, a concurrency limit,
// a circuit breaker and a per-call timeout.
package itinerary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tripplanner/backend/internal/domain"
)

// Generator produces an itinerary for a trip request.
//
// Errors wrap domain.ErrRateLimited when the caller may retry later and
// domain.ErrGenerationFailed when the failure is permanent. Context errors
// are returned as-is.
type Generator interface {
	Generate(ctx context.Context, req domain.TripRequest) (domain.Itinerary, error)
}

// ErrMalformedResponse marks a provider response that could not be decoded
// into an itinerary. It is always wrapped together with domain.ErrGenerationFailed.
var ErrMalformedResponse = errors.New("malformed itinerary response")

// Provider names accepted by New.
const (
	ProviderTemplate = "template"
	ProviderOpenAI   = "openai"
	ProviderOllama   = "ollama"
	ProviderGemini   = "gemini"
)

// New returns the Generator for provider. Unknown providers are an error.
func New(provider string, cfg LLMConfig) (Generator, error) {
	switch strings.ToLower(provider) {
	case ProviderTemplate, "":
		return TemplateGenerator{}, nil
	case ProviderOpenAI, ProviderOllama, ProviderGemini:
		g, err := NewLLMGenerator(strings.ToLower(provider), cfg)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("itinerary.New: unknown provider %q", provider)
	}
}

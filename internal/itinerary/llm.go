package itinerary

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/tripplanner/backend/internal/domain"
)

// LLMConfig configures an OpenAI-compatible chat completion provider.
// Empty fields fall back to per-provider defaults.
type LLMConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type providerDefaults struct {
	model   string
	baseURL string
	keyless bool
}

var defaults = map[string]providerDefaults{
	ProviderOpenAI: {model: "gpt-4o", baseURL: "https://api.openai.com/v1"},
	ProviderOllama: {model: "llama3", baseURL: "http://localhost:11434/v1", keyless: true},
	ProviderGemini: {model: "gemini-1.5-flash", baseURL: "https://generativelanguage.googleapis.com/v1beta/openai"},
}

// LLMGenerator asks a chat completion model for an itinerary. OpenAI, Ollama
// and Gemini all expose the same OpenAI-compatible endpoint, so one client
// serves every provider.
type LLMGenerator struct {
	client   *openai.Client
	model    string
	provider string
}

var _ Generator = (*LLMGenerator)(nil)

// NewLLMGenerator constructs an LLMGenerator for provider.
func NewLLMGenerator(provider string, cfg LLMConfig) (*LLMGenerator, error) {
	d, ok := defaults[provider]
	if !ok {
		return nil, fmt.Errorf("itinerary.NewLLMGenerator: unknown provider %q", provider)
	}
	if cfg.APIKey == "" && !d.keyless {
		return nil, fmt.Errorf("itinerary.NewLLMGenerator: provider %s requires AI_API_KEY", provider)
	}
	if cfg.Model == "" {
		cfg.Model = d.model
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = d.baseURL
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	return &LLMGenerator{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		provider: provider,
	}, nil
}

// Generate implements Generator.
func (g *LLMGenerator) Generate(ctx context.Context, req domain.TripRequest) (domain.Itinerary, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req)},
		},
		Temperature: 0.7,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return domain.Itinerary{}, g.classify(err)
	}
	if len(resp.Choices) == 0 {
		return domain.Itinerary{}, fmt.Errorf("itinerary.LLMGenerator.Generate: %w: %w: no choices", domain.ErrGenerationFailed, ErrMalformedResponse)
	}

	it, err := parseItinerary(resp.Choices[0].Message.Content)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("itinerary.LLMGenerator.Generate: %w", err)
	}
	if it.Destination == "" {
		it.Destination = req.Destination
	}
	if it.DurationDays == 0 {
		it.DurationDays = req.Days()
	}
	return it, nil
}

// classify maps a client error onto the generator error contract.
func (g *LLMGenerator) classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("itinerary.LLMGenerator.Generate: %w", err)
	}

	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	if status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable {
		return fmt.Errorf("itinerary.LLMGenerator.Generate: %w: %s returned %d", domain.ErrRateLimited, g.provider, status)
	}
	return fmt.Errorf("itinerary.LLMGenerator.Generate: %w: %s: %v", domain.ErrGenerationFailed, g.provider, err)
}

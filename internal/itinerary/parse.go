package itinerary

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tripplanner/backend/internal/domain"
)

// parseItinerary decodes a model reply. Models often wrap JSON in markdown
// code fences, so those are stripped first.
func parseItinerary(raw string) (domain.Itinerary, error) {
	body := stripCodeFence(raw)
	if body == "" {
		return domain.Itinerary{}, fmt.Errorf("%w: %w: empty response", domain.ErrGenerationFailed, ErrMalformedResponse)
	}

	var it domain.Itinerary
	if err := json.Unmarshal([]byte(body), &it); err != nil {
		return domain.Itinerary{}, fmt.Errorf("%w: %w: %v", domain.ErrGenerationFailed, ErrMalformedResponse, err)
	}
	if len(it.DailyPlans) == 0 {
		return domain.Itinerary{}, fmt.Errorf("%w: %w: no daily plans", domain.ErrGenerationFailed, ErrMalformedResponse)
	}
	return it, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop the language tag, e.g. ```json.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

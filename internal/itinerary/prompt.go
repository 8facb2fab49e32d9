package itinerary

import (
	"fmt"
	"strings"

	"github.com/tripplanner/backend/internal/domain"
)

const systemPrompt = "You are an experienced travel planner. " +
	"Reply with a single JSON object and nothing else."

var preferenceText = map[string]string{
	"adventure":        "adventure activities",
	"budget_conscious": "budget-friendly options",
	"family_friendly":  "family-friendly activities",
	"luxury":           "luxury experiences",
	"vegetarian":       "vegetarian food",
}

// buildPrompt describes the trip and the JSON shape the model must return.
func buildPrompt(req domain.TripRequest) string {
	prefs := "no special preferences"
	if enabled := req.Preferences.Enabled(); len(enabled) > 0 {
		parts := make([]string, 0, len(enabled))
		for _, p := range enabled {
			parts = append(parts, preferenceText[p])
		}
		prefs = strings.Join(parts, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Plan a %d-day trip to %s from %s to %s for %d traveler(s).\n",
		req.Days(), req.Destination,
		req.StartDate.Format(domain.DateLayout), req.EndDate.Format(domain.DateLayout),
		req.Travelers)
	fmt.Fprintf(&b, "Total budget: INR %.0f. Preferences: %s.\n\n", req.Budget, prefs)
	b.WriteString(`Return JSON with exactly these keys:
{
  "destination": string,
  "duration_days": integer,
  "daily_plans": [{
    "day": integer, "date": "YYYY-MM-DD", "title": string, "description": string,
    "activities": [string],
    "meals": [{"type": "breakfast|lunch|dinner", "suggestion": string, "cost": string}],
    "accommodation": {"name": string, "type": string, "cost": string}
  }],
  "estimated_cost": number,
  "hotels": [{"name": string, "rating": number, "price_per_night": number, "amenities": [string], "location": string}],
  "flights": [{"airline": string, "route": string, "price": number, "duration": string, "departure": string, "arrival": string}],
  "local_transport": [{"type": string, "description": string, "cost": number}],
  "tips": [string],
  "weather_info": string,
  "packing_list": [string]
}
Keep estimated_cost within the budget and give one daily plan per day.`)
	return b.String()
}

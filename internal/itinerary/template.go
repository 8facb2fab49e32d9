package itinerary

import (
	"context"
	"fmt"

	"github.com/tripplanner/backend/internal/domain"
)

// TemplateGenerator builds a generic itinerary without calling any model.
// It is deterministic and never fails, which makes it the default provider
// for local development and tests.
type TemplateGenerator struct{}

var _ Generator = TemplateGenerator{}

// Generate implements Generator.
func (TemplateGenerator) Generate(ctx context.Context, req domain.TripRequest) (domain.Itinerary, error) {
	if err := ctx.Err(); err != nil {
		return domain.Itinerary{}, err
	}

	dest := req.Destination
	days := req.Days()

	plans := make([]domain.DayPlan, 0, max(days, 1))
	for i := 0; i < max(days, 1); i++ {
		plans = append(plans, domain.DayPlan{
			Day:         i + 1,
			Date:        req.StartDate.AddDate(0, 0, i).Format(domain.DateLayout),
			Title:       fmt.Sprintf("Day %d - Explore %s", i+1, dest),
			Description: fmt.Sprintf("Discover the highlights of %s", dest),
			Activities: []string{
				"Visit local attractions",
				"Try local cuisine",
				"Explore markets and shopping areas",
			},
			Meals: []domain.Meal{
				{Type: "breakfast", Suggestion: "Hotel breakfast", Cost: "₹500"},
				{Type: "lunch", Suggestion: "Local restaurant", Cost: "₹800"},
				{Type: "dinner", Suggestion: "Popular dining spot", Cost: "₹1200"},
			},
			Accommodation: &domain.Accommodation{Name: "Recommended Hotel", Type: "Hotel", Cost: "₹3000"},
		})
	}

	weather := fmt.Sprintf("Pleasant weather expected in %s", dest)
	return domain.Itinerary{
		Destination:   dest,
		DurationDays:  days,
		DailyPlans:    plans,
		EstimatedCost: req.Budget * 0.9,
		Hotels: []domain.HotelOption{
			{Name: "Luxury Stay", Rating: 4.5, PricePerNight: 5000, Amenities: []string{"Pool", "Spa", "Restaurant"}, Location: "City Center"},
			{Name: "Mid-Range Hotel", Rating: 4.0, PricePerNight: 3000, Amenities: []string{"WiFi", "Restaurant"}, Location: "Tourist Area"},
			{Name: "Budget Inn", Rating: 3.5, PricePerNight: 1500, Amenities: []string{"WiFi"}, Location: "Near Station"},
		},
		Flights: []domain.FlightOption{
			{Airline: "IndiGo", Route: "Delhi to " + dest, Price: 4500, Duration: "2-3h", Departure: "08:00", Arrival: "10:30"},
		},
		LocalTransport: []domain.TransportOption{
			{Type: "Taxi", Description: "Airport transfers", Cost: 1200},
			{Type: "Local transport", Description: "Daily commute", Cost: 500},
		},
		Tips: []string{
			"Best time to visit " + dest,
			"Carry cash for small purchases",
			"Book attractions in advance",
			"Try local specialties",
			"Respect local customs",
		},
		WeatherInfo: &weather,
		PackingList: []string{
			"Comfortable shoes", "Light clothing", "Sunscreen", "Camera",
			"Power bank", "Travel adapter", "Medications", "Toiletries",
		},
	}, nil
}

package domain

// Itinerary is the structured plan returned by the itinerary generator and
// stored alongside the trip. Optional sections are nil slices or nil pointers
// and are omitted from JSON.
type Itinerary struct {
	Destination    string            `json:"destination"`
	DurationDays   int               `json:"duration_days"`
	DailyPlans     []DayPlan         `json:"daily_plans,omitempty"`
	EstimatedCost  float64           `json:"estimated_cost"`
	Hotels         []HotelOption     `json:"hotels,omitempty"`
	Flights        []FlightOption    `json:"flights,omitempty"`
	LocalTransport []TransportOption `json:"local_transport,omitempty"`
	Tips           []string          `json:"tips,omitempty"`
	WeatherInfo    *string           `json:"weather_info,omitempty"`
	PackingList    []string          `json:"packing_list,omitempty"`
}

// DayPlan is one day of an itinerary.
type DayPlan struct {
	Day           int            `json:"day"`
	Date          string         `json:"date"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Activities    []string       `json:"activities,omitempty"`
	Meals         []Meal         `json:"meals,omitempty"`
	Accommodation *Accommodation `json:"accommodation,omitempty"`
}

// Meal is a meal suggestion. Cost is free text as returned by the generator
// (e.g. "₹800").
type Meal struct {
	Type       string `json:"type"`
	Suggestion string `json:"suggestion"`
	Cost       string `json:"cost,omitempty"`
}

// Accommodation is the overnight stay suggested for a day.
type Accommodation struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
	Cost string `json:"cost,omitempty"`
}

// HotelOption is a hotel the traveller may book.
type HotelOption struct {
	Name          string   `json:"name"`
	Rating        float64  `json:"rating,omitempty"`
	PricePerNight float64  `json:"price_per_night,omitempty"`
	Amenities     []string `json:"amenities,omitempty"`
	Location      string   `json:"location,omitempty"`
}

// FlightOption is a suggested flight.
type FlightOption struct {
	Airline   string  `json:"airline"`
	Route     string  `json:"route"`
	Price     float64 `json:"price,omitempty"`
	Duration  string  `json:"duration,omitempty"`
	Departure string  `json:"departure,omitempty"`
	Arrival   string  `json:"arrival,omitempty"`
}

// TransportOption is a local transport suggestion.
type TransportOption struct {
	Type        string  `json:"type"`
	Description string  `json:"description,omitempty"`
	Cost        float64 `json:"cost,omitempty"`
}

package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BookingType is the kind of reservation attached to a trip.
type BookingType string

const (
	BookingTypeFlight BookingType = "flight"
	BookingTypeHotel  BookingType = "hotel"
	BookingTypeTrain  BookingType = "train"
	BookingTypeBus    BookingType = "bus"
	BookingTypeTaxi   BookingType = "taxi"
)

// Valid reports whether t is a known booking type.
func (t BookingType) Valid() bool {
	switch t {
	case BookingTypeFlight, BookingTypeHotel, BookingTypeTrain, BookingTypeBus, BookingTypeTaxi:
		return true
	}
	return false
}

// BookingStatusConfirmed is the only status the API currently issues.
const BookingStatusConfirmed = "confirmed"

// Booking is a reservation attached to a trip. Details is an opaque JSON
// payload whose shape depends on Type.
type Booking struct {
	ID        uuid.UUID       `json:"id"`
	TripID    uuid.UUID       `json:"trip_id"`
	UserID    uuid.UUID       `json:"user_id"`
	Type      BookingType     `json:"booking_type"`
	Provider  string          `json:"provider"`
	Reference string          `json:"booking_reference"`
	Details   json.RawMessage `json:"details"`
	Status    string          `json:"status"`
	Amount    float64         `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

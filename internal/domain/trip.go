// Package domain contains the core data types for the trip planner.
// This package depends only on uuid and is imported by every other
// internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire and display format of trip dates.
const DateLayout = "2006-01-02"

// TripStatus is the lifecycle state of a Trip.
type TripStatus string

const (
	TripStatusDraft     TripStatus = "draft"
	TripStatusConfirmed TripStatus = "confirmed"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

// tripTransitions lists the allowed target states for each state.
// completed and cancelled are terminal. Nothing leads back to draft.
var tripTransitions = map[TripStatus][]TripStatus{
	TripStatusDraft:     {TripStatusConfirmed, TripStatusCancelled},
	TripStatusConfirmed: {TripStatusCompleted, TripStatusCancelled},
}

// Valid reports whether s is one of the known statuses.
func (s TripStatus) Valid() bool {
	switch s {
	case TripStatusDraft, TripStatusConfirmed, TripStatusCompleted, TripStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a trip in state s may move to next.
func (s TripStatus) CanTransitionTo(next TripStatus) bool {
	for _, t := range tripTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible from s.
func (s TripStatus) Terminal() bool {
	return len(tripTransitions[s]) == 0
}

// Preferences are the optional traveller preference flags for a trip.
type Preferences struct {
	Adventure       bool `json:"adventure"`
	FamilyFriendly  bool `json:"family_friendly"`
	Vegetarian      bool `json:"vegetarian"`
	BudgetConscious bool `json:"budget_conscious"`
	Luxury          bool `json:"luxury"`
}

// Enabled returns the JSON names of the preferences that are switched on,
// in a fixed order.
func (p Preferences) Enabled() []string {
	var out []string
	for _, f := range []struct {
		name string
		on   bool
	}{
		{"adventure", p.Adventure},
		{"budget_conscious", p.BudgetConscious},
		{"family_friendly", p.FamilyFriendly},
		{"luxury", p.Luxury},
		{"vegetarian", p.Vegetarian},
	} {
		if f.on {
			out = append(out, f.name)
		}
	}
	return out
}

// TripRequest carries the parameters of a generate call. It is also the
// input handed to the itinerary generator.
type TripRequest struct {
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	Budget      float64
	Travelers   int
	Preferences Preferences
}

// MaxTripDays is the longest span, in nights, a generate call accepts.
const MaxTripDays = 30

// Days returns the number of nights between start and end date, counted on
// calendar dates. A same-day trip has zero days.
func (r TripRequest) Days() int {
	return int(dayNumber(r.EndDate) - dayNumber(r.StartDate))
}

// dayNumber is the count of days since the Unix epoch for t's calendar date.
func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// Trip represents a planned trip owned by a single user.
// Itinerary is nil only for rows that were not created through generation.
type Trip struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uuid.UUID   `json:"user_id"`
	Destination string      `json:"destination"`
	StartDate   time.Time   `json:"start_date"`
	EndDate     time.Time   `json:"end_date"`
	Budget      float64     `json:"budget"`
	Travelers   int         `json:"travelers"`
	Preferences Preferences `json:"preferences"`
	Itinerary   *Itinerary  `json:"itinerary"`
	Status      TripStatus  `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// OwnedBy reports whether userID owns the trip.
func (t Trip) OwnedBy(userID uuid.UUID) bool {
	return t.UserID == userID
}

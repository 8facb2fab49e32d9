package handler

import (
	"net/http"

	"github.com/tripplanner/backend/internal/domain"
)

// CreateBooking handles POST /bookings.
func (s *Server) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var body CreateBookingRequest
	if !decodeBody(w, r, &body) {
		return
	}

	booking, err := s.bookings.Create(r.Context(), userID, domain.Booking{
		TripID:   body.TripId,
		Type:     domain.BookingType(body.BookingType),
		Provider: body.Provider,
		Details:  body.Details,
		Amount:   body.Amount,
	})
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

// ListTripBookings handles GET /bookings/trip/{id}.
func (s *Server) ListTripBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	bookings, err := s.bookings.ListByTrip(r.Context(), userID, tripID)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/tripplanner/backend/internal/domain"
	"github.com/tripplanner/backend/internal/repo"
)

// BookingService records reservations against a caller's trips.
type BookingService struct {
	trips    repo.TripRepo
	bookings repo.BookingRepo
	log      *slog.Logger
}

// NewBookingService constructs a BookingService.
func NewBookingService(trips repo.TripRepo, bookings repo.BookingRepo, log *slog.Logger) *BookingService {
	return &BookingService{trips: trips, bookings: bookings, log: log}
}

// Create validates b and stores it against b.TripID with a fresh booking
// reference. The trip must be owned by userID and still open.
func (s *BookingService) Create(ctx context.Context, userID uuid.UUID, b domain.Booking) (domain.Booking, error) {
	trip, err := ownedTrip(ctx, s.trips.GetByID, userID, b.TripID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}
	if err := validateBooking(b); err != nil {
		return domain.Booking{}, err
	}
	if err := requireOpen(trip); err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}

	b.UserID = userID
	b.Provider = strings.TrimSpace(b.Provider)
	b.Reference = newBookingReference()
	b.Status = domain.BookingStatusConfirmed
	if len(b.Details) == 0 {
		b.Details = json.RawMessage(`{}`)
	}

	result, err := s.bookings.Create(ctx, b)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}
	s.log.InfoContext(ctx, "booking created", "booking_id", result.ID, "trip_id", result.TripID, "reference", result.Reference)
	return result, nil
}

// ListByTrip returns the bookings of a trip owned by userID, newest first.
// Always returns a non-nil slice.
func (s *BookingService) ListByTrip(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Booking, error) {
	if _, err := ownedTrip(ctx, s.trips.GetByID, userID, tripID); err != nil {
		return nil, fmt.Errorf("service.BookingService.ListByTrip: %w", err)
	}
	bookings, err := s.bookings.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.BookingService.ListByTrip: %w", err)
	}
	if bookings == nil {
		return []domain.Booking{}, nil
	}
	return bookings, nil
}

func validateBooking(b domain.Booking) error {
	if !b.Type.Valid() {
		return fmt.Errorf("%w: unknown booking_type %q", domain.ErrValidation, b.Type)
	}
	if strings.TrimSpace(b.Provider) == "" {
		return fmt.Errorf("%w: provider is required", domain.ErrValidation)
	}
	if b.Amount < 0 {
		return fmt.Errorf("%w: amount must not be negative", domain.ErrValidation)
	}
	if len(b.Details) > 0 && !json.Valid(b.Details) {
		return fmt.Errorf("%w: details must be a JSON value", domain.ErrValidation)
	}
	return nil
}

// newBookingReference returns "BK" followed by 10 upper-case hex digits.
func newBookingReference() string {
	return "BK" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

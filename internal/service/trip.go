package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/tripplanner/backend/internal/domain"
	"github.com/tripplanner/backend/internal/itinerary"
	"github.com/tripplanner/backend/internal/repo"
)

// TripService implements the trip lifecycle: generate, read, list and confirm.
type TripService struct {
	trips     repo.TripRepo
	generator itinerary.Generator
	log       *slog.Logger
}

// NewTripService constructs a TripService.
func NewTripService(trips repo.TripRepo, generator itinerary.Generator, log *slog.Logger) *TripService {
	return &TripService{trips: trips, generator: generator, log: log}
}

// Generate validates req, asks the generator for an itinerary and persists a
// draft trip owned by userID. Nothing is persisted when generation fails or
// the caller has gone away by the time it returns.
func (s *TripService) Generate(ctx context.Context, userID uuid.UUID, req domain.TripRequest) (domain.Trip, error) {
	req.Destination = strings.TrimSpace(req.Destination)
	if err := validateTripRequest(req); err != nil {
		return domain.Trip{}, err
	}

	it, err := s.generator.Generate(ctx, req)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Generate: %w", generationError(err))
	}
	if err := ctx.Err(); err != nil {
		s.log.InfoContext(ctx, "discarding itinerary, request cancelled", "user_id", userID)
		return domain.Trip{}, fmt.Errorf("service.TripService.Generate: %w", err)
	}

	trip, err := s.trips.Create(ctx, domain.Trip{
		UserID:      userID,
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Budget:      req.Budget,
		Travelers:   req.Travelers,
		Preferences: req.Preferences,
		Itinerary:   &it,
		Status:      domain.TripStatusDraft,
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Generate: %w", err)
	}
	s.log.InfoContext(ctx, "trip generated", "trip_id", trip.ID, "user_id", userID, "destination", trip.Destination)
	return trip, nil
}

// Get returns a trip owned by userID.
func (s *TripService) Get(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
	trip, err := ownedTrip(ctx, s.trips.GetByID, userID, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	return trip, nil
}

// List returns one page of the caller's trips, newest first.
// Items is never nil.
func (s *TripService) List(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) (domain.Page[domain.Trip], error) {
	trips, total, err := s.trips.ListByUser(ctx, userID, p)
	if err != nil {
		return domain.Page[domain.Trip]{}, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return domain.Page[domain.Trip]{Items: trips, Total: total}, nil
}

// Confirm moves a draft trip to confirmed. Only one of several concurrent
// calls can win; the others get domain.ErrInvalidTransition.
func (s *TripService) Confirm(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
	trip, err := ownedTrip(ctx, s.trips.GetByID, userID, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Confirm: %w", err)
	}
	if trip.Status != domain.TripStatusDraft {
		return domain.Trip{}, fmt.Errorf("service.TripService.Confirm: %w: cannot confirm a %s trip", domain.ErrInvalidTransition, trip.Status)
	}

	updated, err := s.trips.UpdateStatus(ctx, tripID, domain.TripStatusDraft, domain.TripStatusConfirmed)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Confirm: %w", err)
	}
	s.log.InfoContext(ctx, "trip confirmed", "trip_id", tripID, "user_id", userID)
	return updated, nil
}

// validateTripRequest enforces the generate input rules.
//   - Destination must be non-blank.
//   - EndDate must not be before StartDate, and the span is at most
//     domain.MaxTripDays nights.
//   - Budget must be positive and there must be at least one traveller.
func validateTripRequest(req domain.TripRequest) error {
	if req.Destination == "" {
		return fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: start_date and end_date are required", domain.ErrValidation)
	}
	if req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	if req.Days() > domain.MaxTripDays {
		return fmt.Errorf("%w: trip cannot be longer than %d days", domain.ErrValidation, domain.MaxTripDays)
	}
	if req.Budget <= 0 {
		return fmt.Errorf("%w: budget must be greater than zero", domain.ErrValidation)
	}
	if req.Travelers < 1 {
		return fmt.Errorf("%w: travelers must be at least 1", domain.ErrValidation)
	}
	return nil
}

// generationError keeps the generator error contract intact: anything that is
// neither retryable nor a context error is a permanent generation failure.
func generationError(err error) error {
	switch {
	case errors.Is(err, domain.ErrRateLimited),
		errors.Is(err, domain.ErrGenerationFailed),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
}

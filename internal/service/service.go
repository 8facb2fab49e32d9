// Package service contains the business logic for the trip planner API.
// Services validate inputs, enforce ownership and state rules, and orchestrate
// repo, generator and gateway calls. No SQL lives here.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tripplanner/backend/internal/domain"
)

// tripLoader reads a trip by id. TripRepo.GetByID and, inside a transaction,
// TripRepo.GetForUpdate both satisfy it.
type tripLoader func(ctx context.Context, id uuid.UUID) (domain.Trip, error)

// ownedTrip is the single ownership check for every trip-scoped operation.
// It re-reads the trip on each call and returns domain.ErrNotFound when it
// does not exist or domain.ErrForbidden when userID is not the owner.
func ownedTrip(ctx context.Context, load tripLoader, userID, tripID uuid.UUID) (domain.Trip, error) {
	trip, err := load(ctx, tripID)
	if err != nil {
		return domain.Trip{}, err
	}
	if !trip.OwnedBy(userID) {
		return domain.Trip{}, fmt.Errorf("%w: trip belongs to another user", domain.ErrForbidden)
	}
	return trip, nil
}

// requireOpen rejects trips that can no longer take bookings or payments.
func requireOpen(trip domain.Trip) error {
	if trip.Status != domain.TripStatusDraft && trip.Status != domain.TripStatusConfirmed {
		return fmt.Errorf("%w: trip is %s", domain.ErrInvalidTransition, trip.Status)
	}
	return nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/tripplanner/backend/internal/domain"
	"github.com/tripplanner/backend/internal/payment"
	"github.com/tripplanner/backend/internal/repo"
)

// PaymentService issues payment orders for trips and settles them.
type PaymentService struct {
	trips    repo.TripRepo
	payments repo.PaymentRepo
	tx       repo.Transactor
	gateway  payment.Gateway
	log      *slog.Logger
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(trips repo.TripRepo, payments repo.PaymentRepo, tx repo.Transactor, gateway payment.Gateway, log *slog.Logger) *PaymentService {
	return &PaymentService{trips: trips, payments: payments, tx: tx, gateway: gateway, log: log}
}

// CreateOrder opens a payment order for a trip owned by userID. A nil amount
// charges the trip budget.
func (s *PaymentService) CreateOrder(ctx context.Context, userID, tripID uuid.UUID, amount *float64) (domain.Payment, error) {
	trip, err := ownedTrip(ctx, s.trips.GetByID, userID, tripID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("service.PaymentService.CreateOrder: %w", err)
	}
	if err := requireOpen(trip); err != nil {
		return domain.Payment{}, fmt.Errorf("service.PaymentService.CreateOrder: %w", err)
	}

	amt := trip.Budget
	if amount != nil {
		amt = *amount
	}
	if amt <= 0 {
		return domain.Payment{}, fmt.Errorf("%w: amount must be greater than zero", domain.ErrValidation)
	}

	orderRef, err := s.gateway.CreateOrder(ctx, amt, domain.DefaultCurrency)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("service.PaymentService.CreateOrder: %w", err)
	}
	p, err := s.payments.Create(ctx, domain.Payment{
		TripID:   trip.ID,
		UserID:   userID,
		OrderRef: orderRef,
		Amount:   amt,
		Currency: domain.DefaultCurrency,
		Method:   domain.DefaultPaymentMethod,
	})
	if err != nil {
		return domain.Payment{}, fmt.Errorf("service.PaymentService.CreateOrder: %w", err)
	}
	s.log.InfoContext(ctx, "payment order created", "trip_id", trip.ID, "order_id", orderRef, "amount", amt)
	return p, nil
}

// Verify checks the payment proof and, in one transaction, completes the
// payment and confirms the trip. A trip that is already confirmed stays as is.
// Verifying an already completed payment again succeeds without changes.
func (s *PaymentService) Verify(ctx context.Context, userID uuid.UUID, v domain.PaymentVerification) (domain.Trip, error) {
	v.OrderRef = strings.TrimSpace(v.OrderRef)
	if v.OrderRef == "" {
		return domain.Trip{}, fmt.Errorf("%w: order_id is required", domain.ErrValidation)
	}
	if _, err := ownedTrip(ctx, s.trips.GetByID, userID, v.TripID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.PaymentService.Verify: %w", err)
	}
	if _, err := s.payments.GetByOrderRef(ctx, v.TripID, v.OrderRef); err != nil {
		return domain.Trip{}, fmt.Errorf("service.PaymentService.Verify: %w", err)
	}
	if err := s.gateway.Verify(v.OrderRef, v.ProviderPaymentID, v.Signature); err != nil {
		return domain.Trip{}, fmt.Errorf("service.PaymentService.Verify: %w", err)
	}

	var confirmed domain.Trip
	err := s.tx.WithinTx(ctx, func(tx repo.Repos) error {
		// The row lock serialises concurrent verifications of the same trip.
		trip, err := ownedTrip(ctx, tx.Trips.GetForUpdate, userID, v.TripID)
		if err != nil {
			return err
		}
		p, err := tx.Payments.GetByOrderRef(ctx, v.TripID, v.OrderRef)
		if err != nil {
			return err
		}

		switch trip.Status {
		case domain.TripStatusConfirmed:
		case domain.TripStatusDraft:
			if trip, err = tx.Trips.UpdateStatus(ctx, trip.ID, domain.TripStatusDraft, domain.TripStatusConfirmed); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: cannot pay for a %s trip", domain.ErrInvalidTransition, trip.Status)
		}

		switch p.Status {
		case domain.PaymentStatusCreated:
			if _, err := tx.Payments.MarkCompleted(ctx, p.ID, v.ProviderPaymentID, v.Signature); err != nil {
				return err
			}
		case domain.PaymentStatusCompleted:
			if p.ProviderPaymentID != nil && *p.ProviderPaymentID != v.ProviderPaymentID {
				return fmt.Errorf("%w: order already paid with a different payment_id", domain.ErrConflict)
			}
		}
		confirmed = trip
		return nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PaymentService.Verify: %w", err)
	}
	s.log.InfoContext(ctx, "payment verified", "trip_id", v.TripID, "order_id", v.OrderRef, "user_id", userID)
	return confirmed, nil
}

// ListByTrip returns the payments of a trip owned by userID, newest first.
// Always returns a non-nil slice.
func (s *PaymentService) ListByTrip(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Payment, error) {
	if _, err := ownedTrip(ctx, s.trips.GetByID, userID, tripID); err != nil {
		return nil, fmt.Errorf("service.PaymentService.ListByTrip: %w", err)
	}
	payments, err := s.payments.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.PaymentService.ListByTrip: %w", err)
	}
	if payments == nil {
		return []domain.Payment{}, nil
	}
	return payments, nil
}

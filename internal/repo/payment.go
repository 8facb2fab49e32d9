package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tripplanner/backend/internal/domain"
)

// PaymentRepo defines the persistence operations for Payments.
type PaymentRepo interface {
	// Create inserts a payment order and returns the persisted record.
	Create(ctx context.Context, p domain.Payment) (domain.Payment, error)

	// GetByOrderRef looks an order up within a trip. An order that exists but
	// belongs to another trip is reported as domain.ErrNotFound.
	GetByOrderRef(ctx context.Context, tripID uuid.UUID, orderRef string) (domain.Payment, error)

	// MarkCompleted moves a payment from created to completed and stores the
	// provider's payment id and signature. Returns domain.ErrInvalidTransition
	// if the payment is not in the created status.
	MarkCompleted(ctx context.Context, id uuid.UUID, providerPaymentID, signature string) (domain.Payment, error)

	// ListByTrip returns all payments for a trip, newest first.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Payment, error)
}

type pgPaymentRepo struct {
	db db
}

// NewPaymentRepo constructs a PaymentRepo backed by the provided db connection.
func NewPaymentRepo(db db) PaymentRepo {
	return &pgPaymentRepo{db: db}
}

const paymentColumns = `id, trip_id, user_id, order_ref, amount, currency, method,
		provider_payment_id, signature, status, created_at, updated_at`

func (r *pgPaymentRepo) Create(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	const q = `
		INSERT INTO payments (trip_id, user_id, order_ref, amount, currency, method, status)
		VALUES (@trip_id, @user_id, @order_ref, @amount, @currency, @method, @status)
		RETURNING ` + paymentColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"trip_id":   p.TripID,
		"user_id":   p.UserID,
		"order_ref": p.OrderRef,
		"amount":    p.Amount,
		"currency":  p.Currency,
		"method":    p.Method,
		"status":    string(domain.PaymentStatusCreated),
	})
	result, err := scanPayment(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Payment{}, fmt.Errorf("repo.PaymentRepo.Create: %w: duplicate order reference", domain.ErrConflict)
		}
		return domain.Payment{}, fmt.Errorf("repo.PaymentRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgPaymentRepo) GetByOrderRef(ctx context.Context, tripID uuid.UUID, orderRef string) (domain.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE trip_id = @trip_id AND order_ref = @order_ref`

	result, err := scanPayment(r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "order_ref": orderRef}))
	if err != nil {
		return domain.Payment{}, fmt.Errorf("repo.PaymentRepo.GetByOrderRef: %w", err)
	}
	return result, nil
}

func (r *pgPaymentRepo) MarkCompleted(ctx context.Context, id uuid.UUID, providerPaymentID, signature string) (domain.Payment, error) {
	const q = `
		UPDATE payments
		SET status              = 'completed',
		    provider_payment_id = @provider_payment_id,
		    signature           = @signature,
		    updated_at          = now()
		WHERE id = @id AND status = 'created'
		RETURNING ` + paymentColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"id":                  id,
		"provider_payment_id": providerPaymentID,
		"signature":           signature,
	})
	result, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Payment{}, fmt.Errorf("repo.PaymentRepo.MarkCompleted: %w: payment is not pending", domain.ErrInvalidTransition)
		}
		return domain.Payment{}, fmt.Errorf("repo.PaymentRepo.MarkCompleted: %w", err)
	}
	return result, nil
}

func (r *pgPaymentRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Payment, error) {
	const q = `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE trip_id = @trip_id
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.PaymentRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PaymentRepo.ListByTrip: scan: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PaymentRepo.ListByTrip: rows: %w", err)
	}
	return payments, nil
}

func scanPayment(s scanner) (domain.Payment, error) {
	var (
		p      domain.Payment
		id     pgtype.UUID
		tripID pgtype.UUID
		userID pgtype.UUID
		status string
	)
	err := s.Scan(&id, &tripID, &userID, &p.OrderRef, &p.Amount, &p.Currency, &p.Method,
		&p.ProviderPaymentID, &p.Signature, &status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Payment{}, notFound(err)
	}
	p.ID = uuid.UUID(id.Bytes)
	p.TripID = uuid.UUID(tripID.Bytes)
	p.UserID = uuid.UUID(userID.Bytes)
	p.Status = domain.PaymentStatus(status)
	return p, nil
}

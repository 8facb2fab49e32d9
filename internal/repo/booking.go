package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tripplanner/backend/internal/domain"
)

// BookingRepo defines the persistence operations for Bookings.
// Bookings are always read through their parent trip.
type BookingRepo interface {
	// Create inserts a booking and returns the persisted record.
	Create(ctx context.Context, b domain.Booking) (domain.Booking, error)

	// ListByTrip returns all bookings for a trip, newest first.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Booking, error)
}

type pgBookingRepo struct {
	db db
}

// NewBookingRepo constructs a BookingRepo backed by the provided db connection.
func NewBookingRepo(db db) BookingRepo {
	return &pgBookingRepo{db: db}
}

const bookingColumns = `id, trip_id, user_id, booking_type, provider, booking_reference,
		details, status, amount, created_at`

func (r *pgBookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	const q = `
		INSERT INTO bookings (trip_id, user_id, booking_type, provider, booking_reference,
		                      details, status, amount)
		VALUES (@trip_id, @user_id, @booking_type, @provider, @booking_reference,
		        @details, @status, @amount)
		RETURNING ` + bookingColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"trip_id":           b.TripID,
		"user_id":           b.UserID,
		"booking_type":      string(b.Type),
		"provider":          b.Provider,
		"booking_reference": b.Reference,
		"details":           b.Details,
		"status":            b.Status,
		"amount":            b.Amount,
	})
	result, err := scanBooking(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w: duplicate booking reference", domain.ErrConflict)
		}
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgBookingRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Booking, error) {
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE trip_id = @trip_id
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.BookingRepo.ListByTrip: scan: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListByTrip: rows: %w", err)
	}
	return bookings, nil
}

func scanBooking(s scanner) (domain.Booking, error) {
	var (
		b      domain.Booking
		id     pgtype.UUID
		tripID pgtype.UUID
		userID pgtype.UUID
		typ    string
	)
	err := s.Scan(&id, &tripID, &userID, &typ, &b.Provider, &b.Reference,
		&b.Details, &b.Status, &b.Amount, &b.CreatedAt)
	if err != nil {
		return domain.Booking{}, notFound(err)
	}
	b.ID = uuid.UUID(id.Bytes)
	b.TripID = uuid.UUID(tripID.Bytes)
	b.UserID = uuid.UUID(userID.Bytes)
	b.Type = domain.BookingType(typ)
	return b, nil
}

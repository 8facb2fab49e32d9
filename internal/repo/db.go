// Package repo contains all database access logic for the trip planner.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tripplanner/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// txBeginner is satisfied by *pgxpool.Pool and pgx.Tx (nested savepoints).
type txBeginner interface {
	db
	Begin(ctx context.Context) (pgx.Tx, error)
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// Repos bundles every repository bound to the same connection or transaction.
type Repos struct {
	Users    UserRepo
	Trips    TripRepo
	Bookings BookingRepo
	Payments PaymentRepo
}

// NewRepos constructs all repositories over a single db handle.
func NewRepos(db db) Repos {
	return Repos{
		Users:    NewUserRepo(db),
		Trips:    NewTripRepo(db),
		Bookings: NewBookingRepo(db),
		Payments: NewPaymentRepo(db),
	}
}

// Transactor runs a function with repositories bound to one database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx Repos) error) error
}

type pgTransactor struct {
	db txBeginner
}

// NewTransactor constructs a Transactor. In production pass *pgxpool.Pool;
// in tests a pgx.Tx works too (each call becomes a savepoint).
func NewTransactor(db txBeginner) Transactor {
	return &pgTransactor{db: db}
}

// WithinTx begins a transaction, hands fn a Repos bound to it, and commits or
// rolls back depending on fn's result.
func (t *pgTransactor) WithinTx(ctx context.Context, fn func(tx Repos) error) error {
	err := pgx.BeginFunc(ctx, t.db, func(tx pgx.Tx) error {
		return fn(NewRepos(tx))
	})
	if err != nil {
		return fmt.Errorf("repo.Transactor.WithinTx: %w", err)
	}
	return nil
}

// notFound maps pgx.ErrNoRows to domain.ErrNotFound and leaves other errors alone.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// isUniqueViolation reports whether err is a Postgres unique constraint failure.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

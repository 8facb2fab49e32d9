package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the lifecycle state of a Payment.
type PaymentStatus string

const (
	PaymentStatusCreated   PaymentStatus = "created"
	PaymentStatusCompleted PaymentStatus = "completed"
)

const (
	// DefaultCurrency is used when a payment order does not name one.
	DefaultCurrency = "INR"
	// DefaultPaymentMethod is recorded for orders issued by the mock gateway.
	DefaultPaymentMethod = "mock"
)

// Payment is a payment order for a trip. ProviderPaymentID and Signature are
// set when the order is verified.
type Payment struct {
	ID                uuid.UUID     `json:"id"`
	TripID            uuid.UUID     `json:"trip_id"`
	UserID            uuid.UUID     `json:"user_id"`
	OrderRef          string        `json:"order_id"`
	Amount            float64       `json:"amount"`
	Currency          string        `json:"currency"`
	Method            string        `json:"payment_method"`
	ProviderPaymentID *string       `json:"payment_id,omitempty"`
	Signature         *string       `json:"signature,omitempty"`
	Status            PaymentStatus `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// PaymentVerification is the client's proof that a payment order was paid.
type PaymentVerification struct {
	TripID            uuid.UUID
	OrderRef          string
	ProviderPaymentID string
	Signature         string
}

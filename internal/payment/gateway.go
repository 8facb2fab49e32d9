// Package payment talks to the payment gateway. Only a mock gateway exists;
// it issues order references and checks Razorpay-style signatures.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tripplanner/backend/internal/domain"
)

// Gateway creates payment orders and verifies completed payments.
type Gateway interface {
	CreateOrder(ctx context.Context, amount float64, currency string) (string, error)
	Verify(orderRef, providerPaymentID, signature string) error
}

// MockGateway is an in-process Gateway. With a signing secret it enforces
// HMAC-SHA256 signatures; without one any non-empty signature passes.
type MockGateway struct {
	secret []byte
}

var _ Gateway = (*MockGateway)(nil)

// NewMockGateway constructs a MockGateway. secret may be empty.
func NewMockGateway(secret string) *MockGateway {
	return &MockGateway{secret: []byte(secret)}
}

// CreateOrder returns a fresh order reference of the form order_<14 chars>.
func (g *MockGateway) CreateOrder(ctx context.Context, amount float64, currency string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if amount <= 0 {
		return "", fmt.Errorf("payment.MockGateway.CreateOrder: %w: amount must be positive", domain.ErrValidation)
	}
	if currency == "" {
		return "", fmt.Errorf("payment.MockGateway.CreateOrder: %w: currency is required", domain.ErrValidation)
	}
	return "order_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14], nil
}

// Verify checks the payment proof for orderRef.
func (g *MockGateway) Verify(orderRef, providerPaymentID, signature string) error {
	if strings.TrimSpace(providerPaymentID) == "" {
		return fmt.Errorf("payment.MockGateway.Verify: %w: payment_id is required", domain.ErrValidation)
	}
	if strings.TrimSpace(signature) == "" {
		return fmt.Errorf("payment.MockGateway.Verify: %w: signature is required", domain.ErrValidation)
	}
	if len(g.secret) == 0 {
		return nil
	}
	want := Sign(string(g.secret), orderRef, providerPaymentID)
	if !hmac.Equal([]byte(want), []byte(strings.ToLower(signature))) {
		return fmt.Errorf("payment.MockGateway.Verify: %w: signature mismatch", domain.ErrValidation)
	}
	return nil
}

// Sign returns hex(HMAC-SHA256(secret, orderRef|providerPaymentID)).
func Sign(secret, orderRef, providerPaymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderRef + "|" + providerPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

package handler

import (
	"net/http"

	"github.com/tripplanner/backend/internal/domain"
)

// CreatePayment handles POST /payments/create.
// An omitted amount charges the trip budget.
func (s *Server) CreatePayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var body CreatePaymentRequest
	if !decodeBody(w, r, &body) {
		return
	}

	p, err := s.payments.CreateOrder(r.Context(), userID, body.TripId, body.Amount)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, paymentToOrder(p))
}

// VerifyPayment handles POST /payments/verify.
func (s *Server) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var body VerifyPaymentRequest
	if !decodeBody(w, r, &body) {
		return
	}

	trip, err := s.payments.Verify(r.Context(), userID, domain.PaymentVerification{
		TripID:            body.TripId,
		OrderRef:          body.OrderId,
		ProviderPaymentID: body.PaymentId,
		Signature:         body.Signature,
	})
	if err != nil {
		s.writeError(w, r, err, "payment")
		return
	}
	writeJSON(w, http.StatusOK, PaymentVerified{
		Status: string(domain.PaymentStatusCompleted),
		Trip:   tripToResponse(trip),
	})
}

// ListTripPayments handles GET /payments/trip/{id}.
func (s *Server) ListTripPayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	payments, err := s.payments.ListByTrip(r.Context(), userID, tripID)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

package handler

import (
	"encoding/json"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/tripplanner/backend/internal/domain"
)

// Request and response bodies. Field names and formats follow openapi.yaml.

type RegisterRequest struct {
	Email    openapi_types.Email `json:"email"`
	Password string              `json:"password"`
	FullName string              `json:"full_name"`
	Phone    *string             `json:"phone,omitempty"`
}

type LoginRequest struct {
	Email    openapi_types.Email `json:"email"`
	Password string              `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type User struct {
	Id        openapi_types.UUID `json:"id"`
	Email     string             `json:"email"`
	FullName  string             `json:"full_name"`
	Phone     *string            `json:"phone,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	User         User   `json:"user"`
}

type GenerateTripRequest struct {
	Destination string              `json:"destination"`
	StartDate   openapi_types.Date  `json:"start_date"`
	EndDate     openapi_types.Date  `json:"end_date"`
	Budget      float64             `json:"budget"`
	Travelers   *int                `json:"travelers,omitempty"`
	Preferences *domain.Preferences `json:"preferences,omitempty"`
}

type Trip struct {
	Id          openapi_types.UUID `json:"id"`
	UserId      openapi_types.UUID `json:"user_id"`
	Destination string             `json:"destination"`
	StartDate   openapi_types.Date `json:"start_date"`
	EndDate     openapi_types.Date `json:"end_date"`
	Budget      float64            `json:"budget"`
	Travelers   int                `json:"travelers"`
	Preferences domain.Preferences `json:"preferences"`
	Itinerary   *domain.Itinerary  `json:"itinerary"`
	Status      string             `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

type TripList struct {
	Data       []Trip     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type CreateBookingRequest struct {
	TripId      openapi_types.UUID `json:"trip_id"`
	BookingType string             `json:"booking_type"`
	Provider    string             `json:"provider"`
	Details     json.RawMessage    `json:"details,omitempty"`
	Amount      float64            `json:"amount"`
}

type CreatePaymentRequest struct {
	TripId openapi_types.UUID `json:"trip_id"`
	Amount *float64           `json:"amount,omitempty"`
}

type PaymentOrder struct {
	OrderId  string             `json:"order_id"`
	TripId   openapi_types.UUID `json:"trip_id"`
	Amount   float64            `json:"amount"`
	Currency string             `json:"currency"`
	Status   string             `json:"status"`
}

type VerifyPaymentRequest struct {
	TripId    openapi_types.UUID `json:"trip_id"`
	OrderId   string             `json:"order_id"`
	PaymentId string             `json:"payment_id"`
	Signature string             `json:"signature"`
}

type PaymentVerified struct {
	Status string `json:"status"`
	Trip   Trip   `json:"trip"`
}

// --- mapping helpers --------------------------------------------------------

func userToResponse(u domain.User) User {
	return User{Id: u.ID, Email: u.Email, FullName: u.FullName, Phone: u.Phone, CreatedAt: u.CreatedAt}
}

func tokensToResponse(p domain.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    "bearer",
		User:         userToResponse(p.User),
	}
}

// requestToTripRequest converts a GenerateTripRequest body into a domain.TripRequest.
// An omitted traveller count means one traveller.
func requestToTripRequest(body GenerateTripRequest) domain.TripRequest {
	req := domain.TripRequest{
		Destination: body.Destination,
		StartDate:   body.StartDate.Time,
		EndDate:     body.EndDate.Time,
		Budget:      body.Budget,
		Travelers:   1,
	}
	if body.Travelers != nil {
		req.Travelers = *body.Travelers
	}
	if body.Preferences != nil {
		req.Preferences = *body.Preferences
	}
	return req
}

func tripToResponse(t domain.Trip) Trip {
	return Trip{
		Id:          t.ID,
		UserId:      t.UserID,
		Destination: t.Destination,
		StartDate:   openapi_types.Date{Time: t.StartDate},
		EndDate:     openapi_types.Date{Time: t.EndDate},
		Budget:      t.Budget,
		Travelers:   t.Travelers,
		Preferences: t.Preferences,
		Itinerary:   t.Itinerary,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func paymentToOrder(p domain.Payment) PaymentOrder {
	return PaymentOrder{
		OrderId:  p.OrderRef,
		TripId:   p.TripID,
		Amount:   p.Amount,
		Currency: p.Currency,
		Status:   string(p.Status),
	}
}

// Package handler implements the HTTP handlers for the trip planner API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (auth.go, trip.go, etc.) but share the same Server struct so they can
// reach its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tripplanner/backend/internal/domain"
	"github.com/tripplanner/backend/internal/itinerary"
	"github.com/tripplanner/backend/internal/service"
)

// The servicer interfaces are defined here, in the consumer package, so
// handler tests can inject hand-written fakes without a database.

// AuthServicer registers users and issues tokens.
type AuthServicer interface {
	Register(ctx context.Context, r service.Registration) (domain.TokenPair, error)
	Login(ctx context.Context, email, password string) (domain.TokenPair, error)
	Me(ctx context.Context, userID uuid.UUID) (domain.User, error)
	Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error)
}

// TripServicer runs the trip lifecycle.
type TripServicer interface {
	Generate(ctx context.Context, userID uuid.UUID, req domain.TripRequest) (domain.Trip, error)
	Get(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error)
	List(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) (domain.Page[domain.Trip], error)
	Confirm(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error)
}

// BookingServicer records bookings against trips.
type BookingServicer interface {
	Create(ctx context.Context, userID uuid.UUID, b domain.Booking) (domain.Booking, error)
	ListByTrip(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Booking, error)
}

// PaymentServicer issues and settles payment orders.
type PaymentServicer interface {
	CreateOrder(ctx context.Context, userID, tripID uuid.UUID, amount *float64) (domain.Payment, error)
	Verify(ctx context.Context, userID uuid.UUID, v domain.PaymentVerification) (domain.Trip, error)
	ListByTrip(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Payment, error)
}

// Pinger reports whether the database is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// GeneratorStats reports the state of the itinerary generator guard.
type GeneratorStats interface {
	Stats(ctx context.Context) itinerary.Stats
}

// Deps bundles everything Server needs. Nil services are allowed in tests
// that do not reach the corresponding routes.
type Deps struct {
	Auth      AuthServicer
	Trips     TripServicer
	Bookings  BookingServicer
	Payments  PaymentServicer
	DB        Pinger
	Generator GeneratorStats
	OpenAPI   []byte
}

// Server holds the dependencies shared by all handlers.
type Server struct {
	auth      AuthServicer
	trips     TripServicer
	bookings  BookingServicer
	payments  PaymentServicer
	db        Pinger
	generator GeneratorStats
	openAPI   []byte
	log       *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(d Deps, log *slog.Logger) *Server {
	return &Server{
		auth:      d.Auth,
		trips:     d.Trips,
		bookings:  d.Bookings,
		payments:  d.Payments,
		db:        d.DB,
		generator: d.Generator,
		openAPI:   d.OpenAPI,
		log:       log,
	}
}

// Routes returns the API router. authenticate guards every route that needs
// a caller; it must place an auth.Session in the request context.
func (s *Server) Routes(authenticate func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody("not_found", "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method_not_allowed", "method not allowed"))
	})

	r.Get("/health", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.Register)
		r.Post("/login", s.Login)
		r.Post("/refresh", s.Refresh)
		r.With(authenticate).Get("/me", s.Me)
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Post("/trips/generate", s.GenerateTrip)
		r.Get("/trips", s.ListTrips)
		r.Get("/trips/{id}", s.GetTrip)
		r.Put("/trips/{id}/confirm", s.ConfirmTrip)

		r.Post("/bookings", s.CreateBooking)
		r.Get("/bookings/trip/{id}", s.ListTripBookings)

		r.Post("/payments/create", s.CreatePayment)
		r.Post("/payments/verify", s.VerifyPayment)
		r.Get("/payments/trip/{id}", s.ListTripPayments)
	})
	return r
}

// GetOpenAPI handles GET /openapi.yaml.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(s.openAPI)
}

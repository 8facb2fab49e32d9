package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tripplanner/backend/internal/auth"
	"github.com/tripplanner/backend/internal/domain"
	"github.com/tripplanner/backend/internal/handler"
	"github.com/tripplanner/backend/internal/itinerary"
	"github.com/tripplanner/backend/internal/service"
)

// ---- mock servicers --------------------------------------------------------
// Each is a hand-written test double. Set only the method fields your test needs.

type mockAuthServicer struct {
	register func(ctx context.Context, r service.Registration) (domain.TokenPair, error)
	login    func(ctx context.Context, email, password string) (domain.TokenPair, error)
	me       func(ctx context.Context, userID uuid.UUID) (domain.User, error)
	refresh  func(ctx context.Context, token string) (domain.TokenPair, error)
}

func (m *mockAuthServicer) Register(ctx context.Context, r service.Registration) (domain.TokenPair, error) {
	return m.register(ctx, r)
}
func (m *mockAuthServicer) Login(ctx context.Context, email, password string) (domain.TokenPair, error) {
	return m.login(ctx, email, password)
}
func (m *mockAuthServicer) Me(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	return m.me(ctx, userID)
}
func (m *mockAuthServicer) Refresh(ctx context.Context, token string) (domain.TokenPair, error) {
	return m.refresh(ctx, token)
}

type mockTripServicer struct {
	generate func(ctx context.Context, userID uuid.UUID, req domain.TripRequest) (domain.Trip, error)
	get      func(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error)
	list     func(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) (domain.Page[domain.Trip], error)
	confirm  func(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error)
}

func (m *mockTripServicer) Generate(ctx context.Context, userID uuid.UUID, req domain.TripRequest) (domain.Trip, error) {
	return m.generate(ctx, userID, req)
}
func (m *mockTripServicer) Get(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
	return m.get(ctx, userID, tripID)
}
func (m *mockTripServicer) List(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) (domain.Page[domain.Trip], error) {
	return m.list(ctx, userID, p)
}
func (m *mockTripServicer) Confirm(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
	return m.confirm(ctx, userID, tripID)
}

type mockBookingServicer struct {
	create     func(ctx context.Context, userID uuid.UUID, b domain.Booking) (domain.Booking, error)
	listByTrip func(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Booking, error)
}

func (m *mockBookingServicer) Create(ctx context.Context, userID uuid.UUID, b domain.Booking) (domain.Booking, error) {
	return m.create(ctx, userID, b)
}
func (m *mockBookingServicer) ListByTrip(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Booking, error) {
	return m.listByTrip(ctx, userID, tripID)
}

type mockPaymentServicer struct {
	createOrder func(ctx context.Context, userID, tripID uuid.UUID, amount *float64) (domain.Payment, error)
	verify      func(ctx context.Context, userID uuid.UUID, v domain.PaymentVerification) (domain.Trip, error)
	listByTrip  func(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Payment, error)
}

func (m *mockPaymentServicer) CreateOrder(ctx context.Context, userID, tripID uuid.UUID, amount *float64) (domain.Payment, error) {
	return m.createOrder(ctx, userID, tripID, amount)
}
func (m *mockPaymentServicer) Verify(ctx context.Context, userID uuid.UUID, v domain.PaymentVerification) (domain.Trip, error) {
	return m.verify(ctx, userID, v)
}
func (m *mockPaymentServicer) ListByTrip(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Payment, error) {
	return m.listByTrip(ctx, userID, tripID)
}

type mockPinger struct{ err error }

func (m mockPinger) Ping(context.Context) error { return m.err }

type mockGeneratorStats struct{ stats itinerary.Stats }

func (m mockGeneratorStats) Stats(context.Context) itinerary.Stats { return m.stats }

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.AuthServicer    = (*mockAuthServicer)(nil)
	_ handler.TripServicer    = (*mockTripServicer)(nil)
	_ handler.BookingServicer = (*mockBookingServicer)(nil)
	_ handler.PaymentServicer = (*mockPaymentServicer)(nil)
	_ handler.Pinger          = mockPinger{}
	_ handler.GeneratorStats  = mockGeneratorStats{}
)

// ---- helpers ---------------------------------------------------------------

// callerUUID is the user every authenticated test request runs as.
var callerUUID = uuid.MustParse("7b0c1f1e-4a57-4d1b-9a55-2f0b9b0f3d11")

// asCaller stands in for the bearer authenticator: it marks every request
// as coming from callerUUID.
func asCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := auth.WithSession(r.Context(), auth.Session{UserID: callerUUID, Email: "a@x.com"})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// newHTTPHandler wires a Server with the given mocks into the router, the
// same way main.go wires it in production.
func newHTTPHandler(d handler.Deps) http.Handler {
	return handler.NewServer(d, slog.New(slog.NewTextHandler(io.Discard, nil))).Routes(asCaller)
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

func day(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func tripFixture() domain.Trip {
	it := domain.Itinerary{Destination: "Goa", DurationDays: 4}
	return domain.Trip{
		ID:          uuid.New(),
		UserID:      callerUUID,
		Destination: "Goa",
		StartDate:   day("2026-01-01"),
		EndDate:     day("2026-01-05"),
		Budget:      50000,
		Travelers:   2,
		Itinerary:   &it,
		Status:      domain.TripStatusDraft,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}

func stringsReader(s string) io.Reader {
	return bytes.NewBufferString(s)
}

package service_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/tripplanner/backend/internal/domain"
	"github.com/tripplanner/backend/internal/itinerary"
	"github.com/tripplanner/backend/internal/payment"
	"github.com/tripplanner/backend/internal/repo"
)

// ---- in-memory store -------------------------------------------------------

// memStore is an in-memory stand-in for Postgres. It honours the same
// contracts the pg repos do: conditional status updates, unique emails and
// order refs, and transactions that roll back when fn fails.
type memStore struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	clock    time.Time
	users    map[uuid.UUID]domain.User
	trips    map[uuid.UUID]domain.Trip
	bookings map[uuid.UUID]domain.Booking
	payments map[uuid.UUID]domain.Payment
}

func newMemStore() *memStore {
	return &memStore{
		clock:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		users:    map[uuid.UUID]domain.User{},
		trips:    map[uuid.UUID]domain.Trip{},
		bookings: map[uuid.UUID]domain.Booking{},
		payments: map[uuid.UUID]domain.Payment{},
	}
}

// tick returns a strictly increasing timestamp. Callers hold mu.
func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) repos() repo.Repos {
	return repo.Repos{
		Users:    memUsers{s},
		Trips:    memTrips{s},
		Bookings: memBookings{s},
		Payments: memPayments{s},
	}
}

func (s *memStore) WithinTx(ctx context.Context, fn func(tx repo.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	trips := cloneMap(s.trips)
	payments := cloneMap(s.payments)
	s.mu.Unlock()

	if err := fn(s.repos()); err != nil {
		s.mu.Lock()
		s.trips, s.payments = trips, payments
		s.mu.Unlock()
		return err
	}
	return nil
}

var _ repo.Transactor = (*memStore)(nil)

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) trip(id uuid.UUID) domain.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trips[id]
}

func (s *memStore) tripCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.trips)
}

func (s *memStore) payment(orderRef string) domain.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.OrderRef == orderRef {
			return p
		}
	}
	return domain.Payment{}
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, u domain.User) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u.Email = strings.ToLower(u.Email)
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return domain.User{}, domain.ErrConflict
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = r.s.tick()
	r.s.users[u.ID] = u
	return u, nil
}

func (r memUsers) GetByID(_ context.Context, id uuid.UUID) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

type memTrips struct{ s *memStore }

func (r memTrips) Create(_ context.Context, t domain.Trip) (domain.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.ID = uuid.New()
	t.CreatedAt = r.s.tick()
	t.UpdatedAt = t.CreatedAt
	r.s.trips[t.ID] = t
	return t, nil
}

func (r memTrips) GetByID(_ context.Context, id uuid.UUID) (domain.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.trips[id]
	if !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	return t, nil
}

func (r memTrips) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return r.GetByID(ctx, id)
}

func (r memTrips) ListByUser(_ context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var owned []domain.Trip
	for _, t := range r.s.trips {
		if t.UserID == userID {
			owned = append(owned, t)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })
	total := int64(len(owned))
	start := min(p.Offset(), len(owned))
	end := min(start+p.Limit, len(owned))
	return owned[start:end], total, nil
}

func (r memTrips) UpdateStatus(_ context.Context, id uuid.UUID, from, to domain.TripStatus) (domain.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.trips[id]
	if !ok || t.Status != from {
		return domain.Trip{}, domain.ErrInvalidTransition
	}
	t.Status = to
	t.UpdatedAt = r.s.tick()
	r.s.trips[id] = t
	return t, nil
}

type memBookings struct{ s *memStore }

func (r memBookings) Create(_ context.Context, b domain.Booking) (domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b.ID = uuid.New()
	b.CreatedAt = r.s.tick()
	r.s.bookings[b.ID] = b
	return b, nil
}

func (r memBookings) ListByTrip(_ context.Context, tripID uuid.UUID) ([]domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Booking
	for _, b := range r.s.bookings {
		if b.TripID == tripID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memPayments struct{ s *memStore }

func (r memPayments) Create(_ context.Context, p domain.Payment) (domain.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.payments {
		if existing.OrderRef == p.OrderRef {
			return domain.Payment{}, domain.ErrConflict
		}
	}
	p.ID = uuid.New()
	p.Status = domain.PaymentStatusCreated
	p.CreatedAt = r.s.tick()
	p.UpdatedAt = p.CreatedAt
	r.s.payments[p.ID] = p
	return p, nil
}

func (r memPayments) GetByOrderRef(_ context.Context, tripID uuid.UUID, orderRef string) (domain.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.payments {
		if p.TripID == tripID && p.OrderRef == orderRef {
			return p, nil
		}
	}
	return domain.Payment{}, domain.ErrNotFound
}

func (r memPayments) MarkCompleted(_ context.Context, id uuid.UUID, providerPaymentID, signature string) (domain.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok || p.Status != domain.PaymentStatusCreated {
		return domain.Payment{}, domain.ErrInvalidTransition
	}
	p.Status = domain.PaymentStatusCompleted
	p.ProviderPaymentID = &providerPaymentID
	p.Signature = &signature
	p.UpdatedAt = r.s.tick()
	r.s.payments[id] = p
	return p, nil
}

func (r memPayments) ListByTrip(_ context.Context, tripID uuid.UUID) ([]domain.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Payment
	for _, p := range r.s.payments {
		if p.TripID == tripID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// compile-time checks: the in-memory repos must satisfy the repo interfaces.
var (
	_ repo.UserRepo    = memUsers{}
	_ repo.TripRepo    = memTrips{}
	_ repo.BookingRepo = memBookings{}
	_ repo.PaymentRepo = memPayments{}
)

// ---- testify mocks ---------------------------------------------------------

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, req domain.TripRequest) (domain.Itinerary, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.Itinerary), args.Error(1)
}

var _ itinerary.Generator = (*mockGenerator)(nil)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateOrder(ctx context.Context, amount float64, currency string) (string, error) {
	args := m.Called(ctx, amount, currency)
	return args.String(0), args.Error(1)
}

func (m *mockGateway) Verify(orderRef, providerPaymentID, signature string) error {
	return m.Called(orderRef, providerPaymentID, signature).Error(0)
}

var _ payment.Gateway = (*mockGateway)(nil)

// ---- helpers ---------------------------------------------------------------

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func day(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func goaRequest() domain.TripRequest {
	return domain.TripRequest{
		Destination: "Goa",
		StartDate:   day("2026-01-01"),
		EndDate:     day("2026-01-05"),
		Budget:      50000,
		Travelers:   2,
	}
}

// seedTrip inserts a trip owned by userID directly into the store.
func seedTrip(s *memStore, userID uuid.UUID, status domain.TripStatus) domain.Trip {
	it := domain.Itinerary{Destination: "Goa", DurationDays: 4}
	t, _ := memTrips{s}.Create(context.Background(), domain.Trip{
		UserID:      userID,
		Destination: "Goa",
		StartDate:   day("2026-01-01"),
		EndDate:     day("2026-01-05"),
		Budget:      50000,
		Travelers:   2,
		Itinerary:   &it,
		Status:      status,
	})
	return t
}

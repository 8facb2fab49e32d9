package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tripplanner/backend/internal/domain"
	"github.com/tripplanner/backend/internal/repo"
	"github.com/tripplanner/backend/testutil"
)

// newTestRepos returns every repository bound to a transaction that is rolled
// back when the test finishes, giving free per-test isolation.
func newTestRepos(t *testing.T) repo.Repos {
	t.Helper()
	return repo.NewRepos(testutil.NewTx(t))
}

// mustCreateUser inserts a user with a unique email.
func mustCreateUser(t *testing.T, r repo.Repos) domain.User {
	t.Helper()
	u, err := r.Users.Create(context.Background(), domain.User{
		Email:        uuid.NewString() + "@example.com",
		FullName:     "Test Traveller",
		PasswordHash: "$2a$10$notarealhash",
	})
	require.NoError(t, err)
	return u
}

// tripFixture returns a draft trip owned by userID.
func tripFixture(userID uuid.UUID) domain.Trip {
	weather := "Sunny"
	return domain.Trip{
		UserID:      userID,
		Destination: "Goa",
		StartDate:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		Budget:      50000,
		Travelers:   2,
		Preferences: domain.Preferences{Adventure: true},
		Itinerary: &domain.Itinerary{
			Destination:   "Goa",
			DurationDays:  4,
			EstimatedCost: 45000,
			WeatherInfo:   &weather,
			DailyPlans:    []domain.DayPlan{{Day: 1, Date: "2026-01-01", Title: "Beaches"}},
		},
		Status: domain.TripStatusDraft,
	}
}

func mustCreateTrip(t *testing.T, r repo.Repos, userID uuid.UUID) domain.Trip {
	t.Helper()
	trip, err := r.Trips.Create(context.Background(), tripFixture(userID))
	require.NoError(t, err)
	return trip
}

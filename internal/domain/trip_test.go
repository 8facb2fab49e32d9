package domain_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tripplanner/backend/internal/domain"
)

func TestTripStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to domain.TripStatus
		want     bool
	}{
		{domain.TripStatusDraft, domain.TripStatusConfirmed, true},
		{domain.TripStatusDraft, domain.TripStatusCancelled, true},
		{domain.TripStatusConfirmed, domain.TripStatusCompleted, true},
		{domain.TripStatusConfirmed, domain.TripStatusConfirmed, false},
		{domain.TripStatusConfirmed, domain.TripStatusDraft, false},
		{domain.TripStatusCompleted, domain.TripStatusConfirmed, false},
		{domain.TripStatusCancelled, domain.TripStatusDraft, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestTripStatus_Terminal(t *testing.T) {
	assert.False(t, domain.TripStatusDraft.Terminal())
	assert.False(t, domain.TripStatusConfirmed.Terminal())
	assert.True(t, domain.TripStatusCompleted.Terminal())
	assert.True(t, domain.TripStatusCancelled.Terminal())
}

func TestPreferences_Enabled_SortedNames(t *testing.T) {
	p := domain.Preferences{Vegetarian: true, Adventure: true}

	assert.Equal(t, []string{"adventure", "vegetarian"}, p.Enabled())
	assert.Empty(t, domain.Preferences{}.Enabled())
}

func TestTripRequest_Days(t *testing.T) {
	r := domain.TripRequest{
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 4, r.Days())
}

func TestTripRequest_Days_CalendarDates(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"same day", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 0},
		{"times of day ignored", time.Date(2026, 1, 1, 23, 0, 0, 0, time.UTC), time.Date(2026, 1, 2, 1, 0, 0, 0, time.UTC), 1},
		{"leap year", time.Date(2028, 2, 28, 0, 0, 0, 0, time.UTC), time.Date(2028, 3, 1, 0, 0, 0, 0, time.UTC), 2},
		{"beyond duration range", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC), 2912442},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := domain.TripRequest{StartDate: tt.start, EndDate: tt.end}
			assert.Equal(t, tt.want, r.Days())
		})
	}
}

func TestNewPaginationParams(t *testing.T) {
	intp := func(i int) *int { return &i }

	assert.Equal(t, domain.PaginationParams{Page: 1, Limit: 20}, domain.NewPaginationParams(nil, nil))
	assert.Equal(t, domain.PaginationParams{Page: 3, Limit: 100}, domain.NewPaginationParams(intp(3), intp(500)))
	assert.Equal(t, domain.PaginationParams{Page: 1, Limit: 20}, domain.NewPaginationParams(intp(0), intp(-4)))
	assert.Equal(t, 40, domain.PaginationParams{Page: 3, Limit: 20}.Offset())
}

func TestNewPaginationParams_HugePageKeepsOffsetPositive(t *testing.T) {
	page, limit := math.MaxInt64/10, 100

	p := domain.NewPaginationParams(&page, &limit)

	assert.Equal(t, domain.MaxPage, p.Page)
	assert.Positive(t, p.Offset())
}

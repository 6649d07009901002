package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingHolidays struct{}

func (failingHolidays) Holiday(time.Time) (bool, error) {
	return false, errors.New("holiday source down")
}

func TestPolicyIsClosed(t *testing.T) {
	policy := NewPolicy(time.UTC, NewUkrainianHolidays())

	tests := []struct {
		name   string
		date   time.Time
		closed bool
	}{
		{
			name:   "sunday",
			date:   time.Date(2025, 2, 16, 0, 0, 0, 0, time.UTC),
			closed: true,
		},
		{
			name:   "saturday is open",
			date:   time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC),
			closed: false,
		},
		{
			name:   "new year holiday",
			date:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			closed: true,
		},
		{
			name:   "ordinary tuesday",
			date:   time.Date(2025, 2, 11, 0, 0, 0, 0, time.UTC),
			closed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			closed, err := policy.IsClosed(tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.closed, closed)
		})
	}
}

func TestPolicyFailsClosedOnHolidayError(t *testing.T) {
	policy := NewPolicy(time.UTC, failingHolidays{})

	// Monday, not the rest day, so the provider is consulted
	closed, err := policy.IsClosed(time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.True(t, closed, "a failing holiday source must not open the day")
}

func TestPolicySlotTimes(t *testing.T) {
	policy := NewPolicy(time.UTC, NewUkrainianHolidays())

	t.Run("future date has the full grid", func(t *testing.T) {
		now := time.Date(2025, 2, 10, 18, 0, 0, 0, time.UTC)
		times := policy.SlotTimes("15.02.2025", now)
		require.Len(t, times, 11)
		assert.Equal(t, "09:00", times[0])
		assert.Equal(t, "19:00", times[len(times)-1])
	})

	t.Run("today cuts off the current hour", func(t *testing.T) {
		now := time.Date(2025, 2, 15, 12, 30, 0, 0, time.UTC)
		times := policy.SlotTimes("15.02.2025", now)
		require.NotEmpty(t, times)
		assert.Equal(t, "13:00", times[0], "12:00 falls away at 12:30")
		assert.NotContains(t, times, "12:00")
	})

	t.Run("today after closing has nothing", func(t *testing.T) {
		now := time.Date(2025, 2, 15, 19, 5, 0, 0, time.UTC)
		assert.Empty(t, policy.SlotTimes("15.02.2025", now))
	})
}

func TestUkrainianHolidaysCachesYears(t *testing.T) {
	h := NewUkrainianHolidays()

	for i := 0; i < 3; i++ {
		holiday, err := h.Holiday(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.True(t, holiday)
	}
	assert.Len(t, h.years, 1)
}

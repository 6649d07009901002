package booking

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/darynalevychkina/course-work/internal/schedule"
)

// The 15th of February 2025 is a Saturday with no national holiday.
const (
	testDate = "15.02.2025"
	testTime = "10:00"
)

func testNow() time.Time {
	return time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	policy := schedule.NewPolicy(time.UTC, schedule.NewUkrainianHolidays())
	return NewStore(policy, zap.NewNop())
}

func TestOrderID(t *testing.T) {
	id, err := OrderID(testDate, testTime, 42)
	require.NoError(t, err)
	assert.Equal(t, "20250215-1000-42", id)

	_, err = OrderID("31.13.2025", testTime, 42)
	assert.Error(t, err)
}

func TestClaimCreatesAppointment(t *testing.T) {
	store := newTestStore(t)

	appt, err := store.Claim(testDate, testTime, 42, "діагностика", testNow())
	require.NoError(t, err)

	assert.Equal(t, testDate, appt.DateKey)
	assert.Equal(t, testTime, appt.Time)
	assert.Equal(t, int64(42), appt.UserID)
	assert.Equal(t, "20250215-1000-42", appt.OrderID)
	assert.Equal(t, StatusUnbilled, appt.Status)
	assert.Zero(t, appt.Amount)

	assert.NotContains(t, store.AvailableTimes(testDate, testNow()), testTime)
	assert.Contains(t, store.AvailableTimes(testDate, testNow()), "11:00")
}

func TestClaimRejections(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Claim(testDate, testTime, 1, "діагностика", testNow())
	require.NoError(t, err)

	tests := []struct {
		name    string
		date    string
		time    string
		now     time.Time
		wantErr error
	}{
		{
			name:    "already taken",
			date:    testDate,
			time:    testTime,
			now:     testNow(),
			wantErr: ErrSlotTaken,
		},
		{
			name:    "past slot",
			date:    "10.02.2025",
			time:    "11:00",
			now:     testNow(),
			wantErr: ErrPastTime,
		},
		{
			name:    "slot equal to now counts as past",
			date:    "10.02.2025",
			time:    "12:00",
			now:     testNow(),
			wantErr: ErrPastTime,
		},
		{
			name:    "sunday",
			date:    "16.02.2025",
			time:    testTime,
			now:     testNow(),
			wantErr: ErrClosedDay,
		},
		{
			name:    "national holiday",
			date:    "01.01.2026",
			time:    testTime,
			now:     testNow(),
			wantErr: ErrClosedDay,
		},
		{
			name:    "garbage time",
			date:    testDate,
			time:    "25:99",
			now:     testNow(),
			wantErr: ErrBadSlot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Claim(tt.date, tt.time, 2, "тест", tt.now)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClaimConcurrentSingleWinner(t *testing.T) {
	store := newTestStore(t)

	const claimants = 32
	var wg sync.WaitGroup
	wins := make(chan int64, claimants)

	for i := int64(1); i <= claimants; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			if _, err := store.Claim(testDate, testTime, userID, "шиномонтаж", testNow()); err == nil {
				wins <- userID
			}
		}(i)
	}
	wg.Wait()
	close(wins)

	assert.Len(t, wins, 1, "exactly one claimant may win the slot")
	assert.Len(t, store.Schedule(testDate), 1)
}

func TestScheduleSortedByTime(t *testing.T) {
	store := newTestStore(t)

	for _, tm := range []string{"15:00", "09:00", "12:00"} {
		_, err := store.Claim(testDate, tm, 7, "заміна мастила", testNow())
		require.NoError(t, err)
	}

	items := store.Schedule(testDate)
	require.Len(t, items, 3)
	assert.Equal(t, "09:00", items[0].Time)
	assert.Equal(t, "12:00", items[1].Time)
	assert.Equal(t, "15:00", items[2].Time)
}

func TestSetAmount(t *testing.T) {
	store := newTestStore(t)

	created, err := store.Claim(testDate, testTime, 42, "діагностика", testNow())
	require.NoError(t, err)

	t.Run("sets amount and keeps the order id", func(t *testing.T) {
		appt, err := store.SetAmount(testDate, testTime, 42, 1850)
		require.NoError(t, err)
		assert.Equal(t, 1850, appt.Amount)
		assert.Equal(t, created.OrderID, appt.OrderID)
		assert.Equal(t, StatusBilled, appt.Status)
	})

	t.Run("idempotent order id on repeat", func(t *testing.T) {
		appt, err := store.SetAmount(testDate, testTime, 42, 2000)
		require.NoError(t, err)
		assert.Equal(t, 2000, appt.Amount)
		assert.Equal(t, created.OrderID, appt.OrderID)
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		_, err := store.SetAmount(testDate, testTime, 42, -5)
		assert.ErrorIs(t, err, ErrNegativeAmount)
	})

	t.Run("unknown appointment", func(t *testing.T) {
		_, err := store.SetAmount(testDate, "18:00", 42, 100)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMarkPaid(t *testing.T) {
	store := newTestStore(t)

	appt, err := store.Claim(testDate, testTime, 42, "діагностика", testNow())
	require.NoError(t, err)

	t.Run("rejected while unbilled", func(t *testing.T) {
		_, err := store.MarkPaid(appt.OrderID, "/receipts/r.txt")
		assert.ErrorIs(t, err, ErrAmountUnset)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := store.MarkPaid("20990101-0900-1", "/receipts/r.txt")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("paid after billing", func(t *testing.T) {
		_, err := store.SetAmount(testDate, testTime, 42, 1850)
		require.NoError(t, err)

		paid, err := store.MarkPaid(appt.OrderID, "/receipts/r.txt")
		require.NoError(t, err)
		assert.Equal(t, StatusPaid, paid.Status)
		assert.Equal(t, "/receipts/r.txt", paid.ReceiptPath)

		// billing again does not lose the paid status
		again, err := store.SetAmount(testDate, testTime, 42, 1850)
		require.NoError(t, err)
		assert.Equal(t, StatusPaid, again.Status)
	})
}

func TestAttachCalendarEvent(t *testing.T) {
	store := newTestStore(t)

	appt, err := store.Claim(testDate, testTime, 42, "діагностика", testNow())
	require.NoError(t, err)

	require.NoError(t, store.AttachCalendarEvent(appt.OrderID, "evt-123"))
	assert.ErrorIs(t, store.AttachCalendarEvent("nope", "evt-456"), ErrNotFound)

	found, err := store.FindByOrderID(appt.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "evt-123", found.CalendarEventID)
}

func TestFindReturnsCopies(t *testing.T) {
	store := newTestStore(t)

	appt, err := store.Claim(testDate, testTime, 42, "діагностика", testNow())
	require.NoError(t, err)

	appt.Amount = 9999
	fresh, err := store.Find(testDate, testTime, 42)
	require.NoError(t, err)
	assert.Zero(t, fresh.Amount, "mutating a returned appointment must not leak into the store")
}

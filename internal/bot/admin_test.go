package bot

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/darynalevychkina/course-work/internal/booking"
	"github.com/darynalevychkina/course-work/internal/config"
	"github.com/darynalevychkina/course-work/internal/schedule"
	"github.com/darynalevychkina/course-work/internal/users"
)

// fakeContext covers the context surface the text handlers touch. Any
// other method panics, which is what we want in a test.
type fakeContext struct {
	tele.Context
	sender *tele.User
	text   string
	sent   []string
}

func (f *fakeContext) Sender() *tele.User { return f.sender }
func (f *fakeContext) Text() string       { return f.text }
func (f *fakeContext) Send(what interface{}, _ ...interface{}) error {
	f.sent = append(f.sent, fmt.Sprint(what))
	return nil
}

const adminID int64 = 1

func newTestBot(t *testing.T) *Bot {
	t.Helper()

	policy := schedule.NewPolicy(time.UTC, schedule.NewUkrainianHolidays())
	return &Bot{
		cfg:      &config.Config{AdminUserIDs: []int64{adminID}},
		logger:   zap.NewNop(),
		policy:   policy,
		store:    booking.NewStore(policy, zap.NewNop()),
		registry: users.NewMemoryRegistry(),
		sessions: newSessionStore(),
		now:      func() time.Time { return time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC) },
	}
}

func startAmountSession(t *testing.T, b *Bot, dateKey, timeStr string, userID int64) *session {
	t.Helper()

	sess := b.sessions.reset(adminID)
	sess.step = stepAdminAmount
	sess.amountDateKey = dateKey
	sess.amountTime = timeStr
	sess.amountUserID = userID
	return sess
}

func TestAdminAmountNegativeKeepsSession(t *testing.T) {
	b := newTestBot(t)
	_, err := b.store.Claim("15.02.2025", "10:00", 42, "діагностика", b.now())
	require.NoError(t, err)

	sess := startAmountSession(t, b, "15.02.2025", "10:00", 42)

	c := &fakeContext{sender: &tele.User{ID: adminID}, text: "-5"}
	require.NoError(t, b.adminAmountEntered(c, sess))

	// the admin gets a re-prompt and stays in amount entry
	require.Len(t, c.sent, 1)
	assert.Contains(t, c.sent[0], "від'ємною")
	assert.Equal(t, stepAdminAmount, b.sessions.get(adminID).step)

	// the appointment is untouched
	appt, err := b.store.Find("15.02.2025", "10:00", 42)
	require.NoError(t, err)
	assert.Equal(t, 0, appt.Amount)
	assert.Equal(t, booking.StatusUnbilled, appt.Status)
}

func TestAdminAmountNotNumericKeepsSession(t *testing.T) {
	b := newTestBot(t)
	_, err := b.store.Claim("15.02.2025", "10:00", 42, "діагностика", b.now())
	require.NoError(t, err)

	sess := startAmountSession(t, b, "15.02.2025", "10:00", 42)

	c := &fakeContext{sender: &tele.User{ID: adminID}, text: "багато"}
	require.NoError(t, b.adminAmountEntered(c, sess))

	require.Len(t, c.sent, 1)
	assert.Contains(t, c.sent[0], "Введи число")
	assert.Equal(t, stepAdminAmount, b.sessions.get(adminID).step)
}

func TestAdminAmountMissingAppointmentAborts(t *testing.T) {
	b := newTestBot(t)
	sess := startAmountSession(t, b, "15.02.2025", "10:00", 42)

	c := &fakeContext{sender: &tele.User{ID: adminID}, text: "1850"}
	require.NoError(t, b.adminAmountEntered(c, sess))

	require.Len(t, c.sent, 1)
	assert.Contains(t, c.sent[0], "не знайдено")
	assert.Equal(t, stepIdle, b.sessions.get(adminID).step)
}

func TestHandleTextAdminFallback(t *testing.T) {
	b := newTestBot(t)

	t.Run("stray admin text gets the admin menu", func(t *testing.T) {
		c := &fakeContext{sender: &tele.User{ID: adminID}, text: "що тут робити"}
		require.NoError(t, b.handleText(c))
		require.Len(t, c.sent, 1)
		assert.Contains(t, c.sent[0], "Адмін-меню")
	})

	t.Run("car-ready phrasing gets the hint", func(t *testing.T) {
		c := &fakeContext{sender: &tele.User{ID: adminID}, text: "авто готове"}
		require.NoError(t, b.handleText(c))
		require.Len(t, c.sent, 1)
		assert.Contains(t, c.sent[0], "Авто готове")
	})

	t.Run("non-admin stray text is ignored", func(t *testing.T) {
		c := &fakeContext{sender: &tele.User{ID: 2}, text: "що тут робити"}
		require.NoError(t, b.handleText(c))
		assert.Empty(t, c.sent)
	})
}

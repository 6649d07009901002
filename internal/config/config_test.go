package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:token")
	t.Setenv("AUTO_DEV_API_KEY", "autodev-key")
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ADMIN_IDS", "100, 200,300")
	t.Setenv("GOOGLE_CALENDAR_ID", "abc123@group.calendar.google.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "123:token", cfg.BotToken)
	assert.Equal(t, "Europe/Kyiv", cfg.Timezone)
	assert.Equal(t, []int64{100, 200, 300}, cfg.AdminUserIDs)
	assert.Equal(t, "abc123@group.calendar.google.com", cfg.GoogleCalendarID)

	assert.True(t, cfg.IsAdmin(200))
	assert.False(t, cfg.IsAdmin(400))

	// no plate API key means the lookup runs in mock mode
	assert.True(t, cfg.BazaGAIMock)
}

func TestLoadMissingBotToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("AUTO_DEV_API_KEY", "autodev-key")

	_, err := Load()
	assert.ErrorContains(t, err, "BOT_TOKEN")
}

func TestLoadMissingAutoDevKey(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:token")
	t.Setenv("AUTO_DEV_API_KEY", "")

	_, err := Load()
	assert.ErrorContains(t, err, "AUTO_DEV_API_KEY")
}

func TestLoadBadAdminID(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ADMIN_IDS", "100,abc")

	_, err := Load()
	assert.ErrorContains(t, err, "invalid admin user ID")
}

func TestNormalizeCalendarID(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bare id",
			raw:  "abc123@group.calendar.google.com",
			want: "abc123@group.calendar.google.com",
		},
		{
			name: "gmail id",
			raw:  "someone@gmail.com",
			want: "someone@gmail.com",
		},
		{
			name: "sharing url with cid param",
			raw:  "https://calendar.google.com/calendar/u/0?cid=abc123%40group.calendar.google.com",
			want: "abc123@group.calendar.google.com",
		},
		{
			name: "embed url with src param",
			raw:  "https://calendar.google.com/calendar/embed?src=abc123%40group.calendar.google.com&ctz=Europe%2FKyiv",
			want: "abc123@group.calendar.google.com",
		},
		{
			name: "ical url",
			raw:  "https://calendar.google.com/calendar/ical/abc123%40group.calendar.google.com/private-xyz/basic.ics",
			want: "abc123@group.calendar.google.com",
		},
		{
			name: "double encoded src",
			raw:  "https://calendar.google.com/calendar/embed?src=abc123%2540group.calendar.google.com",
			want: "abc123@group.calendar.google.com",
		},
		{
			name: "surrounding whitespace",
			raw:  "  abc123@group.calendar.google.com  ",
			want: "abc123@group.calendar.google.com",
		},
		{
			name: "empty",
			raw:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCalendarID(tt.raw))
		})
	}
}

// Package config handles application configuration loading and validation
package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	BotToken      string `env:"BOT_TOKEN"`
	AutoDevAPIKey string `env:"AUTO_DEV_API_KEY"`
	AdminIDsRaw   string `env:"ADMIN_IDS"`
	Timezone      string `env:"TIMEZONE" envDefault:"Europe/Kyiv"`
	ReceiptsDir   string `env:"RECEIPTS_DIR" envDefault:"./receipts"`

	// Optional sqlite path for the user registry. Empty keeps users in memory.
	UsersDBPath string `env:"USERS_DB_PATH"`

	BazaGAIAPIKey  string `env:"BAZAGAI_API_KEY"`
	BazaGAIMock    bool   `env:"BAZAGAI_MOCK"`
	BazaGAITimeout int    `env:"BAZAGAI_TIMEOUT" envDefault:"10"`

	GoogleServiceAccountFile string `env:"GOOGLE_SERVICE_ACCOUNT_FILE"`
	GoogleCalendarIDRaw      string `env:"GOOGLE_CALENDAR_ID"`

	RouteURL string `env:"ROUTE_URL"`
	Debug    bool   `env:"BOT_DEBUG"`

	AdminUserIDs     []int64 `env:"-"`
	GoogleCalendarID string  `env:"-"`
}

// Load reads configuration from the environment (and .env if present).
// It returns an error if required configuration is missing or invalid.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.AutoDevAPIKey == "" {
		return nil, fmt.Errorf("AUTO_DEV_API_KEY is required")
	}

	if cfg.BazaGAIAPIKey == "" {
		cfg.BazaGAIMock = true
	}

	// Parse admin user IDs
	if cfg.AdminIDsRaw != "" {
		ids := strings.Split(cfg.AdminIDsRaw, ",")
		cfg.AdminUserIDs = make([]int64, 0, len(ids))
		for _, idStr := range ids {
			idStr = strings.TrimSpace(idStr)
			if idStr == "" {
				continue
			}
			id, err := strconv.ParseInt(idStr, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid admin user ID: %s: %w", idStr, err)
			}
			cfg.AdminUserIDs = append(cfg.AdminUserIDs, id)
		}
	}

	cfg.GoogleCalendarID = NormalizeCalendarID(cfg.GoogleCalendarIDRaw)

	return cfg, nil
}

// IsAdmin checks if the given user ID is an admin
func (c *Config) IsAdmin(userID int64) bool {
	for _, adminID := range c.AdminUserIDs {
		if adminID == userID {
			return true
		}
	}
	return false
}

var (
	groupCalendarRe = regexp.MustCompile(`[A-Za-z0-9._+-]+@group\.calendar\.google\.com`)
	gmailRe         = regexp.MustCompile(`[A-Za-z0-9._%+-]+@gmail\.com`)
)

// NormalizeCalendarID extracts a calendar ID from whatever the operator
// pasted into GOOGLE_CALENDAR_ID: a bare ID, a sharing URL or an iCal URL.
func NormalizeCalendarID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		if u, err := url.Parse(raw); err == nil {
			if src := u.Query().Get("src"); src != "" {
				raw = src
			} else {
				parts := strings.Split(u.Path, "/")
				for i, p := range parts {
					if p == "ical" && i+1 < len(parts) {
						raw = parts[i+1]
						break
					}
				}
			}
		}
	}

	// Sharing URLs double-encode the ID
	for i := 0; i < 2; i++ {
		dec, err := url.QueryUnescape(raw)
		if err != nil || dec == raw {
			break
		}
		raw = dec
	}
	raw = strings.TrimSpace(raw)

	if m := groupCalendarRe.FindString(raw); m != "" {
		return m
	}
	if m := gmailRe.FindString(raw); m != "" {
		return m
	}
	return raw
}

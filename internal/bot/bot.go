// Package bot contains the Telegram bot implementation
package bot

import (
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/darynalevychkina/course-work/internal/booking"
	"github.com/darynalevychkina/course-work/internal/calendar"
	"github.com/darynalevychkina/course-work/internal/config"
	"github.com/darynalevychkina/course-work/internal/receipts"
	"github.com/darynalevychkina/course-work/internal/schedule"
	"github.com/darynalevychkina/course-work/internal/users"
	"github.com/darynalevychkina/course-work/internal/vehicle"
)

// Bot wires the Telegram transport to the booking core and the
// collaborators. The calendar may be nil when not configured; every use
// checks for that and degrades.
type Bot struct {
	tg       *tele.Bot
	cfg      *config.Config
	logger   *zap.Logger
	policy   *schedule.Policy
	store    *booking.Store
	registry users.Registry
	verifier *vehicle.Verifier
	plates   *vehicle.PlateClient
	receipts *receipts.Store
	calendar *calendar.Service
	sessions *sessionStore

	now func() time.Time
}

// Deps carries everything the bot needs.
type Deps struct {
	Config   *config.Config
	Logger   *zap.Logger
	Policy   *schedule.Policy
	Store    *booking.Store
	Registry users.Registry
	Verifier *vehicle.Verifier
	Plates   *vehicle.PlateClient
	Receipts *receipts.Store
	Calendar *calendar.Service
}

// New creates a new bot instance with a long poller.
func New(d Deps) (*Bot, error) {
	pref := tele.Settings{
		Token:  d.Config.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	tg, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		tg:       tg,
		cfg:      d.Config,
		logger:   d.Logger,
		policy:   d.Policy,
		store:    d.Store,
		registry: d.Registry,
		verifier: d.Verifier,
		plates:   d.Plates,
		receipts: d.Receipts,
		calendar: d.Calendar,
		sessions: newSessionStore(),
		now:      func() time.Time { return time.Now().In(d.Policy.Location()) },
	}

	b.setupHandlers()
	return b, nil
}

// setupHandlers registers all command, text and callback handlers
func (b *Bot) setupHandlers() {
	b.tg.Handle("/start", b.handleStart)
	b.tg.Handle(tele.OnText, b.handleText)
	b.tg.Handle(tele.OnContact, b.handleContact)
	b.tg.Handle(tele.OnCallback, b.handleCallback)
}

// Start begins long polling (blocks until Stop)
func (b *Bot) Start() {
	b.logger.Info("bot started")
	b.tg.Start()
}

// Stop gracefully stops the bot
func (b *Bot) Stop() {
	b.tg.Stop()
	b.logger.Info("bot stopped")
}

func (b *Bot) isAdmin(userID int64) bool {
	return b.cfg.IsAdmin(userID)
}

func (b *Bot) isRegistered(userID int64) bool {
	return b.registry.Exists(userID)
}

func (b *Bot) mainMenuFor(userID int64) *tele.ReplyMarkup {
	return mainMenu(b.isRegistered(userID), b.isAdmin(userID))
}

func formatUserID(id int64) string {
	return strconv.FormatInt(id, 10)
}

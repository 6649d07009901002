// Package main is the entry point for the Telegram bot application
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/darynalevychkina/course-work/internal/bot"
	"github.com/darynalevychkina/course-work/internal/booking"
	"github.com/darynalevychkina/course-work/internal/calendar"
	"github.com/darynalevychkina/course-work/internal/config"
	"github.com/darynalevychkina/course-work/internal/receipts"
	"github.com/darynalevychkina/course-work/internal/schedule"
	"github.com/darynalevychkina/course-work/internal/users"
	"github.com/darynalevychkina/course-work/internal/vehicle"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	logger.Info("configuration loaded",
		zap.String("timezone", cfg.Timezone),
		zap.Int("admins", len(cfg.AdminUserIDs)),
		zap.Bool("bazagai_mock", cfg.BazaGAIMock))

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatal("invalid timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	policy := schedule.NewPolicy(loc, schedule.NewUkrainianHolidays())
	store := booking.NewStore(policy, logger)

	registry, cleanup, err := buildRegistry(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize user registry", zap.Error(err))
	}
	defer cleanup()

	receiptStore, err := receipts.NewStore(cfg.ReceiptsDir, logger)
	if err != nil {
		logger.Fatal("failed to initialize receipt store", zap.Error(err))
	}

	verifier := vehicle.NewVerifier(
		vehicle.NewAutoDevClient(cfg.AutoDevAPIKey, logger),
		vehicle.NewVPICClient(logger),
		logger,
	)
	plates := vehicle.NewPlateClient(cfg.BazaGAIAPIKey, cfg.BazaGAIMock, cfg.BazaGAITimeout, logger)

	cal := buildCalendar(cfg, logger)

	telegramBot, err := bot.New(bot.Deps{
		Config:   cfg,
		Logger:   logger,
		Policy:   policy,
		Store:    store,
		Registry: registry,
		Verifier: verifier,
		Plates:   plates,
		Receipts: receiptStore,
		Calendar: cal,
	})
	if err != nil {
		logger.Fatal("failed to create bot", zap.Error(err))
	}

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		logger.Info("shutting down bot")
		telegramBot.Stop()
	}()

	telegramBot.Start()
}

func buildRegistry(cfg *config.Config, logger *zap.Logger) (users.Registry, func(), error) {
	if cfg.UsersDBPath == "" {
		logger.Info("user registry: in-memory")
		return users.NewMemoryRegistry(), func() {}, nil
	}

	reg, err := users.NewSQLiteRegistry(cfg.UsersDBPath, cfg.Debug)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("user registry: sqlite", zap.String("path", cfg.UsersDBPath))
	return reg, func() {
		if err := reg.Close(); err != nil {
			logger.Warn("users db close failed", zap.Error(err))
		}
	}, nil
}

// buildCalendar initializes the Google Calendar mirror when configured.
// Any failure here disables the mirror; bookings work without it.
func buildCalendar(cfg *config.Config, logger *zap.Logger) *calendar.Service {
	if cfg.GoogleServiceAccountFile == "" || cfg.GoogleCalendarID == "" {
		logger.Warn("google calendar not configured, events will not be mirrored")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cal, err := calendar.NewService(ctx, cfg.GoogleServiceAccountFile, cfg.GoogleCalendarID, logger)
	if err != nil {
		logger.Error("google calendar init failed", zap.Error(err))
		return nil
	}

	if visible, err := cal.ListVisible(ctx); err == nil {
		if len(visible) == 0 {
			logger.Warn("service account sees no calendars")
		}
		for _, v := range visible {
			logger.Info("calendar visible", zap.String("calendar", v))
		}
	}

	if !cal.CanAccess(ctx) {
		logger.Error("service account has no access to the configured calendar; " +
			"share the calendar with the service account email (Make changes to events)")
		return nil
	}

	logger.Info("google calendar ready", zap.String("calendar", cfg.GoogleCalendarID))
	return cal
}

// Package calendar mirrors committed bookings into Google Calendar.
// Everything here is best-effort: the ledger is the authoritative record
// and a calendar failure never rolls a booking back.
package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// EventDetails carries everything an order event shows.
type EventDetails struct {
	OrderID      string
	Start        time.Time
	End          time.Time
	CustomerName string
	Phone        string
	VIN          string
	VehicleLine  string
	Reason       string
}

// Service wraps the Calendar API for a single calendar.
type Service struct {
	svc        *gcal.Service
	calendarID string
	logger     *zap.Logger
}

// NewService builds a client from a service-account credentials file.
func NewService(ctx context.Context, credentialsFile, calendarID string, logger *zap.Logger) (*Service, error) {
	svc, err := gcal.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gcal.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("calendar client: %w", err)
	}
	return &Service{svc: svc, calendarID: calendarID, logger: logger}, nil
}

// CanAccess probes whether the service account can see the calendar.
func (s *Service) CanAccess(ctx context.Context) bool {
	_, err := s.svc.Calendars.Get(s.calendarID).Context(ctx).Do()
	if err != nil {
		s.logger.Error("calendar access check failed",
			zap.String("calendar", s.calendarID),
			zap.Error(err))
		return false
	}
	return true
}

// ListVisible returns the calendars the service account can read,
// useful at startup to diagnose sharing problems.
func (s *Service) ListVisible(ctx context.Context) ([]string, error) {
	var out []string
	pageToken := ""
	for {
		call := s.svc.CalendarList.List().MinAccessRole("reader")
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("calendar list: %w", err)
		}
		for _, item := range resp.Items {
			out = append(out, fmt.Sprintf("%s (%s)", item.Summary, item.Id))
		}
		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return out, nil
}

// CreateEventForOrder inserts a one-hour event tagged with the order ID
// via a private extended property, so the event can be found again by
// order alone.
func (s *Service) CreateEventForOrder(ctx context.Context, d EventDetails) (string, error) {
	event := &gcal.Event{
		Summary:     fmt.Sprintf("СТО: %s — %s", orDefault(d.CustomerName, "Клієнт"), orDefault(d.Reason, "візит")),
		Description: eventDescription(d),
		Start:       &gcal.EventDateTime{DateTime: d.Start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: d.End.Format(time.RFC3339)},
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{"order_id": d.OrderID},
		},
	}

	created, err := s.svc.Events.Insert(s.calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("calendar insert: %w", err)
	}
	return created.Id, nil
}

// EnsureOrderID re-tags an event whose order_id property is missing or
// stale. Idempotent.
func (s *Service) EnsureOrderID(ctx context.Context, eventID, orderID string) error {
	ev, err := s.svc.Events.Get(s.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("calendar get: %w", err)
	}

	if ev.ExtendedProperties != nil && ev.ExtendedProperties.Private["order_id"] == orderID {
		return nil
	}

	patch := &gcal.Event{
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{"order_id": orderID},
		},
	}
	if _, err := s.svc.Events.Patch(s.calendarID, eventID, patch).Context(ctx).Do(); err != nil {
		return fmt.Errorf("calendar patch: %w", err)
	}
	return nil
}

// AppendReceiptLink adds the receipt location to the event description
// once, after a successful payment.
func (s *Service) AppendReceiptLink(ctx context.Context, eventID, receiptURL string) error {
	if receiptURL == "" {
		return nil
	}
	ev, err := s.svc.Events.Get(s.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("calendar get: %w", err)
	}
	if strings.Contains(ev.Description, receiptURL) {
		return nil
	}

	patch := &gcal.Event{
		Description: strings.TrimSpace(ev.Description + "\nКвитанція: " + receiptURL),
	}
	if _, err := s.svc.Events.Patch(s.calendarID, eventID, patch).Context(ctx).Do(); err != nil {
		return fmt.Errorf("calendar patch: %w", err)
	}
	return nil
}

func eventDescription(d EventDetails) string {
	phone := "—"
	if d.Phone != "" {
		phone = "+38" + d.Phone
	}
	lines := []string{
		"Замовлення: #" + d.OrderID,
		"Клієнт: " + orDefault(d.CustomerName, "—"),
		"Телефон: " + phone,
		"VIN: " + orDefault(d.VIN, "—"),
		"Авто: " + orDefault(d.VehicleLine, "—"),
		"Причина: " + orDefault(d.Reason, "—"),
	}
	return strings.Join(lines, "\n")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

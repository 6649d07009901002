// Package booking owns the slot ledger and the appointment lifecycle.
package booking

import (
	"fmt"
	"time"

	"github.com/darynalevychkina/course-work/internal/schedule"
)

// BillingStatus tracks where an appointment is in the billing flow.
type BillingStatus string

const (
	// StatusUnbilled means the admin has not set an amount yet.
	StatusUnbilled BillingStatus = "unbilled"
	// StatusBilled means an amount is set and the customer was (or is
	// about to be) asked to pay.
	StatusBilled BillingStatus = "billed"
	// StatusPaid means a receipt has been produced for the order.
	StatusPaid BillingStatus = "paid"
)

// Appointment is a committed booking and its billing state.
type Appointment struct {
	DateKey string
	Time    string
	UserID  int64
	Reason  string

	OrderID string
	// Amount due in UAH. Zero until the admin bills the order.
	Amount          int
	Status          BillingStatus
	CalendarEventID string
	ReceiptPath     string
}

// OrderID derives the stable order identifier for a slot and user:
// YYYYMMDD-HHMM-<user id>. Uniqueness follows from the no-double-booking
// invariant on (date, time).
func OrderID(dateKey, timeStr string, userID int64) (string, error) {
	slot, err := schedule.ParseSlot(dateKey, timeStr, time.UTC)
	if err != nil {
		return "", fmt.Errorf("derive order id: %w", err)
	}
	return fmt.Sprintf("%s-%d", slot.Format("20060102-1504"), userID), nil
}

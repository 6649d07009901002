package booking

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/darynalevychkina/course-work/internal/schedule"
)

// Store is the authoritative in-memory record of taken slots and
// appointments. All state lives behind one mutex: a claim marks the slot
// taken and creates the appointment as a single step, so no reader ever
// observes one without the other. Collaborator calls (calendar, receipts,
// messaging) must happen outside the store, after the mutating call
// returns.
type Store struct {
	mu     sync.Mutex
	policy *schedule.Policy
	logger *zap.Logger

	// date key -> set of taken slot times
	taken map[string]map[string]bool
	// date key -> appointments in insertion order
	appointments map[string][]*Appointment
}

// NewStore creates an empty store bound to the calendar-day policy.
func NewStore(policy *schedule.Policy, logger *zap.Logger) *Store {
	return &Store{
		policy:       policy,
		logger:       logger,
		taken:        make(map[string]map[string]bool),
		appointments: make(map[string][]*Appointment),
	}
}

// AvailableTimes returns the free business-hour slots for the date in
// ascending order: policy slots minus taken slots minus today's past hours.
func (s *Store) AvailableTimes(dateKey string, now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	taken := s.taken[dateKey]
	times := make([]string, 0, schedule.LastHour-schedule.OpenHour+1)
	for _, t := range s.policy.SlotTimes(dateKey, now) {
		if !taken[t] {
			times = append(times, t)
		}
	}
	return times
}

// Claim atomically takes the slot and creates its appointment. Every
// precondition is re-checked at claim time regardless of earlier
// availability renders: the clock and the ledger both move between steps.
// Exactly one concurrent claimant for a slot succeeds.
func (s *Store) Claim(dateKey, timeStr string, userID int64, reason string, now time.Time) (*Appointment, error) {
	slot, err := schedule.ParseSlot(dateKey, timeStr, s.policy.Location())
	if err != nil {
		return nil, ErrBadSlot
	}
	if !slot.After(now.In(s.policy.Location())) {
		return nil, ErrPastTime
	}
	closed, err := s.policy.IsClosed(slot)
	if err != nil {
		return nil, err
	}
	if closed {
		return nil, ErrClosedDay
	}

	orderID, err := OrderID(dateKey, timeStr, userID)
	if err != nil {
		return nil, ErrBadSlot
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	taken, ok := s.taken[dateKey]
	if !ok {
		taken = make(map[string]bool)
		s.taken[dateKey] = taken
	}
	if taken[timeStr] {
		return nil, ErrSlotTaken
	}

	appt := &Appointment{
		DateKey: dateKey,
		Time:    timeStr,
		UserID:  userID,
		Reason:  reason,
		OrderID: orderID,
		Status:  StatusUnbilled,
	}
	taken[timeStr] = true
	s.appointments[dateKey] = append(s.appointments[dateKey], appt)

	s.logger.Info("slot claimed",
		zap.String("date", dateKey),
		zap.String("time", timeStr),
		zap.Int64("user", userID),
		zap.String("order", orderID))

	return copyOf(appt), nil
}

// Schedule returns the date's appointments sorted by time ascending.
func (s *Store) Schedule(dateKey string) []*Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.appointments[dateKey]
	out := make([]*Appointment, 0, len(items))
	for _, a := range items {
		out = append(out, copyOf(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// Find locates an appointment by (date, time, user). Linear scan: the
// per-date list is a single shop's daily volume.
func (s *Store) Find(dateKey, timeStr string, userID int64) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.find(dateKey, timeStr, userID)
	if a == nil {
		return nil, ErrNotFound
	}
	return copyOf(a), nil
}

// FindByOrderID locates an appointment by its order identifier.
func (s *Store) FindByOrderID(orderID string) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.findByOrder(orderID)
	if a == nil {
		return nil, ErrNotFound
	}
	return copyOf(a), nil
}

// SetAmount sets the amount due on an appointment and moves it to Billed.
// The order ID is derived if somehow absent and never changes once set,
// so repeated calls are idempotent with respect to the identifier.
func (s *Store) SetAmount(dateKey, timeStr string, userID int64, amount int) (*Appointment, error) {
	if amount < 0 {
		return nil, ErrNegativeAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.find(dateKey, timeStr, userID)
	if a == nil {
		return nil, ErrNotFound
	}

	a.Amount = amount
	if a.OrderID == "" {
		orderID, err := OrderID(dateKey, timeStr, userID)
		if err != nil {
			return nil, err
		}
		a.OrderID = orderID
	}
	if a.Status != StatusPaid {
		a.Status = StatusBilled
	}

	s.logger.Info("amount set",
		zap.String("order", a.OrderID),
		zap.Int("amount", amount))

	return copyOf(a), nil
}

// AttachCalendarEvent links the external calendar event to the order.
// Best-effort by contract: callers ignore ErrNotFound beyond logging.
func (s *Store) AttachCalendarEvent(orderID, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.findByOrder(orderID)
	if a == nil {
		return ErrNotFound
	}
	a.CalendarEventID = eventID
	return nil
}

// MarkPaid records the produced receipt on the order. It requires an
// amount to have been set: a receipt for an unbilled order is a bug.
func (s *Store) MarkPaid(orderID, receiptPath string) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.findByOrder(orderID)
	if a == nil {
		return nil, ErrNotFound
	}
	if a.Amount <= 0 {
		return nil, ErrAmountUnset
	}
	a.Status = StatusPaid
	a.ReceiptPath = receiptPath

	s.logger.Info("order paid",
		zap.String("order", orderID),
		zap.String("receipt", receiptPath))

	return copyOf(a), nil
}

func (s *Store) find(dateKey, timeStr string, userID int64) *Appointment {
	for _, a := range s.appointments[dateKey] {
		if a.Time == timeStr && a.UserID == userID {
			return a
		}
	}
	return nil
}

func (s *Store) findByOrder(orderID string) *Appointment {
	for _, items := range s.appointments {
		for _, a := range items {
			if a.OrderID == orderID {
				return a
			}
		}
	}
	return nil
}

func copyOf(a *Appointment) *Appointment {
	c := *a
	return &c
}

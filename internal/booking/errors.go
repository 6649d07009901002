package booking

import "errors"

var (
	// ErrBadSlot means the date or time could not be parsed.
	ErrBadSlot = errors.New("booking: invalid date or time")
	// ErrPastTime means the slot's moment is not in the future.
	ErrPastTime = errors.New("booking: slot time already passed")
	// ErrClosedDay means the day is closed per the calendar-day policy.
	ErrClosedDay = errors.New("booking: day is closed")
	// ErrSlotTaken means another appointment already holds the slot.
	ErrSlotTaken = errors.New("booking: slot already taken")
	// ErrNotFound means no appointment matches the lookup.
	ErrNotFound = errors.New("booking: appointment not found")
	// ErrAmountUnset means payment was attempted before the admin set an amount.
	ErrAmountUnset = errors.New("booking: amount not set")
	// ErrNegativeAmount rejects a negative amount assignment.
	ErrNegativeAmount = errors.New("booking: amount must not be negative")
)

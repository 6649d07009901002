package schedule

import (
	"fmt"
	"sync"
	"time"

	"github.com/rickar/cal/v2/ua"
)

// Business hours: one-hour slots starting at each hour in [OpenHour, LastHour].
const (
	OpenHour = 9
	LastHour = 19
)

// RestDay is the fixed weekly day off.
const RestDay = time.Sunday

// HolidayProvider reports whether a date is a national holiday.
// An error means the holiday list could not be determined; the policy
// treats that as "closed" rather than silently opening the day.
type HolidayProvider interface {
	Holiday(date time.Time) (bool, error)
}

// Policy decides whether a date is open for business and which hour
// slots exist on it.
type Policy struct {
	loc      *time.Location
	holidays HolidayProvider
}

// NewPolicy creates a policy for the shop's timezone with the given
// holiday source.
func NewPolicy(loc *time.Location, holidays HolidayProvider) *Policy {
	return &Policy{loc: loc, holidays: holidays}
}

// Location returns the shop's timezone.
func (p *Policy) Location() *time.Location {
	return p.loc
}

// IsClosed reports whether the date falls on the rest day or a national
// holiday. Fails closed: a holiday-provider error makes the day closed.
func (p *Policy) IsClosed(date time.Time) (bool, error) {
	if date.Weekday() == RestDay {
		return true, nil
	}
	holiday, err := p.holidays.Holiday(date)
	if err != nil {
		return true, fmt.Errorf("holiday lookup for %s: %w", date.Format(DateKeyLayout), err)
	}
	return holiday, nil
}

// SlotTimes returns the business-hour slot times for the date key in
// ascending order. When the date is today, hours at or before the current
// hour are cut off. Taken slots are not this policy's concern.
func (p *Policy) SlotTimes(dateKey string, now time.Time) []string {
	now = now.In(p.loc)
	today := now.Format(DateKeyLayout)

	times := make([]string, 0, LastHour-OpenHour+1)
	for h := OpenHour; h <= LastHour; h++ {
		if dateKey == today && h <= now.Hour() {
			continue
		}
		times = append(times, fmt.Sprintf("%02d:00", h))
	}
	return times
}

// UkrainianHolidays computes the national holiday calendar per year and
// caches it. Computation is local, so Holiday never returns an error.
type UkrainianHolidays struct {
	mu    sync.Mutex
	years map[int]map[string]bool
}

// NewUkrainianHolidays creates an empty per-year holiday cache.
func NewUkrainianHolidays() *UkrainianHolidays {
	return &UkrainianHolidays{years: make(map[int]map[string]bool)}
}

// Holiday reports whether the date is a Ukrainian national holiday.
func (u *UkrainianHolidays) Holiday(date time.Time) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	year := date.Year()
	set, ok := u.years[year]
	if !ok {
		set = computeHolidays(year)
		u.years[year] = set
	}
	return set[date.Format(DateKeyLayout)], nil
}

func computeHolidays(year int) map[string]bool {
	set := make(map[string]bool)
	add := func(t time.Time) {
		if !t.IsZero() {
			set[t.Format(DateKeyLayout)] = true
		}
	}
	for _, h := range ua.Holidays {
		actual, observed := h.Calc(year)
		add(actual)
		add(observed)
	}
	return set
}

var _ HolidayProvider = (*UkrainianHolidays)(nil)

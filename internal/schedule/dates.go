// Package schedule decides which days and hours are open for booking.
package schedule

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateKeyLayout is the canonical form every date is normalized to before
// it touches the ledger.
const DateKeyLayout = "02.01.2006"

// TimeLayout is the slot time format ("09:00", "10:00", ...).
const TimeLayout = "15:04"

var (
	shortDateRe = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})$`)
	fullDateRe  = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{2}|\d{4})$`)
)

// NormalizeDate parses free-text user input ("15.02", "15.02.25",
// "15.02.2025", "/" accepted as separator) into a canonical date key.
// A short form without a year gets the current year. Returns false for
// anything unparseable or not a real calendar date.
func NormalizeDate(text string, now time.Time) (string, bool) {
	text = strings.ReplaceAll(strings.TrimSpace(text), "/", ".")
	if text == "" {
		return "", false
	}

	if m := shortDateRe.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		return buildDateKey(day, month, now.Year())
	}

	if m := fullDateRe.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		return buildDateKey(day, month, year)
	}

	return "", false
}

func buildDateKey(day, month, year int) (string, bool) {
	if month < 1 || month > 12 || day < 1 {
		return "", false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (32.01 -> 01.02), which means the
	// input was not a real date.
	if d.Day() != day || d.Month() != time.Month(month) || d.Year() != year {
		return "", false
	}
	return d.Format(DateKeyLayout), true
}

// ParseDateKey converts a canonical date key back to a time in loc.
func ParseDateKey(dateKey string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateKeyLayout, dateKey, loc)
}

// ParseSlot combines a date key and a slot time into a concrete moment in loc.
func ParseSlot(dateKey, timeStr string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateKeyLayout+" "+TimeLayout, dateKey+" "+timeStr, loc)
}

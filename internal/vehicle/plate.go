package vehicle

import (
	"regexp"
	"strings"
)

// Two letters, four digits, two letters. Both Latin and the extended
// Cyrillic set (І, Ї, Є) are accepted as entered.
var plateRe = regexp.MustCompile(`^[A-ZА-ЯІЇЄ]{2}[0-9]{4}[A-ZА-ЯІЇЄ]{2}$`)

var plateStrip = strings.NewReplacer(" ", "", "\t", "", "-", "", "–", "", "—", "")

// NormalizePlate uppercases a plate and strips whitespace and dashes.
func NormalizePlate(s string) string {
	return plateStrip.Replace(strings.ToUpper(strings.TrimSpace(s)))
}

// ValidPlateFormat reports whether the normalized plate matches the
// national format. Format validity says nothing about existence; that is
// entirely the registry's call.
func ValidPlateFormat(s string) bool {
	return plateRe.MatchString(NormalizePlate(s))
}

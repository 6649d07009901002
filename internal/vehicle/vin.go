// Package vehicle validates vehicle identifiers and talks to the
// external vehicle registries.
package vehicle

import (
	"regexp"
	"strings"
)

// 17 characters, letters I, O and Q excluded per ISO 3779.
var vinRe = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)

// ISO 3779 transliteration values. Digits map to themselves.
var vinTranslit = map[byte]int{
	'0': 0, '1': 1, '2': 2, '3': 3, '4': 4,
	'5': 5, '6': 6, '7': 7, '8': 8, '9': 9,
	'A': 1, 'B': 2, 'C': 3, 'D': 4, 'E': 5,
	'F': 6, 'G': 7, 'H': 8, 'J': 1, 'K': 2,
	'L': 3, 'M': 4, 'N': 5, 'P': 7, 'R': 9,
	'S': 2, 'T': 3, 'U': 4, 'V': 5, 'W': 6,
	'X': 7, 'Y': 8, 'Z': 9,
}

// Positional weights; position 9 (the check digit itself) weighs zero.
var vinWeights = [17]int{8, 7, 6, 5, 4, 3, 2, 10, 0, 9, 8, 7, 6, 5, 4, 3, 2}

// NormalizeVIN uppercases and trims a user-entered VIN.
func NormalizeVIN(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidVINFormat reports whether the VIN has the right length and alphabet.
func ValidVINFormat(vin string) bool {
	return vinRe.MatchString(NormalizeVIN(vin))
}

// VINChecksumOK verifies the ISO 3779 check digit: transliterated
// characters weighted, summed, reduced mod 11; remainder 10 is written
// as the literal X at position 9. Pure and local — must pass before any
// registry lookup is attempted.
func VINChecksumOK(vin string) bool {
	vin = NormalizeVIN(vin)
	if len(vin) != 17 {
		return false
	}

	total := 0
	for i := 0; i < 17; i++ {
		v, ok := vinTranslit[vin[i]]
		if !ok {
			return false
		}
		total += v * vinWeights[i]
	}

	check := total % 11
	expected := byte('0' + check)
	if check == 10 {
		expected = 'X'
	}
	return vin[8] == expected
}

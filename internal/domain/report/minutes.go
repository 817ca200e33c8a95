package report

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	MinMinutes = 0
	MaxMinutes = 24 * 60
)

var ErrInvalidMinutes = errors.New("minutes must be an integer between 0 and 1440")

// ParseMinutes validates the free-text minutes field of the report form.
// Any spelling of a whole number is accepted: "90", "90.0", "1e2" and the
// unsigned 0x/0o/0b forms. Fractions, infinities and NaN are not.
func ParseMinutes(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ErrInvalidMinutes
	}

	v, prefixed, err := parseRadixPrefixed(s)
	if err != nil {
		return 0, ErrInvalidMinutes
	}
	if !prefixed {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
			return 0, ErrInvalidMinutes
		}
		v = f
	}

	if v < MinMinutes || v > MaxMinutes {
		return 0, ErrInvalidMinutes
	}
	return int(v), nil
}

// parseRadixPrefixed handles 0x, 0o and 0b integers. Signs and digit
// separators are not allowed there.
func parseRadixPrefixed(s string) (float64, bool, error) {
	if len(s) < 2 || s[0] != '0' {
		return 0, false, nil
	}
	var base int
	switch s[1] {
	case 'x', 'X':
		base = 16
	case 'o', 'O':
		base = 8
	case 'b', 'B':
		base = 2
	default:
		return 0, false, nil
	}
	n, err := strconv.ParseUint(s[2:], base, 64)
	if err != nil {
		return 0, true, err
	}
	return float64(n), true, nil
}

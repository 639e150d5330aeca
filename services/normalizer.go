package services

import (
	"database/sql"
	"strconv"
	"strings"
)

// NumericMode selects what NormalizeNumeric extracts.
type NumericMode int

const (
	// Float keeps digits and every '.'.
	Float NumericMode = iota
	// Integer keeps digits only.
	Integer
)

// NormalizeNumeric extracts a number from noisy scraped text. It keeps the
// ASCII digits (and, in Float mode, every '.') in order and parses the result.
// Null, empty or unparseable candidates return 0 and parsed=false. Minus
// signs are dropped, so the result is never negative.
func NormalizeNumeric(raw sql.NullString, mode NumericMode) (value float64, parsed bool) {
	if !raw.Valid {
		return 0, false
	}

	candidate := extractDigits(raw.String, mode == Float)
	if candidate == "" {
		return 0, false
	}

	if mode == Float {
		f, err := strconv.ParseFloat(candidate, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}

	n, err := strconv.ParseInt(candidate, 10, 64)
	if err != nil {
		return 0, false
	}
	return float64(n), true
}

// NormalizeFloat is NormalizeNumeric in Float mode.
func NormalizeFloat(raw sql.NullString) (float64, bool) {
	return NormalizeNumeric(raw, Float)
}

// NormalizeInt is NormalizeNumeric in Integer mode. Values that do not fit
// in an int degrade to 0.
func NormalizeInt(raw sql.NullString) (int, bool) {
	if !raw.Valid {
		return 0, false
	}
	n, err := strconv.ParseInt(extractDigits(raw.String, false), 10, strconv.IntSize)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

func extractDigits(s string, keepDot bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= '0' && c <= '9') || (keepDot && c == '.') {
			b.WriteByte(c)
		}
	}
	return b.String()
}

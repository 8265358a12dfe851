package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseValue parses raw user text into a finite float64.
// Surrounding whitespace is ignored. Underscores are accepted between digits
// ("1_000"); hexadecimal notation, NaN, and infinities are rejected.
func ParseValue(text string) (float64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, fmt.Errorf("empty value: %w", ErrInvalidInput)
	}
	digits, ok := stripDigitSeparators(s)
	if !ok || strings.ContainsAny(digits, "xX") {
		return 0, fmt.Errorf("parse %q: %w", s, ErrInvalidInput)
	}
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, ErrInvalidInput)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q: %w", s, ErrInvalidInput)
	}
	return v, nil
}

// stripDigitSeparators removes underscores that sit between two decimal digits.
// Any other underscore makes the text invalid.
func stripDigitSeparators(s string) (string, bool) {
	if !strings.Contains(s, "_") {
		return s, true
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			b.WriteByte(s[i])
			continue
		}
		if i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1]) {
			return "", false
		}
	}
	return b.String(), true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// normalizeName lowercases a unit name and strips spaces, dashes, and underscores
// so "Fahrenheit", "fahrenheit" and " FAHRENHEIT " resolve alike.
func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}

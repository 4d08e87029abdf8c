package schema

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

var errUnparseable = errors.New("unparseable value")

// ParseAmount coerces a currency/number cell into a float64. Tolerates
// thousand separators, currency symbols and parenthesized negatives.
func ParseAmount(raw string) (float64, error) {
	s := cleanNumeric(raw)
	if s == "" {
		return 0, errUnparseable
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errUnparseable
	}
	if neg {
		v = -v
	}
	return v, nil
}

// ParseCount coerces a count cell into an int. Exports often carry counts
// as "1,234" or "12.0"; both are accepted as long as the value is whole.
func ParseCount(raw string) (int, error) {
	v, err := ParseAmount(raw)
	if err != nil {
		return 0, err
	}
	r := math.Round(v)
	if math.Abs(v-r) > 1e-9 {
		return 0, errUnparseable
	}
	return int(r), nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"01-02-2006",
	"Jan 2, 2006",
	time.RFC3339,
}

// ParseDate coerces a date cell. Besides the usual layouts it accepts
// Excel serial day numbers, which spreadsheet readers hand back for
// date-formatted cells.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, errUnparseable
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dayUTC(t), nil
		}
	}
	// serial excel: días desde 1899-12-30
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 59 && serial < 200000 {
		epoch := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
		return dayUTC(epoch.AddDate(0, 0, int(serial))), nil
	}
	return time.Time{}, errUnparseable
}

// Coercible reports whether raw parses as the given kind. Empty cells are
// not coercible; the caller decides what empty means per column.
func Coercible(raw string, kind Kind) bool {
	switch kind {
	case KindString:
		return strings.TrimSpace(raw) != ""
	case KindCount:
		_, err := ParseCount(raw)
		return err == nil
	case KindCurrency:
		_, err := ParseAmount(raw)
		return err == nil
	case KindDate:
		_, err := ParseDate(raw)
		return err == nil
	}
	return false
}

func cleanNumeric(raw string) string {
	s := strings.TrimSpace(raw)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-', r == '(', r == ')':
			b.WriteRune(r)
		case r == ',', r == ' ', r == ' ':
			// separadores de miles
		case r == '₹', r == '$', r == '€', r == '£', r == '%':
			// símbolos de moneda
		default:
			return ""
		}
	}
	return b.String()
}

func dayUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

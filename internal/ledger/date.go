package ledger

import (
	"strconv"
	"strings"
	"time"
)

// ParseDate normalizes a ledger date string into a calendar day at midnight UTC.
//
// Accepted shapes are YYYY-MM-DD and YYYY/MM/DD, with or without leading zeros,
// optionally followed by a space and a time of day which is discarded.
// The second return value is false when the string does not name a real
// calendar day; such records sort after every dated record.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, "-", "/")

	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	var ymd [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, false
		}
		ymd[i] = n
	}

	year, month, day := ymd[0], ymd[1], ymd[2]
	if year < 1 || month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 30 -> Mar 1); reject those.
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

// NormalizeCode trims an instrument code and left-pads it with zeros to the
// six-character width fund codes are quoted under.
func NormalizeCode(code string) string {
	c := strings.TrimSpace(code)
	if len(c) >= codeWidth {
		return c
	}
	return strings.Repeat("0", codeWidth-len(c)) + c
}

const codeWidth = 6

// yearsBetween returns the span between two days in fractional 365-day years.
func yearsBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24 / daysPerYear
}

const daysPerYear = 365.0

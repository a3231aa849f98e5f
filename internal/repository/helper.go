package repository

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// timestampLayouts are the formats timestamps are stored in: RFC3339 when
// written by this service, SQLite's CURRENT_TIMESTAMP form for column defaults.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime parses a stored timestamp in any of timestampLayouts.
func ParseTime(str string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse date: %q", str)
}

// storedTime parses a bookkeeping timestamp of a row. The ledger does not
// depend on these columns, so an unreadable value is logged and read as the
// zero time instead of failing the query.
func storedTime(table, key, raw string) time.Time {
	t, err := ParseTime(raw)
	if err != nil {
		log.Warn().Err(err).
			Str("table", table).
			Str("key", key).
			Msg("Unreadable timestamp, using zero time")
		return time.Time{}
	}
	return t
}

// FormatTime is the inverse of ParseTime for values written by this service.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// toFloat converts a loosely typed SQLite value into a float64.
// NULL and non-numeric text read as zero.
func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case []byte:
		return parseFloatOrZero(string(n))
	case string:
		return parseFloatOrZero(n)
	default:
		return 0
	}
}

func parseFloatOrZero(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// placeholders returns "?, ?, ..." for n bound parameters.
func placeholders(n int) string {
	p := make([]string, n)
	for i := range p {
		p[i] = "?"
	}
	return strings.Join(p, ", ")
}

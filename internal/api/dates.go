package api

import (
	"fmt"
	"regexp"
	"time"
)

// The backend serializes timestamps as ISO-8601 with a fractional-seconds
// component and an explicit zone (offset or Z). Plain dates and arbitrary
// strings never carry a fraction, so the fraction is what distinguishes a
// timestamp from any other string value.
var isoDatePattern = regexp.MustCompile(`^\d{4}-[01]\d-[0-3]\dT[0-2]\d:[0-5]\d:[0-5]\d\.\d+([+-][0-2]\d:[0-5]\d|Z)$`)

// ParseTimestamp parses a backend timestamp string. It reports ok=false for
// strings that do not look like backend timestamps at all, and an error for
// strings that match the pattern but fail to parse (month 13 and the like
// slip past the character classes).
func ParseTimestamp(s string) (time.Time, bool, error) {
	if !isoDatePattern.MatchString(s) {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, true, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, true, nil
}

// FormatTimestamp renders t the way the backend does: millisecond precision,
// UTC, trailing Z.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// ReviveDates recursively walks a decoded JSON value and replaces every
// string matching the backend timestamp format with a time.Time. Maps and
// slices are walked to unbounded depth; nulls and non-matching strings pass
// through untouched. Strings that match the pattern but do not parse are
// also left untouched rather than failing the whole response.
func ReviveDates(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = ReviveDates(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = ReviveDates(item)
		}
		return val
	case string:
		if t, ok, err := ParseTimestamp(val); ok && err == nil {
			return t
		}
		return val
	default:
		return v
	}
}

// Time is a time.Time that round-trips through the backend's timestamp
// format. The zero value marshals as JSON null.
type Time struct {
	time.Time
}

// NewTime wraps t.
func NewTime(t time.Time) Time {
	return Time{Time: t}
}

// Now returns the current instant as a Time.
func Now() Time {
	return Time{Time: time.Now().UTC()}
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + FormatTimestamp(t.Time) + `"`), nil
}

func (t *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("timestamp: expected string, got %s", data)
	}
	s := string(data[1 : len(data)-1])
	parsed, ok, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	if !ok {
		// Tolerate bare RFC3339 without a fraction; some endpoints echo
		// client-sent values back without reformatting.
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("timestamp: unrecognized value %q", s)
		}
	}
	t.Time = parsed
	return nil
}

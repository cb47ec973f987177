package domain

import (
	"fmt"
	"strings"
	"time"
)

// LocalDateTimeLayout is the zone-free wire format for session timestamps.
// The fraction is printed only when non-zero.
const LocalDateTimeLayout = "2006-01-02T15:04:05.999999999"

// accepted input layouts, tried in order; a time of day is required
var localDateTimeInputs = []string{
	LocalDateTimeLayout,
	"2006-01-02T15:04",
}

// LocalDateTime is a wall-clock timestamp without a zone.
// The wrapped time is always stored in UTC and keeps sub-second precision.
type LocalDateTime struct {
	time.Time
}

// NewLocalDateTime keeps the wall clock of t and drops its zone.
func NewLocalDateTime(t time.Time) LocalDateTime {
	return LocalDateTime{time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)}
}

// Date builds a LocalDateTime from calendar fields.
func Date(year int, month time.Month, day, hour, minute, sec int) LocalDateTime {
	return LocalDateTime{time.Date(year, month, day, hour, minute, sec, 0, time.UTC)}
}

// ParseLocalDateTime parses s as a zone-free ISO-8601 timestamp.
// Values carrying an offset are converted to UTC first.
func ParseLocalDateTime(s string) (LocalDateTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range localDateTimeInputs {
		if t, err := time.Parse(layout, s); err == nil {
			return NewLocalDateTime(t), nil
		}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return NewLocalDateTime(t.UTC()), nil
	}

	return LocalDateTime{}, fmt.Errorf("%w: %q is not an ISO-8601 date-time", ErrInvalidInput, s)
}

// String renders the timestamp as yyyy-MM-ddTHH:mm:ss[.fraction].
func (d LocalDateTime) String() string {
	return d.Format(LocalDateTimeLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (d LocalDateTime) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *LocalDateTime) UnmarshalText(b []byte) error {
	parsed, err := ParseLocalDateTime(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d LocalDateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *LocalDateTime) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		*d = LocalDateTime{}
		return nil
	}
	return d.UnmarshalText([]byte(strings.Trim(s, `"`)))
}

package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// DateLayout is the accepted format of the readings query parameters.
const DateLayout = "2006-01-02"

// TimestampLayout is how stored DATETIME values are rendered.
const TimestampLayout = "2006-01-02 15:04:05"

// ReadingsQuery holds the raw readings query parameters.
// A nil field was absent from the request; a present but empty one is kept.
type ReadingsQuery struct {
	StartDate *string `schema:"start_date" json:"start_date"`
	EndDate   *string `schema:"end_date" json:"end_date"`
}

// DateRange is a validated, inclusive range of calendar days
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Lower returns the first second of the range, as stored timestamps are compared.
func (r DateRange) Lower() string {
	return r.Start.Format(DateLayout) + " 00:00:00"
}

// Upper returns the last second of the range.
func (r DateRange) Upper() string {
	return r.End.Format(DateLayout) + " 23:59:59"
}

// Time is a wrapper around time.Time for custom JSON marshaling and DATETIME scanning
type Time struct {
	time.Time
}

// NewTime wraps t.
func NewTime(t time.Time) Time {
	return Time{Time: t}
}

// MarshalJSON renders the timestamp as "YYYY-MM-DD HH:MM:SS", or null when unset.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(TimestampLayout) + `"`), nil
}

// UnmarshalJSON accepts both the DATETIME rendering and RFC3339.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		t.Time = time.Time{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid timestamp %s", s)
	}
	parsed, err := parseTimestamp(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// Scan implements the sql.Scanner interface
func (t *Time) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into models.Time", value)
	}
}

// Value implements the driver.Valuer interface
func (t Time) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.Time, nil
}

func (t *Time) scanString(s string) error {
	parsed, err := parseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{TimestampLayout, time.RFC3339Nano, DateLayout} {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

package core

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the textual calendar date shape used on forms and on the wire.
const DateLayout = "2006-01-02"

// Date is a calendar date. The wrapped time is always midnight UTC.
type Date struct {
	time.Time
}

// NewDate creates a new Date from year, month, day. Out of range values are
// normalized the way time.Date does.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// Today returns the calendar date of now in now's location.
func Today(now time.Time) Date {
	return DateOf(now)
}

// ParseDate parses a strict YYYY-MM-DD date. Impossible dates such as
// 2024-02-30 or 2024-13-01 are rejected.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// ParseWireDate accepts the date shapes a remote store may hand back: a plain
// YYYY-MM-DD date or a full RFC 3339 timestamp, truncated to its UTC day.
func ParseWireDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if d, err := ParseDate(s); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse wire date %q: %w", s, err)
	}
	return DateOf(t.UTC()), nil
}

// Format returns the date as YYYY-MM-DD. The zero date formats as
// 0001-01-01 and parses back to itself.
func (d Date) Format() string {
	return d.Time.Format(DateLayout)
}

func (d Date) String() string {
	return d.Format()
}

// MinusDays returns the date n calendar days earlier.
func (d Date) MinusDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, -n)}
}

// Equal reports whether both values are the same calendar date.
func (d Date) Equal(o Date) bool {
	return d.Time.Equal(o.Time)
}

func (d Date) Before(o Date) bool {
	return d.Time.Before(o.Time)
}

func (d Date) After(o Date) bool {
	return d.Time.After(o.Time)
}

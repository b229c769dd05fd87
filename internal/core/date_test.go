package core

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-05-01", true},
		{"2024-02-29", true},
		{"2023-02-29", false},
		{"2024-02-30", false},
		{"2024-13-01", false},
		{"2024/01/01", false},
		{"01-01-2024", false},
		{"", false},
	}
	for _, tc := range cases {
		_, err := ParseDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("%q expected ok, got %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestDateFormatRoundTrip(t *testing.T) {
	for _, d := range []Date{NewDate(2024, 5, 1), NewDate(1999, 12, 31), NewDate(2024, 2, 29), NewDate(1, 1, 1)} {
		back, err := ParseDate(d.Format())
		if err != nil {
			t.Fatalf("reparse %s: %v", d.Format(), err)
		}
		if !back.Equal(d) {
			t.Fatalf("round trip %s -> %s", d.Format(), back.Format())
		}
	}
	if got := (Date{}).Format(); got != "0001-01-01" {
		t.Fatalf("zero date formats as %q", got)
	}
}

func TestParseWireDate(t *testing.T) {
	cases := []struct {
		in   string
		want Date
	}{
		{"2024-05-01", NewDate(2024, 5, 1)},
		{"2024-05-01T00:00:00.000Z", NewDate(2024, 5, 1)},
		{"2024-05-01T23:30:00Z", NewDate(2024, 5, 1)},
		{"2024-05-01T23:30:00-02:00", NewDate(2024, 5, 2)},
	}
	for _, tc := range cases {
		got, err := ParseWireDate(tc.in)
		if err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("%q = %s, want %s", tc.in, got, tc.want)
		}
	}
	if _, err := ParseWireDate("yesterday"); err == nil {
		t.Fatal("expected error")
	}
}

func TestDateOfIgnoresClock(t *testing.T) {
	now := time.Date(2024, 3, 10, 18, 45, 0, 0, time.UTC)
	if got := DateOf(now); !got.Equal(NewDate(2024, 3, 10)) {
		t.Fatalf("DateOf = %s", got)
	}
}

func TestMinusDaysCrossesMonths(t *testing.T) {
	if got := NewDate(2024, 3, 3).MinusDays(7); got.Format() != "2024-02-25" {
		t.Fatalf("MinusDays = %s", got)
	}
}

package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSummarize(t *testing.T) {
	items := []Expense{
		{ID: "a", Amount: decimal.RequireFromString("10.99")},
		{ID: "b", Amount: decimal.RequireFromString("0.01")},
		{ID: "c", Amount: decimal.RequireFromString("4.5")},
	}
	s := Summarize("Total", items)
	if s.Count != 3 || s.FormattedTotal() != "15.50" || s.Period != "Total" {
		t.Fatalf("unexpected summary: %+v (%s)", s, s.FormattedTotal())
	}
	if Summarize("Empty", nil).FormattedTotal() != "0.00" {
		t.Fatal("empty total must be 0.00")
	}
}

func TestIsRecent(t *testing.T) {
	today := NewDate(2024, 5, 10)
	cases := []struct {
		date Date
		want bool
	}{
		{NewDate(2024, 5, 10), true},
		{NewDate(2024, 5, 3), true},
		{NewDate(2024, 5, 2), false},
		{NewDate(2024, 5, 11), false},
	}
	for _, tc := range cases {
		if got := IsRecent(Expense{Date: tc.date}, today, RecentWindowDays); got != tc.want {
			t.Fatalf("IsRecent(%s) = %v, want %v", tc.date, got, tc.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"12.5", "12.5", true},
		{" 1 ", "1", true},
		{"0", "", false},
		{"-3", "", false},
		{"", "", false},
		{"abc", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestAmountFloatConversion(t *testing.T) {
	d := AmountFromFloat(10.99)
	if d.String() != "10.99" {
		t.Fatalf("AmountFromFloat(10.99) = %s", d)
	}
	if AmountToFloat(d) != 10.99 {
		t.Fatalf("AmountToFloat = %v", AmountToFloat(d))
	}
}

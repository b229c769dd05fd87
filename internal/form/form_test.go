package form

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"expenses/internal/apperrors"
	"expenses/internal/core"
)

func TestValidateAmount(t *testing.T) {
	cases := []struct {
		in   string
		ok   bool
		want string
	}{
		{"12.5", true, "12.5"},
		{"10.99", true, "10.99"},
		{"1", true, "1"},
		{"9999999999.99", true, "9999999999.99"},
		{"0.01", true, "0.01"},
		{"", false, ""},
		{"0", false, ""},
		{"0.00", false, ""},
		{"12345678901", false, ""},
		{"1.234", false, ""},
		{"1.", false, ""},
		{".5", false, ""},
		{"-1", false, ""},
		{"1e3", false, ""},
	}
	for _, tc := range cases {
		f := ValidateAmount(tc.in)
		if f.IsValid() != tc.ok {
			t.Fatalf("ValidateAmount(%q) valid=%v, want %v (%s)", tc.in, f.IsValid(), tc.ok, f.Reason())
		}
		if tc.ok {
			v, _ := f.Value()
			if !v.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("ValidateAmount(%q) = %s, want %s", tc.in, v, tc.want)
			}
		} else if f.Reason() == "" {
			t.Fatalf("ValidateAmount(%q) invalid without reason", tc.in)
		}
	}
}

func TestValidAmountsParseToLiteralValue(t *testing.T) {
	for _, ip := range []string{"1", "12", "1234567890"} {
		for _, fp := range []string{"", ".5", ".05", ".99"} {
			in := ip + fp
			v, ok := ValidateAmount(in).Value()
			if !ok {
				t.Fatalf("%q should be valid", in)
			}
			if !v.Equal(decimal.RequireFromString(in)) {
				t.Fatalf("%q parsed as %s", in, v)
			}
		}
	}
}

func TestValidateDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-05-01", true},
		{"2024-02-29", true},
		{"2024-02-30", false},
		{"2024-13-01", false},
		{"2024/01/01", false},
		{"01-01-2024", false},
		{"2024-1-01", false},
		{"", false},
		{"0001-01-01", false},
		{"0001-01-02", true},
	}
	for _, tc := range cases {
		if got := ValidateDate(tc.in).IsValid(); got != tc.ok {
			t.Fatalf("ValidateDate(%q) = %v, want %v", tc.in, got, tc.ok)
		}
	}
	d, _ := ValidateDate("2024-05-01").Value()
	if !d.Equal(core.NewDate(2024, 5, 1)) {
		t.Fatalf("parsed date %s", d)
	}
}

func TestValidateDescription(t *testing.T) {
	hundred := strings.TrimSpace(strings.Repeat("word ", 100))
	cases := []struct {
		in   string
		ok   bool
		want string
	}{
		{"Coffee", true, "Coffee"},
		{"  Coffee with milk \n", true, "Coffee with milk"},
		{hundred, true, hundred},
		{hundred + " extra", false, ""},
		{"", false, ""},
		{"   \t\n", false, ""},
	}
	for _, tc := range cases {
		f := ValidateDescription(tc.in)
		if f.IsValid() != tc.ok {
			t.Fatalf("ValidateDescription(%q) = %v, want %v", tc.in, f.IsValid(), tc.ok)
		}
		if v, ok := f.Value(); ok && v != tc.want {
			t.Fatalf("ValidateDescription(%q) value %q, want %q", tc.in, v, tc.want)
		}
	}
}

func TestSubmitAllFieldsInvalid(t *testing.T) {
	res := Validate("10.999", "2024-13-01", "")
	if res.OK() {
		t.Fatal("expected invalid result")
	}
	for _, f := range Fields {
		if res.Valid(f) {
			t.Fatalf("%s should be invalid", f)
		}
	}
	var verr *ValidationError
	if err := res.Err(); !errors.As(err, &verr) || len(verr.Fields) != 3 {
		t.Fatalf("expected three field errors, got %v", err)
	}
	if !errors.Is(res.Err(), apperrors.ErrValidation) {
		t.Fatal("validation error must match ErrValidation")
	}
}

func TestSubmitInvalidDoesNotCallContinuation(t *testing.T) {
	f := New(nil)
	f.Change(FieldAmount, "abc")
	f.Change(FieldDate, "2024-13-01")
	f.Change(FieldDescription, "   ")

	called := false
	res, err := f.Submit(func(core.Payload) error {
		called = true
		return nil
	})
	if called {
		t.Fatal("continuation must not run on invalid input")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if !verr.Has(FieldAmount) || !verr.Has(FieldDate) || !verr.Has(FieldDescription) {
		t.Fatalf("missing fields in %v", verr)
	}
	if res.OK() {
		t.Fatal("result must not be OK")
	}
	for _, name := range Fields {
		if f.Input(name).Valid {
			t.Fatalf("%s flag should be invalid after submit", name)
		}
	}
	if got := f.Messages(); len(got) != 3 || got[0] != MsgAmount || got[1] != MsgDate || got[2] != MsgDescription {
		t.Fatalf("unexpected messages: %v", got)
	}
}

func TestSubmitValidCallsContinuationWithPayload(t *testing.T) {
	f := New(nil)
	f.Change(FieldAmount, "10.99")
	f.Change(FieldDate, "2024-05-01")
	f.Change(FieldDescription, "Coffee")

	var got []core.Payload
	res, err := f.Submit(func(p core.Payload) error {
		got = append(got, p)
		return nil
	})
	if err != nil || !res.OK() {
		t.Fatalf("unexpected failure: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("continuation called %d times", len(got))
	}
	p := got[0]
	if !p.Amount.Equal(decimal.RequireFromString("10.99")) || !p.Date.Equal(core.NewDate(2024, 5, 1)) || p.Description != "Coffee" {
		t.Fatalf("unexpected payload %+v", p)
	}
}

func TestSubmitReturnsContinuationError(t *testing.T) {
	f := New(nil)
	f.Change(FieldAmount, "1")
	f.Change(FieldDate, "2024-05-01")
	f.Change(FieldDescription, "x")

	boom := fmt.Errorf("remote down")
	res, err := f.Submit(func(core.Payload) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected continuation error, got %v", err)
	}
	if !res.OK() || f.Invalid() {
		t.Fatal("fields stay valid when only the continuation fails")
	}
}

func TestChangeNormalizesAndResetsValidity(t *testing.T) {
	f := New(nil)
	f.Change(FieldAmount, "1.234")
	if got := f.Input(FieldAmount).Raw; got != "1.23" {
		t.Fatalf("amount stored as %q", got)
	}

	f.Change(FieldDate, "bad")
	if _, err := f.Submit(nil); err == nil {
		t.Fatal("expected validation error")
	}
	if f.Input(FieldDate).Valid {
		t.Fatal("date should be invalid after submit")
	}

	stored := f.Change(FieldDate, "bad!")
	if stored != "bad!" || !f.Input(FieldDate).Valid {
		t.Fatalf("editing must keep the value and reset the flag: %+v", f.Input(FieldDate))
	}
}

func TestSubmitZeroDateFailsInline(t *testing.T) {
	f := New(nil)
	f.Change(FieldAmount, "5")
	f.Change(FieldDate, "0001-01-01")
	f.Change(FieldDescription, "x")

	called := false
	_, err := f.Submit(func(core.Payload) error {
		called = true
		return nil
	})
	var verr *ValidationError
	if !errors.As(err, &verr) || !verr.Has(FieldDate) || len(verr.Fields) != 1 {
		t.Fatalf("expected a date validation error, got %v", err)
	}
	if called {
		t.Fatal("continuation must not run for an out of range date")
	}
	if f.Input(FieldDate).Valid {
		t.Fatal("date should be flagged invalid")
	}
}

func TestNewPrefillsFromExisting(t *testing.T) {
	e := core.Expense{
		ID:          "e1",
		Amount:      decimal.RequireFromString("12.5"),
		Date:        core.NewDate(2024, 1, 9),
		Description: "Books",
	}
	f := New(&e)
	if f.Input(FieldAmount).Raw != "12.5" || f.Input(FieldDate).Raw != "2024-01-09" || f.Input(FieldDescription).Raw != "Books" {
		t.Fatalf("unexpected prefill: %+v %+v %+v", f.Input(FieldAmount), f.Input(FieldDate), f.Input(FieldDescription))
	}
	if f.Invalid() {
		t.Fatal("prefilled form starts valid")
	}

	empty := New(nil)
	for _, name := range Fields {
		if in := empty.Input(name); in.Raw != "" || !in.Valid {
			t.Fatalf("%s: unexpected initial state %+v", name, in)
		}
	}
}

func TestParseFieldName(t *testing.T) {
	if f, ok := ParseFieldName(" Amount "); !ok || f != FieldAmount {
		t.Fatalf("ParseFieldName = %q %v", f, ok)
	}
	if _, ok := ParseFieldName("category"); ok {
		t.Fatal("unknown field accepted")
	}
}

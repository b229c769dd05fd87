package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPayloadValidate(t *testing.T) {
	good := Payload{
		Amount:      decimal.RequireFromString("10.99"),
		Date:        NewDate(2024, 5, 1),
		Description: "Coffee",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Payload{
		{Amount: decimal.Zero, Date: NewDate(2024, 5, 1), Description: "a"},
		{Amount: decimal.RequireFromString("-1"), Date: NewDate(2024, 5, 1), Description: "a"},
		{Amount: decimal.RequireFromString("1"), Date: Date{}, Description: "a"},
		{Amount: decimal.RequireFromString("1"), Date: NewDate(2024, 5, 1), Description: "   "},
	}
	for i, p := range bads {
		if err := p.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestExpenseValidateRequiresID(t *testing.T) {
	e := Payload{
		Amount:      decimal.RequireFromString("1"),
		Date:        NewDate(2024, 5, 1),
		Description: "a",
	}.Expense("")
	if err := e.Validate(); err == nil {
		t.Fatal("expected error for missing id")
	}
	e.ID = "x1"
	if err := e.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}

func TestPatchApplyOnlyTouchesSetFields(t *testing.T) {
	orig := Expense{
		ID:          "e1",
		Amount:      decimal.RequireFromString("12.5"),
		Date:        NewDate(2024, 1, 2),
		Description: "Lunch",
	}
	five := decimal.NewFromInt(5)

	got := Patch{Amount: &five}.Apply(orig)
	if !got.Amount.Equal(five) {
		t.Fatalf("amount = %s, want 5", got.Amount)
	}
	if got.ID != orig.ID || !got.Date.Equal(orig.Date) || got.Description != orig.Description {
		t.Fatalf("unexpected change outside amount: %+v", got)
	}
	if !orig.Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Fatal("Apply must not mutate its argument")
	}
}

func TestPayloadPatchReplacesEverything(t *testing.T) {
	p := Payload{Amount: decimal.NewFromInt(3), Date: NewDate(2023, 3, 3), Description: "x"}
	got := p.Patch().Apply(Expense{ID: "keep", Amount: decimal.NewFromInt(9), Date: NewDate(2020, 1, 1), Description: "y"})
	want := p.Expense("keep")
	if got.ID != want.ID || !got.Amount.Equal(want.Amount) || !got.Date.Equal(want.Date) || got.Description != want.Description {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if (Patch{}).IsEmpty() != true || p.Patch().IsEmpty() {
		t.Fatal("IsEmpty mismatch")
	}
}

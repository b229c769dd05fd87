package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type (
	// Expense is a single dated expense as mirrored from the persistence layer.
	Expense struct {
		ID          string // assigned by the persistence layer
		Amount      decimal.Decimal
		Date        Date
		Description string
	}

	// Payload is a validated expense without an ID, ready to be persisted.
	Payload struct {
		Amount      decimal.Decimal
		Date        Date
		Description string
	}

	// Patch replaces the non-nil fields of an expense.
	Patch struct {
		Amount      *decimal.Decimal
		Date        *Date
		Description *string
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrZeroDate         = errors.New("date cannot be zero")
)

// Payload strips the ID off the expense.
func (e Expense) Payload() Payload {
	return Payload{Amount: e.Amount, Date: e.Date, Description: e.Description}
}

func (e Expense) Validate() error {
	if err := e.Payload().Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("missing id")
	}
	return nil
}

func (p Payload) Validate() error {
	if !p.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if p.Date.IsZero() {
		return ErrZeroDate
	}
	if strings.TrimSpace(p.Description) == "" {
		return ErrEmptyDescription
	}
	return nil
}

// Expense attaches an ID to the payload.
func (p Payload) Expense(id string) Expense {
	return Expense{ID: id, Amount: p.Amount, Date: p.Date, Description: p.Description}
}

// Patch returns a patch replacing every field with the payload values.
func (p Payload) Patch() Patch {
	amount, date, desc := p.Amount, p.Date, p.Description
	return Patch{Amount: &amount, Date: &date, Description: &desc}
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Amount == nil && p.Date == nil && p.Description == nil
}

// Apply returns e with the patched fields replaced. The ID is never touched.
func (p Patch) Apply(e Expense) Expense {
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	return e
}

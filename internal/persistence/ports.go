package persistence

import (
	"context"
	"fmt"
	"strings"

	"expenses/internal/core"
)

// Ports for outbound adapters.
type (
	// Fetcher reads the whole remote collection.
	Fetcher interface {
		FetchAll(ctx context.Context) ([]core.Expense, error)
	}

	// Writer mutates a single remote record.
	Writer interface {
		// Create stores a new record and returns the ID assigned to it.
		Create(ctx context.Context, p core.Payload) (id string, err error)
		// Update replaces the patched fields of record id.
		Update(ctx context.Context, id string, patch core.Patch) error
		Delete(ctx context.Context, id string) error
	}

	// Persistence is the remote store the mirror is populated from and
	// every mutation is sent to first.
	Persistence interface {
		Fetcher
		Writer
	}
)

// Record is the wire shape of an expense without its ID.
type Record struct {
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
}

// RecordFromPayload serializes a payload for sending.
func RecordFromPayload(p core.Payload) Record {
	return Record{
		Amount:      core.AmountToFloat(p.Amount),
		Date:        p.Date.Format(),
		Description: p.Description,
	}
}

// RecordFromExpense serializes an expense, dropping its ID.
func RecordFromExpense(e core.Expense) Record {
	return RecordFromPayload(e.Payload())
}

// PatchRecord serializes only the fields a patch replaces.
func PatchRecord(p core.Patch) map[string]any {
	out := make(map[string]any, 3)
	if p.Amount != nil {
		out["amount"] = core.AmountToFloat(*p.Amount)
	}
	if p.Date != nil {
		out["date"] = p.Date.Format()
	}
	if p.Description != nil {
		out["description"] = *p.Description
	}
	return out
}

// Expense parses the record received for id.
func (r Record) Expense(id string) (core.Expense, error) {
	d, err := core.ParseWireDate(r.Date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("record %s: %w", id, err)
	}
	return core.Expense{
		ID:          id,
		Amount:      core.AmountFromFloat(r.Amount),
		Date:        d,
		Description: strings.TrimSpace(r.Description),
	}, nil
}

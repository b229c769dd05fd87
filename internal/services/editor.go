package services

import (
	"context"
	"fmt"

	"expenses/internal/apperrors"
	"expenses/internal/core"
	"expenses/internal/form"
)

// Mode tells whether an editor creates a new expense or edits one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Editor is the add/edit screen: a form plus the mutation it submits to.
type Editor struct {
	Mode Mode
	ID   string
	Form *form.Form

	svc *ExpenseService
}

// Editor opens the add screen for an empty id, otherwise the edit screen
// prefilled from the mirror.
func (s *ExpenseService) Editor(id string) (*Editor, error) {
	if id == "" {
		return &Editor{Mode: ModeCreate, Form: form.New(nil), svc: s}, nil
	}
	e, ok := s.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("edit expense %s: %w", id, apperrors.ErrNotFound)
	}
	return &Editor{Mode: ModeEdit, ID: id, Form: form.New(&e), svc: s}, nil
}

func (ed *Editor) Title() string {
	if ed.Mode == ModeEdit {
		return "Edit Expense"
	}
	return "Add Expense"
}

func (ed *Editor) SubmitLabel() string {
	if ed.Mode == ModeEdit {
		return "Update"
	}
	return "Add"
}

// Change forwards a keystroke to the form and returns the stored value.
func (ed *Editor) Change(field form.FieldName, raw string) string {
	return ed.Form.Change(field, raw)
}

// Submit validates the form and, when it passes, creates or updates the
// expense. Validation failures return a *form.ValidationError and touch
// nothing; persistence failures return a *apperrors.PersistenceError.
func (ed *Editor) Submit(ctx context.Context) (core.Expense, form.Result, error) {
	var saved core.Expense
	res, err := ed.Form.Submit(func(p core.Payload) error {
		var err error
		if ed.Mode == ModeEdit {
			saved, err = ed.svc.Update(ctx, ed.ID, p.Patch())
		} else {
			saved, err = ed.svc.Create(ctx, p)
		}
		return err
	})
	return saved, res, err
}

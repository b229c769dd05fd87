// Package store holds the in-process mirror of the user's expenses.
//
// The mirror is not the source of truth: it is filled from the persistence
// layer and only mutated by callers after the corresponding remote write has
// succeeded. It never talks to persistence itself.
package store

import (
	"fmt"
	"strings"
	"sync"

	"expenses/internal/apperrors"
	"expenses/internal/core"
)

// ExpenseStore keeps expenses in insertion order.
type ExpenseStore struct {
	mu    sync.RWMutex
	items []core.Expense
}

func New() *ExpenseStore {
	return &ExpenseStore{}
}

// Set replaces the whole collection. Records are trusted as fetched.
func (s *ExpenseStore) Set(expenses []core.Expense) {
	items := make([]core.Expense, len(expenses))
	copy(items, expenses)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
}

// Add appends e. An expense whose ID is empty or already present is rejected
// and the collection is left unchanged.
func (s *ExpenseStore) Add(e core.Expense) error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("add expense: missing id: %w", apperrors.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(e.ID) >= 0 {
		return fmt.Errorf("add expense %s: %w", e.ID, apperrors.ErrDuplicate)
	}
	s.items = append(s.items, e)
	return nil
}

// Update merges patch into the expense with the given ID and returns the
// merged record. Unknown IDs leave the collection unchanged.
func (s *ExpenseStore) Update(id string, patch core.Patch) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return core.Expense{}, fmt.Errorf("update expense %s: %w", id, apperrors.ErrNotFound)
	}
	s.items[i] = patch.Apply(s.items[i])
	return s.items[i], nil
}

// Delete removes the expense with the given ID.
func (s *ExpenseStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("delete expense %s: %w", id, apperrors.ErrNotFound)
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

// List returns a copy of every expense in insertion order.
func (s *ExpenseStore) List() []core.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Expense, len(s.items))
	copy(out, s.items)
	return out
}

// Filter returns the expenses matching keep, in insertion order.
func (s *ExpenseStore) Filter(keep func(core.Expense) bool) []core.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Expense, 0, len(s.items))
	for _, e := range s.items {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func (s *ExpenseStore) Get(id string) (core.Expense, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return core.Expense{}, false
}

func (s *ExpenseStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// indexOf expects s.mu to be held.
func (s *ExpenseStore) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

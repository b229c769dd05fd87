package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"

	"expenses/internal/apperrors"
	"expenses/internal/core"
	"expenses/internal/persistence"
)

var _ persistence.Persistence = (*Store)(nil)

// Store keeps expenses in process. IDs are random UUIDs, so FetchAll
// returns records in insertion order rather than sorted.
type Store struct {
	mu    sync.Mutex
	order []string
	items map[string]core.Expense
	newID func() string
}

func New() *Store {
	return &Store{
		items: map[string]core.Expense{},
		newID: uuid.NewString,
	}
}

// NewFromFile seeds a store from a JSON file in the remote store layout (an
// object keyed by ID). A missing file yields an empty store.
func NewFromFile(path string) (*Store, error) {
	s := New()
	if path == "" {
		return s, nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var raw map[string]persistence.Record
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		e, err := raw[id].Expense(id)
		if err != nil {
			return nil, fmt.Errorf("seed file %s: %w", path, err)
		}
		s.put(e)
	}
	return s, nil
}

// Seed adds expenses with their own IDs, replacing any with the same ID.
func (s *Store) Seed(expenses ...core.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range expenses {
		s.put(e)
	}
}

func (s *Store) put(e core.Expense) {
	if _, ok := s.items[e.ID]; !ok {
		s.order = append(s.order, e.ID)
	}
	s.items[e.ID] = e
}

func (s *Store) FetchAll(ctx context.Context) ([]core.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, p core.Payload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := p.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.newID()
	s.put(p.Expense(id))
	return id, nil
}

func (s *Store) Update(ctx context.Context, id string, patch core.Patch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[id]
	if !ok {
		return fmt.Errorf("expense %s: %w", id, apperrors.ErrNotFound)
	}
	s.items[id] = patch.Apply(e)
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("expense %s: %w", id, apperrors.ErrNotFound)
	}
	delete(s.items, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

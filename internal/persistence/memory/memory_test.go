package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"expenses/internal/apperrors"
	"expenses/internal/core"
)

func payload(amount, desc string) core.Payload {
	return core.Payload{Amount: decimal.RequireFromString(amount), Date: core.NewDate(2024, 5, 1), Description: desc}
}

func TestCreateFetchUpdateDelete(t *testing.T) {
	ctx := context.Background()
	s := New()

	id1, err := s.Create(ctx, payload("10.99", "Coffee"))
	if err != nil || id1 == "" {
		t.Fatalf("create: id=%q err=%v", id1, err)
	}
	id2, err := s.Create(ctx, payload("5", "Lunch"))
	if err != nil || id2 == id1 {
		t.Fatalf("create: id=%q err=%v", id2, err)
	}

	all, _ := s.FetchAll(ctx)
	if len(all) != 2 || all[0].ID != id1 || all[1].ID != id2 {
		t.Fatalf("unexpected fetch: %+v", all)
	}

	desc := "Tea"
	if err := s.Update(ctx, id1, core.Patch{Description: &desc}); err != nil {
		t.Fatalf("update: %v", err)
	}
	all, _ = s.FetchAll(ctx)
	if all[0].Description != "Tea" || !all[0].Amount.Equal(decimal.RequireFromString("10.99")) {
		t.Fatalf("patch not applied: %+v", all[0])
	}

	if err := s.Delete(ctx, id1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	all, _ = s.FetchAll(ctx)
	if len(all) != 1 || all[0].ID != id2 {
		t.Fatalf("unexpected fetch after delete: %+v", all)
	}
}

func TestUnknownIDs(t *testing.T) {
	s := New()
	if err := s.Delete(context.Background(), "nope"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Update(context.Background(), "nope", core.Patch{}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("update: %v", err)
	}
}

func TestCreateRejectsInvalidPayload(t *testing.T) {
	s := New()
	_, err := s.Create(context.Background(), core.Payload{Date: core.NewDate(2024, 1, 1), Description: "x"})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().FetchAll(ctx); err == nil {
		t.Fatal("expected error on canceled context")
	}
}

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()

	s, err := NewFromFile(filepath.Join(dir, "missing.json"))
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if all, _ := s.FetchAll(context.Background()); len(all) != 0 {
		t.Fatalf("expected empty store, got %v", all)
	}

	path := filepath.Join(dir, "seed.json")
	content := `{"b": {"amount": 2, "date": "2024-01-02", "description": "two"},
	             "a": {"amount": 1.5, "date": "2024-01-01", "description": "one"}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	s, err = NewFromFile(path)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	all, _ := s.FetchAll(context.Background())
	if len(all) != 2 || all[0].ID != "a" || all[1].ID != "b" || all[0].Amount.String() != "1.5" {
		t.Fatalf("unexpected seed: %+v", all)
	}

	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFromFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

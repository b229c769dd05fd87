package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"expenses/internal/apperrors"
	"expenses/internal/core"
)

func newRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "db", "expenses.db"))
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	id, err := repo.Create(ctx, core.Payload{
		Amount:      decimal.RequireFromString("1234567890.99"),
		Date:        core.NewDate(2024, 2, 29),
		Description: "Rent",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create(ctx, core.Payload{Amount: decimal.NewFromInt(2), Date: core.NewDate(2024, 3, 1), Description: "Bus"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	all, err := repo.FetchAll(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(all) != 2 || all[0].ID != id || all[1].Description != "Bus" {
		t.Fatalf("unexpected rows: %+v", all)
	}
	if all[0].Amount.String() != "1234567890.99" || all[0].Date.Format() != "2024-02-29" {
		t.Fatalf("values not preserved: %+v", all[0])
	}
}

func TestRepositoryUpdatePatchesOnlyGivenFields(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	id, err := repo.Create(ctx, core.Payload{Amount: decimal.NewFromInt(5), Date: core.NewDate(2024, 1, 1), Description: "Lunch"})
	if err != nil {
		t.Fatal(err)
	}

	amount := decimal.RequireFromString("7.25")
	if err := repo.Update(ctx, id, core.Patch{Amount: &amount}); err != nil {
		t.Fatalf("update: %v", err)
	}
	all, _ := repo.FetchAll(ctx)
	if len(all) != 1 || all[0].Amount.String() != "7.25" || all[0].Description != "Lunch" || all[0].Date.Format() != "2024-01-01" {
		t.Fatalf("unexpected row after patch: %+v", all)
	}
}

func TestRepositoryUnknownID(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	if err := repo.Delete(ctx, "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("delete: %v", err)
	}
	desc := "x"
	if err := repo.Update(ctx, "missing", core.Patch{Description: &desc}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("update: %v", err)
	}
}

func TestRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	id, _ := repo.Create(ctx, core.Payload{Amount: decimal.NewFromInt(1), Date: core.NewDate(2024, 1, 1), Description: "x"})
	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	all, _ := repo.FetchAll(ctx)
	if len(all) != 0 {
		t.Fatalf("expected empty table, got %+v", all)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.db")
	for i := 0; i < 2; i++ {
		repo, err := NewSQLiteRepository(path)
		if err != nil {
			t.Fatalf("open #%d: %v", i, err)
		}
		repo.Close()
	}
}

func TestCreateRejectsInvalidPayload(t *testing.T) {
	repo := newRepo(t)
	_, err := repo.Create(context.Background(), core.Payload{Amount: decimal.Zero, Date: core.NewDate(2024, 1, 1), Description: "x"})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

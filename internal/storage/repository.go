package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"expenses/internal/apperrors"
	"expenses/internal/core"
	"expenses/internal/persistence"

	_ "modernc.org/sqlite"
)

var _ persistence.Persistence = (*SQLiteRepository)(nil)

// SQLiteRepository keeps expenses in a local SQLite file. Amounts are stored
// as decimal text so no precision is lost.
type SQLiteRepository struct {
	db    *sql.DB
	newID func() string
}

// NewSQLiteRepository opens (creating if needed) the database at dbPath and
// migrates it. ":memory:" opens a private in-memory database.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps writers serialized and an in-memory database shared.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, newID: uuid.NewString}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// FetchAll returns every expense in creation order.
func (r *SQLiteRepository) FetchAll(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, amount, date, description FROM expenses ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var id, amount, date, desc string
		if err := rows.Scan(&id, &amount, &date, &desc); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e, err := toExpense(id, amount, date, desc)
		if err != nil {
			slog.WarnContext(ctx, "Skipping unreadable expense row", "id", id, "error", err)
			continue
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, p core.Payload) (string, error) {
	if err := p.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	id := r.newID()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, amount, date, description) VALUES (?, ?, ?, ?)`,
		id, p.Amount.String(), p.Date.Format(), p.Description)
	if err != nil {
		return "", fmt.Errorf("insert expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", id,
		"amount", p.Amount.String(),
		"date", p.Date.Format())
	return id, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, id string, patch core.Patch) error {
	var amount, date, desc sql.NullString
	if patch.Amount != nil {
		amount = sql.NullString{String: patch.Amount.String(), Valid: true}
	}
	if patch.Date != nil {
		date = sql.NullString{String: patch.Date.Format(), Valid: true}
	}
	if patch.Description != nil {
		desc = sql.NullString{String: *patch.Description, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses SET
			amount      = COALESCE(?, amount),
			date        = COALESCE(?, date),
			description = COALESCE(?, description),
			updated_at  = CURRENT_TIMESTAMP
		WHERE id = ?`,
		amount, date, desc, id)
	if err != nil {
		return fmt.Errorf("update expense %s: %w", id, err)
	}
	return expectOne(res, id)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	if err := expectOne(res, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Expense deleted from SQLite", "id", id)
	return nil
}

func expectOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func toExpense(id, amount, date, desc string) (core.Expense, error) {
	a, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Expense{}, fmt.Errorf("amount %q: %w", amount, err)
	}
	d, err := core.ParseWireDate(date)
	if err != nil {
		return core.Expense{}, err
	}
	if id == "" {
		return core.Expense{}, errors.New("empty id")
	}
	return core.Expense{ID: id, Amount: a, Date: d, Description: desc}, nil
}

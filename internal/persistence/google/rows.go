package google

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"expenses/internal/core"
)

func expenseRow(e core.Expense) []any {
	return []any{e.ID, e.Date.Format(), e.Description, core.AmountToFloat(e.Amount)}
}

func rowToExpense(row []any) (core.Expense, error) {
	cols := toStrings(row)
	if len(cols) < 4 {
		return core.Expense{}, fmt.Errorf("want 4 columns, got %d", len(cols))
	}
	id := cols[0]
	if id == "" {
		return core.Expense{}, errors.New("missing id")
	}
	d, err := core.ParseWireDate(cols[1])
	if err != nil {
		return core.Expense{}, err
	}
	amount, err := cellAmount(row[3])
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{ID: id, Date: d, Description: cols[2], Amount: amount}, nil
}

// cellAmount reads an amount cell. Unformatted numbers arrive as float64;
// cells typed by hand may be text with a decimal comma.
func cellAmount(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case float64:
		return core.AmountFromFloat(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	}
	s := strings.ReplaceAll(strings.TrimSpace(fmt.Sprint(v)), ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q: %w", s, err)
	}
	return d, nil
}

func findRow(values [][]any, id string) int {
	for i, row := range values {
		if len(row) > 0 && strings.TrimSpace(fmt.Sprint(row[0])) == id {
			return i
		}
	}
	return -1
}

func isBlank(row []any) bool {
	for _, v := range toStrings(row) {
		if v != "" {
			return false
		}
	}
	return true
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

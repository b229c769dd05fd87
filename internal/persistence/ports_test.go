package persistence

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expenses/internal/core"
)

func TestRecordFromPayload(t *testing.T) {
	p := core.Payload{
		Amount:      decimal.RequireFromString("10.99"),
		Date:        core.NewDate(2024, 5, 1),
		Description: "Coffee",
	}
	b, err := json.Marshal(RecordFromPayload(p))
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":10.99,"date":"2024-05-01","description":"Coffee"}`, string(b))
}

func TestPatchRecordOnlyChangedFields(t *testing.T) {
	amount := decimal.RequireFromString("3.5")
	got := PatchRecord(core.Patch{Amount: &amount})
	assert.Equal(t, map[string]any{"amount": 3.5}, got)

	assert.Empty(t, PatchRecord(core.Patch{}))
}

func TestRecordExpense(t *testing.T) {
	cases := []struct {
		name string
		rec  Record
		date core.Date
		ok   bool
	}{
		{"plain date", Record{Amount: 12.5, Date: "2024-01-09", Description: " Books "}, core.NewDate(2024, 1, 9), true},
		{"timestamp", Record{Amount: 1, Date: "2024-01-09T18:30:00.000Z", Description: "x"}, core.NewDate(2024, 1, 9), true},
		{"garbage date", Record{Amount: 1, Date: "yesterday", Description: "x"}, core.Date{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := tc.rec.Expense("id1")
			if !tc.ok {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "id1", e.ID)
			assert.True(t, e.Date.Equal(tc.date))
			assert.True(t, e.Amount.Equal(decimal.NewFromFloat(tc.rec.Amount)))
		})
	}
}

func TestRecordExpenseTrimsDescription(t *testing.T) {
	e, err := Record{Amount: 12.5, Date: "2024-01-09", Description: " Books "}.Expense("a")
	require.NoError(t, err)
	assert.Equal(t, "Books", e.Description)
	assert.Equal(t, "12.5", e.Amount.String())
}

package http

import (
	"strings"

	"expenses/internal/core"
	"expenses/internal/form"
	"expenses/internal/services"
)

type expenseJSON struct {
	ID          string `json:"id"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

type viewJSON struct {
	Period   string        `json:"period"`
	Count    int           `json:"count"`
	Total    string        `json:"total"`
	Expenses []expenseJSON `json:"expenses"`
	Fallback string        `json:"fallback,omitempty"`
	Error    string        `json:"error,omitempty"`
}

type formJSON struct {
	Mode     string                        `json:"mode"`
	Title    string                        `json:"title"`
	Submit   string                        `json:"submitLabel"`
	Fields   map[form.FieldName]form.Input `json:"fields"`
	Errors   []form.FieldError             `json:"errors"`
	Messages []string                      `json:"messages"`
}

func toExpenseJSON(e core.Expense) expenseJSON {
	return expenseJSON{
		ID:          e.ID,
		Amount:      e.Amount.StringFixed(2),
		Date:        e.Date.Format(),
		Description: e.Description,
	}
}

func toViewJSON(v services.View, notice string) viewJSON {
	out := viewJSON{
		Period:   v.Period,
		Count:    v.Summary.Count,
		Total:    v.Summary.FormattedTotal(),
		Expenses: make([]expenseJSON, 0, len(v.Items)),
		Error:    notice,
	}
	for _, e := range v.Items {
		out.Expenses = append(out.Expenses, toExpenseJSON(e))
	}
	if v.Empty() {
		out.Fallback = v.Fallback
	}
	return out
}

// toFormJSON reports the state of every input after a failed submit.
func toFormJSON(ed *services.Editor, res form.Result) formJSON {
	out := formJSON{
		Mode:     ed.Mode.String(),
		Title:    ed.Title(),
		Submit:   ed.SubmitLabel(),
		Fields:   make(map[form.FieldName]form.Input, len(form.Fields)),
		Errors:   res.Errors(),
		Messages: ed.Form.Messages(),
	}
	for _, f := range form.Fields {
		out.Fields[f] = ed.Form.Input(f)
	}
	return out
}

// sanitizeInput removes control characters except tab, newline and carriage return.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

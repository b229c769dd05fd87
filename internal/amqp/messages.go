package amqp

import (
	"encoding/json"
	"time"

	"expenses/internal/core"
)

// Event types, also used as routing keys.
const (
	EventCreated = "expense.created"
	EventUpdated = "expense.updated"
	EventDeleted = "expense.deleted"
)

// ExpenseEvent announces a mutation that the remote store has accepted.
// A deleted event only carries the ID.
type ExpenseEvent struct {
	Type        string    `json:"type"`
	ID          string    `json:"id"`
	Amount      string    `json:"amount,omitempty"`
	Date        string    `json:"date,omitempty"`
	Description string    `json:"description,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewExpenseEvent builds an event of type typ for e.
func NewExpenseEvent(typ string, e core.Expense) ExpenseEvent {
	ev := ExpenseEvent{Type: typ, ID: e.ID, Timestamp: time.Now().UTC()}
	if typ != EventDeleted {
		ev.Amount = e.Amount.StringFixed(2)
		ev.Date = e.Date.Format()
		ev.Description = e.Description
	}
	return ev
}

// ToJSON converts the message to JSON bytes
func (m ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventFromJSON decodes an event.
func ExpenseEventFromJSON(data []byte) (ExpenseEvent, error) {
	var ev ExpenseEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return ExpenseEvent{}, err
	}
	return ev, nil
}

package core

import "github.com/shopspring/decimal"

// RecentWindowDays is how far back the recent view reaches.
const RecentWindowDays = 7

// Summary is the header shown above an expense list.
type Summary struct {
	Period string
	Count  int
	Total  decimal.Decimal
}

// Summarize adds up the amounts of the given expenses.
func Summarize(period string, expenses []Expense) Summary {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return Summary{Period: period, Count: len(expenses), Total: total}
}

// FormattedTotal returns the total with exactly two decimals.
func (s Summary) FormattedTotal() string {
	return s.Total.StringFixed(2)
}

// IsRecent reports whether e falls within the last days days up to and
// including today. Future-dated expenses are not recent.
func IsRecent(e Expense, today Date, days int) bool {
	from := today.MinusDays(days)
	return !e.Date.Before(from) && !e.Date.After(today)
}

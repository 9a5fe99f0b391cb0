package core

import "github.com/shopspring/decimal"

// DeletedCategoryName is rendered when a budget references a category that
// no longer exists.
const DeletedCategoryName = "(deleted)"

// MonthlySummaryEntry is the income/expense split for one month that had
// transactions. Months without transactions produce no entry.
type MonthlySummaryEntry struct {
	Month   int
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// BudgetStatusRow pairs a budget with the expense spend recorded against its
// category inside the budget's month.
type BudgetStatusRow struct {
	ID           string
	CategoryID   string
	CategoryName string
	Amount       decimal.Decimal
	Spent        decimal.Decimal
	Year         int
	Month        int
}

// YearlySummaryEntry is the budget-vs-spent total for one month of a year.
// A yearly summary always carries twelve of these, zero-filled.
type YearlySummaryEntry struct {
	Month  int
	Budget decimal.Decimal
	Spent  decimal.Decimal
}

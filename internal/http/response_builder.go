package http

import (
	"time"

	"bilancio/internal/core"
)

// Wire representations. Amounts travel as fixed-point strings so clients
// never see binary-float artifacts.
type (
	categoryResponse struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		IsIncome   bool   `json:"isIncome"`
		IsArchived bool   `json:"isArchived"`
	}

	transactionResponse struct {
		ID         string `json:"id"`
		CategoryID string `json:"categoryId"`
		Type       string `json:"type"`
		Amount     string `json:"amount"`
		OccurredOn string `json:"occurredOn"`
		Note       string `json:"note,omitempty"`
	}

	budgetResponse struct {
		ID         string `json:"id"`
		CategoryID string `json:"categoryId"`
		Year       int    `json:"year"`
		Month      int    `json:"month"`
		Amount     string `json:"amount"`
	}

	monthlySummaryResponse struct {
		Month   int    `json:"month"`
		Income  string `json:"income"`
		Expense string `json:"expense"`
	}

	budgetStatusResponse struct {
		ID           string `json:"id"`
		CategoryID   string `json:"categoryId"`
		CategoryName string `json:"categoryName"`
		Amount       string `json:"amount"`
		Spent        string `json:"spent"`
		Year         int    `json:"year"`
		Month        int    `json:"month"`
	}

	yearlySummaryResponse struct {
		Month  int    `json:"month"`
		Budget string `json:"budget"`
		Spent  string `json:"spent"`
	}
)

func toCategoryResponse(c core.Category) categoryResponse {
	return categoryResponse{
		ID:         c.ID,
		Name:       c.Name,
		IsIncome:   c.IsIncome,
		IsArchived: c.IsArchived,
	}
}

func toCategoryResponses(cs []core.Category) []categoryResponse {
	out := make([]categoryResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCategoryResponse(c))
	}
	return out
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:         t.ID,
		CategoryID: t.CategoryID,
		Type:       string(t.Type),
		Amount:     core.FormatAmount(t.Amount),
		OccurredOn: t.OccurredOn.Format(time.RFC3339),
		Note:       t.Note,
	}
}

func toTransactionResponses(ts []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTransactionResponse(t))
	}
	return out
}

func toBudgetResponses(bs []core.Budget) []budgetResponse {
	out := make([]budgetResponse, 0, len(bs))
	for _, b := range bs {
		out = append(out, budgetResponse{
			ID:         b.ID,
			CategoryID: b.CategoryID,
			Year:       b.Year,
			Month:      b.Month,
			Amount:     core.FormatAmount(b.Amount),
		})
	}
	return out
}

func toMonthlySummaryResponses(entries []core.MonthlySummaryEntry) []monthlySummaryResponse {
	out := make([]monthlySummaryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, monthlySummaryResponse{
			Month:   e.Month,
			Income:  core.FormatAmount(e.Income),
			Expense: core.FormatAmount(e.Expense),
		})
	}
	return out
}

func toBudgetStatusResponses(rows []core.BudgetStatusRow) []budgetStatusResponse {
	out := make([]budgetStatusResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, budgetStatusResponse{
			ID:           row.ID,
			CategoryID:   row.CategoryID,
			CategoryName: row.CategoryName,
			Amount:       core.FormatAmount(row.Amount),
			Spent:        core.FormatAmount(row.Spent),
			Year:         row.Year,
			Month:        row.Month,
		})
	}
	return out
}

func toYearlySummaryResponses(entries []core.YearlySummaryEntry) []yearlySummaryResponse {
	out := make([]yearlySummaryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, yearlySummaryResponse{
			Month:  e.Month,
			Budget: core.FormatAmount(e.Budget),
			Spent:  core.FormatAmount(e.Spent),
		})
	}
	return out
}

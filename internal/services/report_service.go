package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"bilancio/internal/cache"
	"bilancio/internal/core"
	"bilancio/internal/log"
	"bilancio/internal/storage"
)

// ReportService computes the read-side aggregations. Amount sums run in
// decimal arithmetic over the stored rows, never in SQL. Results are cached
// per user; every ledger mutation drops the user's cached reports.
type ReportService struct {
	repo   *storage.SQLiteRepository
	cache  *cache.LRU[any]
	logger *log.Logger
}

func NewReportService(repo *storage.SQLiteRepository, reportCache *cache.LRU[any], logger *log.Logger) *ReportService {
	return &ReportService{
		repo:   repo,
		cache:  reportCache,
		logger: logger.WithComponent(log.ComponentReport),
	}
}

// Invalidate drops every cached report of the user.
func (s *ReportService) Invalidate(userID string) {
	if s == nil || s.cache == nil {
		return
	}
	s.cache.DeletePrefix(userID + ":")
}

func (s *ReportService) cached(key string) (any, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(key)
}

func (s *ReportService) store(key string, v any) {
	if s.cache != nil {
		s.cache.Set(key, v)
	}
}

// MonthlySummary returns the income/expense split per month of the year,
// ascending. Months without transactions are absent.
func (s *ReportService) MonthlySummary(ctx context.Context, userID string, year int) ([]core.MonthlySummaryEntry, error) {
	if year < 1 {
		return nil, core.Invalidf("year must be positive")
	}

	key := fmt.Sprintf("%s:monthly:%d", userID, year)
	if v, ok := s.cached(key); ok {
		if entries, ok := v.([]core.MonthlySummaryEntry); ok {
			return entries, nil
		}
	}

	from, to := core.YearWindow(year)
	txs, err := s.repo.TransactionsInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		income  decimal.Decimal
		expense decimal.Decimal
	}
	buckets := make(map[int]*bucket)
	for _, t := range txs {
		m := int(t.OccurredOn.Month())
		b, ok := buckets[m]
		if !ok {
			b = &bucket{}
			buckets[m] = b
		}
		if t.Type.IsIncome() {
			b.income = b.income.Add(t.Amount)
		} else {
			b.expense = b.expense.Add(t.Amount)
		}
	}

	entries := make([]core.MonthlySummaryEntry, 0, len(buckets))
	for m := 1; m <= 12; m++ {
		if b, ok := buckets[m]; ok {
			entries = append(entries, core.MonthlySummaryEntry{
				Month:   m,
				Income:  b.income,
				Expense: b.expense,
			})
		}
	}

	s.store(key, entries)
	return entries, nil
}

// BudgetStatus returns one row per budget of the month: the planned amount
// next to the expense spend recorded against its category. A budget whose
// category is gone renders the deleted-category name; a category with no
// spend shows zero. Rows sort by category name.
func (s *ReportService) BudgetStatus(ctx context.Context, userID string, year, month int) ([]core.BudgetStatusRow, error) {
	if month < 1 || month > 12 {
		return nil, core.Invalidf("month must be 1..12")
	}
	if year < 1 {
		return nil, core.Invalidf("year must be positive")
	}

	key := fmt.Sprintf("%s:status:%d-%d", userID, year, month)
	if v, ok := s.cached(key); ok {
		if rows, ok := v.([]core.BudgetStatusRow); ok {
			return rows, nil
		}
	}

	budgets, err := s.repo.ListBudgets(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}

	names, err := s.repo.CategoryNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	from, to := core.MonthWindow(year, month)
	txs, err := s.repo.TransactionsInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	spent := make(map[string]decimal.Decimal)
	for _, t := range txs {
		if t.Type == core.Expense {
			spent[t.CategoryID] = spent[t.CategoryID].Add(t.Amount)
		}
	}

	rows := make([]core.BudgetStatusRow, 0, len(budgets))
	for _, b := range budgets {
		name, ok := names[b.CategoryID]
		if !ok {
			name = core.DeletedCategoryName
		}
		rows = append(rows, core.BudgetStatusRow{
			ID:           b.ID,
			CategoryID:   b.CategoryID,
			CategoryName: name,
			Amount:       b.Amount,
			Spent:        spent[b.CategoryID],
			Year:         b.Year,
			Month:        b.Month,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CategoryName != rows[j].CategoryName {
			return rows[i].CategoryName < rows[j].CategoryName
		}
		return rows[i].CategoryID < rows[j].CategoryID
	})

	s.store(key, rows)
	return rows, nil
}

// YearlySummary returns twelve entries, one per month of the year, with the
// total budgeted amount next to the total expense spend. Months without
// budgets or transactions carry zeros.
func (s *ReportService) YearlySummary(ctx context.Context, userID string, year int) ([]core.YearlySummaryEntry, error) {
	if year < 1 {
		return nil, core.Invalidf("year must be positive")
	}

	key := fmt.Sprintf("%s:yearly:%d", userID, year)
	if v, ok := s.cached(key); ok {
		if entries, ok := v.([]core.YearlySummaryEntry); ok {
			return entries, nil
		}
	}

	budgets, err := s.repo.ListBudgetsForYear(ctx, userID, year)
	if err != nil {
		return nil, err
	}

	from, to := core.YearWindow(year)
	txs, err := s.repo.TransactionsInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	entries := make([]core.YearlySummaryEntry, 12)
	for m := 1; m <= 12; m++ {
		entries[m-1].Month = m
	}
	for _, b := range budgets {
		entries[b.Month-1].Budget = entries[b.Month-1].Budget.Add(b.Amount)
	}
	for _, t := range txs {
		if t.Type == core.Expense {
			m := int(t.OccurredOn.Month())
			entries[m-1].Spent = entries[m-1].Spent.Add(t.Amount)
		}
	}

	s.store(key, entries)
	return entries, nil
}

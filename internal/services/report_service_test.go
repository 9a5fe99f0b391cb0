package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bilancio/internal/core"
)

func TestMonthlySummarySparseAscending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	groceries := env.mkCategory(t, "Groceries", false)
	salary := env.mkCategory(t, "Salary", true)

	env.mkTransaction(t, salary, core.Income, "1500.00", day(2025, time.March, 1))
	env.mkTransaction(t, groceries, core.Expense, "50.00", day(2025, time.March, 15))
	env.mkTransaction(t, groceries, core.Expense, "30.00", day(2025, time.January, 10))
	// Different year, must not leak in.
	env.mkTransaction(t, groceries, core.Expense, "99.00", day(2024, time.March, 10))

	entries, err := env.reports.MonthlySummary(ctx, env.user.ID, 2025)
	require.NoError(t, err)
	require.Len(t, entries, 2, "months without transactions are absent")

	assert.Equal(t, 1, entries[0].Month)
	assert.True(t, entries[0].Income.IsZero())
	assert.True(t, entries[0].Expense.Equal(dec("30.00")))

	assert.Equal(t, 3, entries[1].Month)
	assert.True(t, entries[1].Income.Equal(dec("1500.00")))
	assert.True(t, entries[1].Expense.Equal(dec("50.00")))
}

func TestBudgetStatusGroceriesScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	groceries := env.mkCategory(t, "Groceries", false)

	env.mkTransaction(t, groceries, core.Expense, "50.00", day(2025, time.March, 15))
	_, err := env.budgets.Upsert(ctx, env.user.ID, BudgetInput{
		CategoryID: groceries.ID, Year: 2025, Month: 3, Amount: dec("200.00"),
	})
	require.NoError(t, err)

	rows, err := env.reports.BudgetStatus(ctx, env.user.ID, 2025, 3)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, groceries.ID, rows[0].CategoryID)
	assert.Equal(t, "Groceries", rows[0].CategoryName)
	assert.True(t, rows[0].Amount.Equal(dec("200.00")))
	assert.True(t, rows[0].Spent.Equal(dec("50.00")))
	assert.Equal(t, 2025, rows[0].Year)
	assert.Equal(t, 3, rows[0].Month)
}

func TestBudgetStatusIgnoresIncomeAndOtherMonths(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	groceries := env.mkCategory(t, "Groceries", false)
	salary := env.mkCategory(t, "Salary", true)

	env.mkTransaction(t, groceries, core.Expense, "50.00", day(2025, time.March, 15))
	env.mkTransaction(t, groceries, core.Expense, "40.00", day(2025, time.April, 2))
	env.mkTransaction(t, salary, core.Income, "1500.00", day(2025, time.March, 1))

	_, err := env.budgets.Upsert(ctx, env.user.ID, BudgetInput{
		CategoryID: groceries.ID, Year: 2025, Month: 3, Amount: dec("200.00"),
	})
	require.NoError(t, err)

	rows, err := env.reports.BudgetStatus(ctx, env.user.ID, 2025, 3)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Spent.Equal(dec("50.00")), "only expenses of the budget month count")
}

func TestBudgetStatusDeletedCategoryFallback(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	groceries := env.mkCategory(t, "Groceries", false)

	_, err := env.budgets.Upsert(ctx, env.user.ID, BudgetInput{
		CategoryID: groceries.ID, Year: 2025, Month: 3, Amount: dec("200.00"),
	})
	require.NoError(t, err)
	_, err = env.budgets.Upsert(ctx, env.user.ID, BudgetInput{
		CategoryID: uuid.NewString(), Year: 2025, Month: 3, Amount: dec("80.00"),
	})
	require.NoError(t, err)

	rows, err := env.reports.BudgetStatus(ctx, env.user.ID, 2025, 3)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// "(deleted)" sorts before "Groceries".
	assert.Equal(t, core.DeletedCategoryName, rows[0].CategoryName)
	assert.True(t, rows[0].Spent.IsZero())
	assert.True(t, rows[0].Amount.Equal(dec("80.00")))
	assert.Equal(t, "Groceries", rows[1].CategoryName)
}

func TestBudgetStatusValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.reports.BudgetStatus(ctx, env.user.ID, 2025, 0)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	_, err = env.reports.BudgetStatus(ctx, env.user.ID, 2025, 13)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	_, err = env.reports.BudgetStatus(ctx, env.user.ID, 0, 3)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestYearlySummaryZeroFilled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	groceries := env.mkCategory(t, "Groceries", false)
	rent := env.mkCategory(t, "Rent", false)

	_, err := env.budgets.Upsert(ctx, env.user.ID, BudgetInput{
		CategoryID: groceries.ID, Year: 2025, Month: 5, Amount: dec("200.00"),
	})
	require.NoError(t, err)
	_, err = env.budgets.Upsert(ctx, env.user.ID, BudgetInput{
		CategoryID: rent.ID, Year: 2025, Month: 5, Amount: dec("800.00"),
	})
	require.NoError(t, err)
	env.mkTransaction(t, groceries, core.Expense, "120.00", day(2025, time.May, 20))
	env.mkTransaction(t, groceries, core.Expense, "15.00", day(2025, time.July, 3))

	entries, err := env.reports.YearlySummary(ctx, env.user.ID, 2025)
	require.NoError(t, err)
	require.Len(t, entries, 12)

	for i, e := range entries {
		assert.Equal(t, i+1, e.Month)
	}
	assert.True(t, entries[4].Budget.Equal(dec("1000.00")), "budgets of one month sum")
	assert.True(t, entries[4].Spent.Equal(dec("120.00")))
	assert.True(t, entries[6].Budget.IsZero())
	assert.True(t, entries[6].Spent.Equal(dec("15.00")))
	assert.True(t, entries[0].Budget.IsZero())
	assert.True(t, entries[0].Spent.IsZero())
}

func TestReportsRefreshAfterMutation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	groceries := env.mkCategory(t, "Groceries", false)
	env.mkTransaction(t, groceries, core.Expense, "50.00", day(2025, time.March, 15))

	entries, err := env.reports.MonthlySummary(ctx, env.user.ID, 2025)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// The cached report must not survive a ledger mutation.
	env.mkTransaction(t, groceries, core.Expense, "10.00", day(2025, time.April, 1))

	entries, err = env.reports.MonthlySummary(ctx, env.user.ID, 2025)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

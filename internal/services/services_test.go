package services

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bilancio/internal/amqp"
	"bilancio/internal/auth"
	"bilancio/internal/cache"
	"bilancio/internal/core"
	"bilancio/internal/log"
	"bilancio/internal/storage"
)

// fakePublisher records audit events instead of talking to a broker.
type fakePublisher struct {
	events []*amqp.LedgerEvent
}

func (f *fakePublisher) PublishLedgerEvent(_ context.Context, ev *amqp.LedgerEvent) error {
	f.events = append(f.events, ev)
	return nil
}

type testEnv struct {
	repo         *storage.SQLiteRepository
	events       *fakePublisher
	reports      *ReportService
	categories   *CategoryService
	transactions *TransactionService
	budgets      *BudgetService
	auth         *AuthService
	user         core.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	logger := log.New(log.Config{Level: slog.LevelError, Component: log.ComponentApp})
	events := &fakePublisher{}
	reports := NewReportService(repo, cache.NewLRU[any](64, time.Minute), logger)

	env := &testEnv{
		repo:         repo,
		events:       events,
		reports:      reports,
		categories:   NewCategoryService(repo, events, reports, logger),
		transactions: NewTransactionService(repo, events, reports, logger, true),
		budgets:      NewBudgetService(repo, events, reports, logger),
		auth:         NewAuthService(repo, auth.NewTokenIssuer("test-secret", time.Hour), logger),
	}

	env.user, err = env.auth.Register(context.Background(), "mario@example.com", "correct-horse")
	require.NoError(t, err)
	return env
}

func (e *testEnv) mkCategory(t *testing.T, name string, isIncome bool) core.Category {
	t.Helper()
	c, err := e.categories.Create(context.Background(), e.user.ID, name, isIncome)
	require.NoError(t, err)
	return c
}

func (e *testEnv) mkTransaction(t *testing.T, c core.Category, typ core.TransactionType, amount string, on core.Instant) core.Transaction {
	t.Helper()
	tx, err := e.transactions.Create(context.Background(), e.user.ID, TransactionInput{
		CategoryID: c.ID,
		Type:       typ,
		Amount:     dec(amount),
		OccurredOn: on,
	})
	require.NoError(t, err)
	return tx
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(year int, month time.Month, d int) core.Instant {
	return core.KnownInstant(time.Date(year, month, d, 12, 0, 0, 0, time.UTC))
}

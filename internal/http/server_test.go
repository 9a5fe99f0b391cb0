package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bilancio/internal/auth"
	"bilancio/internal/cache"
	"bilancio/internal/log"
	"bilancio/internal/services"
	"bilancio/internal/storage"
)

type testAPI struct {
	srv   *httptest.Server
	token string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	logger := log.New(log.Config{Level: slog.LevelError, Component: log.ComponentApp})
	tokens := auth.NewTokenIssuer("test-secret-test-secret", time.Hour)
	reports := services.NewReportService(repo, cache.NewLRU[any](64, time.Minute), logger)

	server := NewServer(":0", Deps{
		Auth:         services.NewAuthService(repo, tokens, logger),
		Categories:   services.NewCategoryService(repo, nil, reports, logger),
		Transactions: services.NewTransactionService(repo, nil, reports, logger, true),
		Budgets:      services.NewBudgetService(repo, nil, reports, logger),
		Reports:      reports,
		Tokens:       tokens,
		Logger:       logger,
	}, Options{RequestsPerMinute: 10000})

	srv := httptest.NewServer(server.Handler)
	t.Cleanup(srv.Close)

	api := &testAPI{srv: srv}
	api.do(t, http.MethodPost, "/api/register", map[string]any{
		"email": "mario@example.com", "password": "correct-horse",
	}, http.StatusCreated, nil)

	var login map[string]string
	api.do(t, http.MethodPost, "/api/login", map[string]any{
		"email": "mario@example.com", "password": "correct-horse",
	}, http.StatusOK, &login)
	require.NotEmpty(t, login["token"])
	api.token = login["token"]
	return api
}

// do sends a JSON request, asserts the status, and decodes the body into out
// when out is non-nil. It returns the response for header checks.
func (a *testAPI) do(t *testing.T, method, path string, body any, wantStatus int, out any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, a.srv.URL+path, reader)
	require.NoError(t, err)
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, wantStatus, resp.StatusCode, "unexpected status for %s %s: %s", method, path, raw)

	if out != nil {
		require.NoError(t, json.Unmarshal(raw, out))
	}
	return resp
}

func (a *testAPI) createCategory(t *testing.T, name string, isIncome bool) categoryResponse {
	t.Helper()
	var c categoryResponse
	a.do(t, http.MethodPost, "/api/categories", map[string]any{
		"name": name, "isIncome": isIncome,
	}, http.StatusCreated, &c)
	return c
}

func TestAuthRequired(t *testing.T) {
	api := newTestAPI(t)

	anon := &testAPI{srv: api.srv}
	anon.do(t, http.MethodGet, "/api/categories", nil, http.StatusUnauthorized, nil)

	forged := &testAPI{srv: api.srv, token: "not-a-real-token"}
	forged.do(t, http.MethodGet, "/api/categories", nil, http.StatusUnauthorized, nil)
}

func TestRegisterConflictAndValidation(t *testing.T) {
	api := newTestAPI(t)

	api.do(t, http.MethodPost, "/api/register", map[string]any{
		"email": "mario@example.com", "password": "another-pass",
	}, http.StatusConflict, nil)

	api.do(t, http.MethodPost, "/api/register", map[string]any{
		"email": "not-an-email", "password": "long-enough",
	}, http.StatusBadRequest, nil)

	api.do(t, http.MethodPost, "/api/login", map[string]any{
		"email": "mario@example.com", "password": "wrong-password",
	}, http.StatusUnauthorized, nil)
}

func TestCategoryLifecycle(t *testing.T) {
	api := newTestAPI(t)

	groceries := api.createCategory(t, "Groceries", false)
	api.createCategory(t, "Salary", true)

	var listed []categoryResponse
	api.do(t, http.MethodGet, "/api/categories", nil, http.StatusOK, &listed)
	require.Len(t, listed, 2)
	assert.Equal(t, "Salary", listed[0].Name, "income categories come first")
	assert.Equal(t, "Groceries", listed[1].Name)

	// Duplicate name conflicts.
	api.do(t, http.MethodPost, "/api/categories", map[string]any{
		"name": "Groceries",
	}, http.StatusConflict, nil)

	var patched categoryResponse
	api.do(t, http.MethodPatch, "/api/categories/"+groceries.ID, map[string]any{
		"isArchived": true,
	}, http.StatusOK, &patched)
	assert.True(t, patched.IsArchived)
	assert.Equal(t, "Groceries", patched.Name)

	api.do(t, http.MethodGet, "/api/categories", nil, http.StatusOK, &listed)
	require.Len(t, listed, 1, "archived categories are hidden by default")

	api.do(t, http.MethodGet, "/api/categories?includeArchived=true", nil, http.StatusOK, &listed)
	require.Len(t, listed, 2)
}

func TestTransactionLifecycle(t *testing.T) {
	api := newTestAPI(t)
	groceries := api.createCategory(t, "Groceries", false)

	var tx transactionResponse
	api.do(t, http.MethodPost, "/api/transactions", map[string]any{
		"categoryId": groceries.ID,
		"type":       "expense",
		"amount":     "50,00",
		"occurredOn": "2025-03-15",
		"note":       "weekly shop",
	}, http.StatusCreated, &tx)
	assert.Equal(t, "Expense", tx.Type)
	assert.Equal(t, "50.00", tx.Amount, "comma amounts parse to fixed-point")
	assert.Equal(t, "2025-03-15T00:00:00Z", tx.OccurredOn, "bare dates become midnight UTC")

	// Type mismatch is a 400, not a 404.
	api.do(t, http.MethodPost, "/api/transactions", map[string]any{
		"categoryId": groceries.ID,
		"type":       "Income",
		"amount":     "10",
		"occurredOn": "2025-03-15",
	}, http.StatusBadRequest, nil)

	var got transactionResponse
	api.do(t, http.MethodGet, "/api/transactions/"+tx.ID, nil, http.StatusOK, &got)
	assert.Equal(t, tx.ID, got.ID)

	api.do(t, http.MethodPatch, "/api/transactions/"+tx.ID, map[string]any{
		"amount": "60.00",
	}, http.StatusOK, &got)
	assert.Equal(t, "60.00", got.Amount)
	assert.Equal(t, "weekly shop", got.Note, "untouched fields survive the patch")

	api.do(t, http.MethodDelete, "/api/transactions/"+tx.ID, nil, http.StatusNoContent, nil)
	api.do(t, http.MethodDelete, "/api/transactions/"+tx.ID, nil, http.StatusNotFound, nil)
}

func TestTransactionListFiltersAndTotalCount(t *testing.T) {
	api := newTestAPI(t)
	groceries := api.createCategory(t, "Groceries", false)

	for d := 1; d <= 3; d++ {
		api.do(t, http.MethodPost, "/api/transactions", map[string]any{
			"categoryId": groceries.ID,
			"type":       "Expense",
			"amount":     "10.00",
			"occurredOn": fmt.Sprintf("2025-03-0%d", d),
		}, http.StatusCreated, nil)
	}

	var listed []transactionResponse
	resp := api.do(t, http.MethodGet, "/api/transactions?page=1&pageSize=2", nil, http.StatusOK, &listed)
	assert.Equal(t, "3", resp.Header.Get("X-Total-Count"))
	require.Len(t, listed, 2)
	assert.Equal(t, "2025-03-03T00:00:00Z", listed[0].OccurredOn, "newest first")

	// to is exclusive: the transaction on the 2nd is out.
	resp = api.do(t, http.MethodGet, "/api/transactions?from=2025-03-01&to=2025-03-02", nil, http.StatusOK, &listed)
	assert.Equal(t, "1", resp.Header.Get("X-Total-Count"))
	require.Len(t, listed, 1)
	assert.Equal(t, "2025-03-01T00:00:00Z", listed[0].OccurredOn)

	api.do(t, http.MethodGet, "/api/transactions?type=sideways", nil, http.StatusBadRequest, nil)
	api.do(t, http.MethodGet, "/api/transactions?page=0", nil, http.StatusBadRequest, nil)
}

func TestBudgetUpsertStatusCodes(t *testing.T) {
	api := newTestAPI(t)
	groceries := api.createCategory(t, "Groceries", false)

	body := map[string]any{
		"categoryId": groceries.ID, "year": 2025, "month": 3, "amount": "200.00",
	}
	api.do(t, http.MethodPut, "/api/budgets", body, http.StatusCreated, nil)

	body["amount"] = "250.00"
	api.do(t, http.MethodPut, "/api/budgets", body, http.StatusNoContent, nil)

	var budgets []budgetResponse
	api.do(t, http.MethodGet, "/api/budgets?year=2025&month=3", nil, http.StatusOK, &budgets)
	require.Len(t, budgets, 1)
	assert.Equal(t, "250.00", budgets[0].Amount)

	body["month"] = 13
	api.do(t, http.MethodPut, "/api/budgets", body, http.StatusBadRequest, nil)

	api.do(t, http.MethodDelete, "/api/budgets/"+budgets[0].ID, nil, http.StatusNoContent, nil)
	api.do(t, http.MethodDelete, "/api/budgets/"+budgets[0].ID, nil, http.StatusNotFound, nil)
}

func TestReportsEndToEnd(t *testing.T) {
	api := newTestAPI(t)
	groceries := api.createCategory(t, "Groceries", false)

	api.do(t, http.MethodPost, "/api/transactions", map[string]any{
		"categoryId": groceries.ID,
		"type":       "Expense",
		"amount":     "50.00",
		"occurredOn": "2025-03-15",
	}, http.StatusCreated, nil)
	api.do(t, http.MethodPut, "/api/budgets", map[string]any{
		"categoryId": groceries.ID, "year": 2025, "month": 3, "amount": "200.00",
	}, http.StatusCreated, nil)

	var monthly []monthlySummaryResponse
	api.do(t, http.MethodGet, "/api/reports/monthly?year=2025", nil, http.StatusOK, &monthly)
	require.Len(t, monthly, 1)
	assert.Equal(t, 3, monthly[0].Month)
	assert.Equal(t, "50.00", monthly[0].Expense)
	assert.Equal(t, "0.00", monthly[0].Income)

	var status []budgetStatusResponse
	api.do(t, http.MethodGet, "/api/reports/budget-status?year=2025&month=3", nil, http.StatusOK, &status)
	require.Len(t, status, 1)
	assert.Equal(t, "Groceries", status[0].CategoryName)
	assert.Equal(t, "200.00", status[0].Amount)
	assert.Equal(t, "50.00", status[0].Spent)

	var yearly []yearlySummaryResponse
	api.do(t, http.MethodGet, "/api/reports/yearly?year=2025", nil, http.StatusOK, &yearly)
	require.Len(t, yearly, 12)
	assert.Equal(t, "200.00", yearly[2].Budget)
	assert.Equal(t, "50.00", yearly[2].Spent)
	assert.Equal(t, "0.00", yearly[0].Budget)
}

func TestExportTransactions(t *testing.T) {
	api := newTestAPI(t)
	groceries := api.createCategory(t, "Groceries", false)
	api.do(t, http.MethodPost, "/api/transactions", map[string]any{
		"categoryId": groceries.ID,
		"type":       "Expense",
		"amount":     "50.00",
		"occurredOn": "2025-03-15",
	}, http.StatusCreated, nil)

	req, err := http.NewRequest(http.MethodGet, api.srv.URL+"/api/transactions/export", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+api.token)

	resp, err := api.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestHealthEndpoints(t *testing.T) {
	api := newTestAPI(t)

	anon := &testAPI{srv: api.srv}
	anon.do(t, http.MethodGet, "/healthz", nil, http.StatusOK, nil)
	anon.do(t, http.MethodGet, "/readyz", nil, http.StatusOK, nil)
}

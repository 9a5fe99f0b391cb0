package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"
)

// UpsertBudget inserts a budget row or overwrites the amount of the existing
// row for the same (user, category, year, month) key. It reports whether a
// new row was created. The check-then-write runs inside one transaction; a
// race that still trips the unique constraint comes back as a Conflict for
// the caller to retry.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, b core.Budget) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin budget upsert: %w", err)
	}
	defer tx.Rollback()

	var existingID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM budgets WHERE user_id = ? AND category_id = ? AND year = ? AND month = ?`,
		b.UserID, b.CategoryID, b.Year, b.Month).Scan(&existingID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx,
			`INSERT INTO budgets (id, user_id, category_id, year, month, amount) VALUES (?, ?, ?, ?, ?, ?)`,
			b.ID, b.UserID, b.CategoryID, b.Year, b.Month, b.Amount.String())
		if isUniqueViolation(err) {
			return false, core.Conflictf("budget for this category and month already exists")
		}
		if err != nil {
			return false, fmt.Errorf("insert budget: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("commit budget insert: %w", err)
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("lookup budget: %w", err)
	default:
		if _, err := tx.ExecContext(ctx,
			`UPDATE budgets SET amount = ? WHERE id = ?`, b.Amount.String(), existingID); err != nil {
			return false, fmt.Errorf("update budget: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("commit budget update: %w", err)
		}
		return false, nil
	}
}

// DeleteBudget hard-deletes a budget row owned by the user. A row owned by
// someone else is NotFound, same as a missing one.
func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete budget rows affected: %w", err)
	}
	if affected == 0 {
		return core.NotFoundf("budget not found")
	}
	return nil
}

// ListBudgets returns the user's budget rows for one month.
func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID string, year, month int) ([]core.Budget, error) {
	return r.queryBudgets(ctx,
		`SELECT id, user_id, category_id, year, month, amount
		 FROM budgets WHERE user_id = ? AND year = ? AND month = ?`,
		userID, year, month)
}

// ListBudgetsForYear returns all the user's budget rows of a year.
func (r *SQLiteRepository) ListBudgetsForYear(ctx context.Context, userID string, year int) ([]core.Budget, error) {
	return r.queryBudgets(ctx,
		`SELECT id, user_id, category_id, year, month, amount
		 FROM budgets WHERE user_id = ? AND year = ?`,
		userID, year)
}

func (r *SQLiteRepository) queryBudgets(ctx context.Context, query string, args ...any) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		var amount string
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Year, &b.Month, &amount); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse stored amount %q: %w", amount, err)
		}
		b.Amount = d
		out = append(out, b)
	}
	return out, rows.Err()
}

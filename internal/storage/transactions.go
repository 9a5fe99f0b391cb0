package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"
)

// CreateTransaction inserts a transaction row.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, category_id, type, amount, occurred_on, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.CategoryID, string(t.Type), t.Amount.String(), t.OccurredOn.UTC().Unix(), t.Note)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetUserTransaction returns a transaction only when it belongs to the user;
// anything else is NotFound so ids never leak across users.
func (r *SQLiteRepository) GetUserTransaction(ctx context.Context, id, userID string) (core.Transaction, error) {
	return scanTransactionRow(r.db.QueryRowContext(ctx,
		`SELECT id, user_id, category_id, type, amount, occurred_on, note
		 FROM transactions WHERE id = ? AND user_id = ?`, id, userID))
}

// GetTransaction returns a transaction by id.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	return scanTransactionRow(r.db.QueryRowContext(ctx,
		`SELECT id, user_id, category_id, type, amount, occurred_on, note
		 FROM transactions WHERE id = ?`, id))
}

// UpdateTransaction overwrites the mutable fields of an existing row.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET category_id = ?, type = ?, amount = ?, occurred_on = ?, note = ?
		 WHERE id = ?`,
		t.CategoryID, string(t.Type), t.Amount.String(), t.OccurredOn.UTC().Unix(), t.Note, t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update transaction rows affected: %w", err)
	}
	if affected == 0 {
		return core.NotFoundf("transaction not found")
	}
	return nil
}

// DeleteTransaction hard-deletes a row.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction rows affected: %w", err)
	}
	if affected == 0 {
		return core.NotFoundf("transaction not found")
	}
	return nil
}

// ListTransactions returns one page ordered by occurredOn descending plus
// the total row count for the same filter. From is inclusive, To exclusive.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string, f core.TransactionFilter, page core.Page) ([]core.Transaction, int64, error) {
	where := `WHERE user_id = ?`
	args := []any{userID}

	if f.From != nil {
		where += ` AND occurred_on >= ?`
		args = append(args, f.From.UTC().Unix())
	}
	if f.To != nil {
		where += ` AND occurred_on < ?`
		args = append(args, f.To.UTC().Unix())
	}
	if f.CategoryID != "" {
		where += ` AND category_id = ?`
		args = append(args, f.CategoryID)
	}
	if f.Type != nil {
		where += ` AND type = ?`
		args = append(args, string(*f.Type))
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	query := `SELECT id, user_id, category_id, type, amount, occurred_on, note
	          FROM transactions ` + where + `
	          ORDER BY occurred_on DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, page.Size, page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out, err := collectTransactions(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// TransactionsInRange returns every transaction for the user within the
// half-open [from, to) window, oldest first. The aggregation engine sums
// these in decimal arithmetic rather than in SQL.
func (r *SQLiteRepository) TransactionsInRange(ctx context.Context, userID string, from, to time.Time) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, category_id, type, amount, occurred_on, note
		 FROM transactions
		 WHERE user_id = ? AND occurred_on >= ? AND occurred_on < ?
		 ORDER BY occurred_on ASC, id ASC`,
		userID, from.UTC().Unix(), to.UTC().Unix())
	if err != nil {
		return nil, fmt.Errorf("transactions in range: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListUserTransactions returns every transaction for the user, newest first.
// Used by the export path.
func (r *SQLiteRepository) ListUserTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, category_id, type, amount, occurred_on, note
		 FROM transactions WHERE user_id = ?
		 ORDER BY occurred_on DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var t core.Transaction
	var typ, amount string
	var occurredOn int64
	if err := row.Scan(&t.ID, &t.UserID, &t.CategoryID, &typ, &amount, &occurredOn, &t.Note); err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored amount %q: %w", amount, err)
	}
	t.Type = core.TransactionType(typ)
	t.Amount = d
	t.OccurredOn = time.Unix(occurredOn, 0).UTC()
	return t, nil
}

func scanTransactionRow(row *sql.Row) (core.Transaction, error) {
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.NotFoundf("transaction not found")
	}
	return t, err
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bilancio/internal/core"
)

// CreateCategory inserts a category; a duplicate (user, name) is a Conflict.
func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, user_id, name, is_income, is_archived) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, c.IsIncome, c.IsArchived)
	if isUniqueViolation(err) {
		return core.Conflictf("category %q already exists", c.Name)
	}
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetCategory returns a category by id regardless of owner. Callers that
// enforce ownership use GetUserCategory.
func (r *SQLiteRepository) GetCategory(ctx context.Context, id string) (core.Category, error) {
	return r.scanCategory(r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, is_income, is_archived FROM categories WHERE id = ?`, id))
}

// GetUserCategory returns a category only when it belongs to the user.
func (r *SQLiteRepository) GetUserCategory(ctx context.Context, id, userID string) (core.Category, error) {
	return r.scanCategory(r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, is_income, is_archived FROM categories WHERE id = ? AND user_id = ?`,
		id, userID))
}

// UpdateCategory overwrites the mutable fields of an existing category.
func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, is_income = ?, is_archived = ? WHERE id = ?`,
		c.Name, c.IsIncome, c.IsArchived, c.ID)
	if isUniqueViolation(err) {
		return core.Conflictf("category %q already exists", c.Name)
	}
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update category rows affected: %w", err)
	}
	if affected == 0 {
		return core.NotFoundf("category not found")
	}
	return nil
}

// ListCategories returns the user's categories, income categories first,
// then by name. Archived rows are excluded unless includeArchived is set.
func (r *SQLiteRepository) ListCategories(ctx context.Context, userID string, includeArchived bool) ([]core.Category, error) {
	query := `SELECT id, user_id, name, is_income, is_archived
	          FROM categories WHERE user_id = ?`
	if !includeArchived {
		query += ` AND is_archived = 0`
	}
	query += ` ORDER BY CASE WHEN is_income = 1 THEN 0 ELSE 1 END, name ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.IsIncome, &c.IsArchived); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CategoryNames returns a map from category id to name for the user.
// Used by the aggregation side to resolve names with a deleted fallback.
func (r *SQLiteRepository) CategoryNames(ctx context.Context, userID string) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name FROM categories WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("list category names: %w", err)
	}
	defer rows.Close()

	names := make(map[string]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan category name: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}

func (r *SQLiteRepository) scanCategory(row *sql.Row) (core.Category, error) {
	var c core.Category
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.IsIncome, &c.IsArchived)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.NotFoundf("category not found")
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("scan category: %w", err)
	}
	return c, nil
}

package storage

import (
	"context"
	"fmt"
	"time"
)

// AuditEntry is one recorded ledger mutation.
type AuditEntry struct {
	ID         int64
	UserID     string
	Entity     string
	EntityID   string
	Action     string
	OccurredAt time.Time
}

// InsertAuditEntry appends a row to the audit log.
func (r *SQLiteRepository) InsertAuditEntry(ctx context.Context, e AuditEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (user_id, entity, entity_id, action, occurred_at) VALUES (?, ?, ?, ?, ?)`,
		e.UserID, e.Entity, e.EntityID, e.Action, e.OccurredAt.UTC().Unix())
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// RecentAuditEntries returns the newest entries for a user, most recent
// first, capped at limit.
func (r *SQLiteRepository) RecentAuditEntries(ctx context.Context, userID string, limit int) ([]AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, entity, entity_id, action, occurred_at
		 FROM audit_log WHERE user_id = ?
		 ORDER BY occurred_at DESC, id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var out []AuditEntry
	for rows.Next() {
		var e AuditEntry
		var occurredAt int64
		if err := rows.Scan(&e.ID, &e.UserID, &e.Entity, &e.EntityID, &e.Action, &occurredAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.OccurredAt = time.Unix(occurredAt, 0).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

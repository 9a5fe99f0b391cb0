// Package worker consumes the audit event stream and persists it.
package worker

import (
	"context"

	"bilancio/internal/amqp"
	"bilancio/internal/log"
	"bilancio/internal/storage"
)

// AuditWorker writes consumed ledger events into the audit log.
type AuditWorker struct {
	repo   *storage.SQLiteRepository
	logger *log.Logger
}

func NewAuditWorker(repo *storage.SQLiteRepository, logger *log.Logger) *AuditWorker {
	return &AuditWorker{
		repo:   repo,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleLedgerEvent persists one event. A returned error makes the consumer
// nack and requeue the delivery.
func (w *AuditWorker) HandleLedgerEvent(ev *amqp.LedgerEvent) error {
	ctx := context.Background()

	err := w.repo.InsertAuditEntry(ctx, storage.AuditEntry{
		UserID:     ev.UserID,
		Entity:     ev.Entity,
		EntityID:   ev.EntityID,
		Action:     ev.Action,
		OccurredAt: ev.Timestamp,
	})
	if err != nil {
		return err
	}

	w.logger.DebugContext(ctx, "Audit entry recorded",
		log.FieldUserID, ev.UserID,
		log.FieldEntity, ev.Entity,
		log.FieldEntityID, ev.EntityID,
		log.FieldAction, ev.Action)
	return nil
}

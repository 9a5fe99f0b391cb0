// Package services implements the ledger operations on top of the storage
// layer: ownership scoping, the category/type consistency rule, budget
// upserts and the aggregation reports.
package services

import (
	"context"

	"bilancio/internal/amqp"
	"bilancio/internal/log"
)

// EventPublisher is the slice of the AMQP client the services need. It is
// nil when no broker is configured.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, ev *amqp.LedgerEvent) error
}

// publishEvent sends an audit event best-effort. A broker failure is logged
// and swallowed; the mutation already committed and must not be rolled back
// over auditing.
func publishEvent(ctx context.Context, events EventPublisher, logger *log.Logger, entity, entityID, action, userID string) {
	if events == nil {
		return
	}
	ev := amqp.NewLedgerEvent(entity, entityID, action, userID)
	if err := events.PublishLedgerEvent(ctx, ev); err != nil {
		logger.WarnContext(ctx, "Failed to publish ledger event",
			log.FieldError, err,
			log.FieldEntity, entity,
			log.FieldEntityID, entityID,
			log.FieldAction, action)
	}
}

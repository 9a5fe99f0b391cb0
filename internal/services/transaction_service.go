package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
	"bilancio/internal/log"
	"bilancio/internal/storage"
)

// TransactionInput carries the fields of a new transaction.
type TransactionInput struct {
	CategoryID string
	Type       core.TransactionType
	Amount     decimal.Decimal
	OccurredOn core.Instant
	Note       string
}

type TransactionService struct {
	repo          *storage.SQLiteRepository
	events        EventPublisher
	reports       *ReportService
	logger        *log.Logger
	allowArchived bool
}

func NewTransactionService(repo *storage.SQLiteRepository, events EventPublisher, reports *ReportService, logger *log.Logger, allowArchived bool) *TransactionService {
	return &TransactionService{
		repo:          repo,
		events:        events,
		reports:       reports,
		logger:        logger.WithComponent(log.ComponentLedger),
		allowArchived: allowArchived,
	}
}

// checkCategory enforces the consistency rule: the category must exist,
// belong to the user, and agree with the transaction type. A category owned
// by someone else is indistinguishable from a missing one.
func (s *TransactionService) checkCategory(ctx context.Context, userID, categoryID string, typ core.TransactionType) error {
	c, err := s.repo.GetUserCategory(ctx, categoryID, userID)
	if errors.Is(err, core.ErrNotFound) {
		return core.Invalidf("invalid category")
	}
	if err != nil {
		return err
	}
	if c.IsArchived && !s.allowArchived {
		return core.Invalidf("category is archived")
	}
	if !typ.Matches(c) {
		return core.Invalidf("category type mismatch")
	}
	return nil
}

// Create records a transaction after the consistency check passes.
func (s *TransactionService) Create(ctx context.Context, userID string, in TransactionInput) (core.Transaction, error) {
	if in.Amount.IsNegative() {
		return core.Transaction{}, core.Invalidf("amount must not be negative")
	}
	if err := s.checkCategory(ctx, userID, in.CategoryID, in.Type); err != nil {
		return core.Transaction{}, err
	}

	t := core.Transaction{
		ID:         uuid.NewString(),
		UserID:     userID,
		CategoryID: in.CategoryID,
		Type:       in.Type,
		Amount:     in.Amount.Round(2),
		OccurredOn: in.OccurredOn.UTC(),
		Note:       in.Note,
	}
	if err := s.repo.CreateTransaction(ctx, t); err != nil {
		return core.Transaction{}, err
	}

	s.logger.InfoContext(ctx, "Transaction created",
		log.FieldUserID, userID,
		log.FieldEntityID, t.ID,
		log.FieldCategory, t.CategoryID,
		log.FieldAmount, core.FormatAmount(t.Amount))
	publishEvent(ctx, s.events, s.logger, amqp.EntityTransaction, t.ID, amqp.ActionCreated, userID)
	s.reports.Invalidate(userID)
	return t, nil
}

// Get returns one transaction owned by the user.
func (s *TransactionService) Get(ctx context.Context, userID, id string) (core.Transaction, error) {
	return s.repo.GetUserTransaction(ctx, id, userID)
}

// List returns one page of the user's transactions, newest first, plus the
// total count for the filter.
func (s *TransactionService) List(ctx context.Context, userID string, f core.TransactionFilter, page core.Page) ([]core.Transaction, int64, error) {
	if err := page.Validate(); err != nil {
		return nil, 0, err
	}
	return s.repo.ListTransactions(ctx, userID, f, page)
}

// Update applies a partial update and re-checks the consistency rule against
// the final category and type, whichever of the two the patch touched.
func (s *TransactionService) Update(ctx context.Context, userID, id string, patch core.TransactionPatch) (core.Transaction, error) {
	t, err := s.repo.GetUserTransaction(ctx, id, userID)
	if err != nil {
		return core.Transaction{}, err
	}

	if patch.CategoryID != nil {
		t.CategoryID = *patch.CategoryID
	}
	if patch.Type != nil {
		t.Type = *patch.Type
	}
	if patch.Amount != nil {
		if patch.Amount.IsNegative() {
			return core.Transaction{}, core.Invalidf("amount must not be negative")
		}
		t.Amount = patch.Amount.Round(2)
	}
	if patch.OccurredOn != nil {
		t.OccurredOn = patch.OccurredOn.UTC()
	}
	if patch.Note != nil {
		t.Note = *patch.Note
	}

	if err := s.checkCategory(ctx, userID, t.CategoryID, t.Type); err != nil {
		return core.Transaction{}, err
	}
	if err := s.repo.UpdateTransaction(ctx, t); err != nil {
		return core.Transaction{}, err
	}

	s.logger.InfoContext(ctx, "Transaction updated",
		log.FieldUserID, userID,
		log.FieldEntityID, t.ID)
	publishEvent(ctx, s.events, s.logger, amqp.EntityTransaction, t.ID, amqp.ActionUpdated, userID)
	s.reports.Invalidate(userID)
	return t, nil
}

// Delete removes a transaction owned by the user.
func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.repo.GetUserTransaction(ctx, id, userID); err != nil {
		return err
	}
	if err := s.repo.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Transaction deleted",
		log.FieldUserID, userID,
		log.FieldEntityID, id)
	publishEvent(ctx, s.events, s.logger, amqp.EntityTransaction, id, amqp.ActionDeleted, userID)
	s.reports.Invalidate(userID)
	return nil
}

// Export returns every transaction of the user, newest first.
func (s *TransactionService) Export(ctx context.Context, userID string) ([]core.Transaction, error) {
	return s.repo.ListUserTransactions(ctx, userID)
}

package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
	"bilancio/internal/log"
	"bilancio/internal/storage"
)

// BudgetInput carries the fields of a budget upsert.
type BudgetInput struct {
	CategoryID string
	Year       int
	Month      int
	Amount     decimal.Decimal
}

type BudgetService struct {
	repo    *storage.SQLiteRepository
	events  EventPublisher
	reports *ReportService
	logger  *log.Logger
}

func NewBudgetService(repo *storage.SQLiteRepository, events EventPublisher, reports *ReportService, logger *log.Logger) *BudgetService {
	return &BudgetService{
		repo:    repo,
		events:  events,
		reports: reports,
		logger:  logger.WithComponent(log.ComponentBudget),
	}
}

// Upsert creates the budget row for (category, year, month) or overwrites
// the amount of the existing one. It reports whether a row was created.
// The category id is not checked against the category store: a budget may
// outlive its category and then renders with the deleted-category fallback.
func (s *BudgetService) Upsert(ctx context.Context, userID string, in BudgetInput) (bool, error) {
	if in.CategoryID == "" {
		return false, core.Invalidf("category is required")
	}
	if in.Year < 1 {
		return false, core.Invalidf("year must be positive")
	}

	b := core.Budget{
		ID:         uuid.NewString(),
		UserID:     userID,
		CategoryID: in.CategoryID,
		Year:       in.Year,
		Month:      in.Month,
		Amount:     in.Amount.Round(2),
	}
	if err := b.Validate(); err != nil {
		return false, err
	}

	created, err := s.repo.UpsertBudget(ctx, b)
	if err != nil {
		return false, err
	}

	action := amqp.ActionUpdated
	if created {
		action = amqp.ActionCreated
	}
	s.logger.InfoContext(ctx, "Budget upserted",
		log.FieldUserID, userID,
		log.FieldCategory, in.CategoryID,
		log.FieldYear, in.Year,
		log.FieldMonth, in.Month,
		log.FieldAction, action)
	publishEvent(ctx, s.events, s.logger, amqp.EntityBudget, b.ID, action, userID)
	s.reports.Invalidate(userID)
	return created, nil
}

// List returns the user's budget rows for one month.
func (s *BudgetService) List(ctx context.Context, userID string, year, month int) ([]core.Budget, error) {
	if month < 1 || month > 12 {
		return nil, core.Invalidf("month must be 1..12")
	}
	return s.repo.ListBudgets(ctx, userID, year, month)
}

// Delete removes a budget row owned by the user.
func (s *BudgetService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteBudget(ctx, id, userID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Budget deleted",
		log.FieldUserID, userID,
		log.FieldEntityID, id)
	publishEvent(ctx, s.events, s.logger, amqp.EntityBudget, id, amqp.ActionDeleted, userID)
	s.reports.Invalidate(userID)
	return nil
}

package services

import (
	"context"

	"github.com/google/uuid"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
	"bilancio/internal/log"
	"bilancio/internal/storage"
)

type CategoryService struct {
	repo    *storage.SQLiteRepository
	events  EventPublisher
	reports *ReportService
	logger  *log.Logger
}

func NewCategoryService(repo *storage.SQLiteRepository, events EventPublisher, reports *ReportService, logger *log.Logger) *CategoryService {
	return &CategoryService{
		repo:    repo,
		events:  events,
		reports: reports,
		logger:  logger.WithComponent(log.ComponentLedger),
	}
}

// Create adds a category for the user. Names are unique per user.
func (s *CategoryService) Create(ctx context.Context, userID, name string, isIncome bool) (core.Category, error) {
	name, err := core.ValidateCategoryName(name)
	if err != nil {
		return core.Category{}, err
	}

	c := core.Category{
		ID:       uuid.NewString(),
		UserID:   userID,
		Name:     name,
		IsIncome: isIncome,
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return core.Category{}, err
	}

	s.logger.InfoContext(ctx, "Category created",
		log.FieldUserID, userID,
		log.FieldCategory, c.ID)
	publishEvent(ctx, s.events, s.logger, amqp.EntityCategory, c.ID, amqp.ActionCreated, userID)
	s.reports.Invalidate(userID)
	return c, nil
}

// List returns the user's categories, income categories first, then by name.
func (s *CategoryService) List(ctx context.Context, userID string, includeArchived bool) ([]core.Category, error) {
	return s.repo.ListCategories(ctx, userID, includeArchived)
}

// Names returns a map from category id to name for the user.
func (s *CategoryService) Names(ctx context.Context, userID string) (map[string]string, error) {
	return s.repo.CategoryNames(ctx, userID)
}

// Get returns one category owned by the user.
func (s *CategoryService) Get(ctx context.Context, userID, id string) (core.Category, error) {
	return s.repo.GetUserCategory(ctx, id, userID)
}

// Update applies a partial update. Nil patch fields keep their current
// values. Setting IsArchived archives or restores the category; archived
// categories stay referenced by their historical transactions.
func (s *CategoryService) Update(ctx context.Context, userID, id string, patch core.CategoryPatch) (core.Category, error) {
	c, err := s.repo.GetUserCategory(ctx, id, userID)
	if err != nil {
		return core.Category{}, err
	}

	if patch.Name != nil {
		name, err := core.ValidateCategoryName(*patch.Name)
		if err != nil {
			return core.Category{}, err
		}
		c.Name = name
	}
	if patch.IsIncome != nil {
		c.IsIncome = *patch.IsIncome
	}
	if patch.IsArchived != nil {
		c.IsArchived = *patch.IsArchived
	}

	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return core.Category{}, err
	}

	action := amqp.ActionUpdated
	if patch.IsArchived != nil && *patch.IsArchived {
		action = amqp.ActionArchived
	}
	s.logger.InfoContext(ctx, "Category updated",
		log.FieldUserID, userID,
		log.FieldCategory, c.ID,
		log.FieldAction, action)
	publishEvent(ctx, s.events, s.logger, amqp.EntityCategory, c.ID, action, userID)
	s.reports.Invalidate(userID)
	return c, nil
}

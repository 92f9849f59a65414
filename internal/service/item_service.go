package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/siaochanwu/appointment-api/internal/dto"
	"github.com/siaochanwu/appointment-api/internal/models"
	appErrors "github.com/siaochanwu/appointment-api/pkg/errors"
)

type itemRepository interface {
	List(ctx context.Context, filter models.ItemFilter) ([]models.Item, error)
	FindByID(ctx context.Context, id int64) (*models.Item, error)
	Create(ctx context.Context, item *models.Item) error
	Update(ctx context.Context, item *models.Item) error
}

// ItemService orchestrates CRUD workflow for service items. Like rooms,
// the unfiltered list is cached.
type ItemService struct {
	repo      itemRepository
	cache     cacheStore
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewItemService constructs an ItemService. cache may be nil to disable
// caching.
func NewItemService(repo itemRepository, cache cacheStore, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *ItemService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ItemService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns non-deleted items, serving unfiltered lookups from cache
// when possible.
func (s *ItemService) List(ctx context.Context, filter models.ItemFilter) ([]models.Item, error) {
	cacheable := s.cache != nil && filter == (models.ItemFilter{})
	const cacheKey = "items:list:all"

	if cacheable {
		var cached []models.Item
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list items")
	}

	if cacheable {
		if err := s.cache.Set(ctx, cacheKey, items, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache item list", zap.Error(err))
		}
	}
	return items, nil
}

// Get fetches one item by ID.
func (s *ItemService) Get(ctx context.Context, id int64) (*models.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get item")
	}
	return item, nil
}

// Create adds a new service item and invalidates the cached list.
func (s *ItemService) Create(ctx context.Context, req dto.CreateItemRequest) (*models.Item, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid item payload")
	}

	item := &models.Item{Type: req.Type, Name: req.Name, Code: req.Code, Duration: req.Duration}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create item")
	}
	s.invalidate(ctx)
	return item, nil
}

// Update applies partial changes to an existing service item.
func (s *ItemService) Update(ctx context.Context, id int64, req dto.UpdateItemRequest) (*models.Item, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid item payload")
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get item")
	}

	if req.Type != nil {
		item.Type = *req.Type
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Code != nil {
		item.Code = *req.Code
	}
	if req.Duration != nil {
		item.Duration = *req.Duration
	}
	if req.Deleted != nil {
		item.Deleted = *req.Deleted
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update item")
	}
	s.invalidate(ctx)
	return item, nil
}

func (s *ItemService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "items:*"); err != nil {
		s.logger.Warn("failed to invalidate item cache", zap.Error(err))
	}
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"foodgram-backend/internal/domains/ingredient/model"
	"foodgram-backend/internal/domains/ingredient/repository"
	"foodgram-backend/pkg/cache"
	"foodgram-backend/pkg/logger"
	"foodgram-backend/pkg/metrics"
)

const (
	cacheFamily    = "ingredients"
	cacheKeySearch = "ingredients:search:"
	cachePattern   = "ingredients:*"
)

type ingredientService struct {
	repo  repository.IngredientRepository
	cache cache.Cache
	ttl   time.Duration
}

func NewIngredientService(repo repository.IngredientRepository, c cache.Cache, ttl time.Duration) ServiceInterface {
	return &ingredientService{repo: repo, cache: c, ttl: ttl}
}

// Search - prefix search, kết quả được cache theo prefix đã lowercase
func (s *ingredientService) Search(ctx context.Context, name string) ([]model.Ingredient, error) {
	prefix := strings.ToLower(strings.TrimSpace(name))
	key := cacheKeySearch + prefix

	var items []model.Ingredient
	found, err := s.cache.Get(ctx, key, &items)
	if err != nil {
		logger.Warn("ingredient cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		found = false
	}
	metrics.ObserveCache(cacheFamily, found)
	if found {
		return items, nil
	}

	items, err = s.repo.Search(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Ingredient{}
	}
	if err := s.cache.Set(ctx, key, items, s.ttl); err != nil {
		logger.Warn("ingredient cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	return items, nil
}

func (s *ingredientService) Get(ctx context.Context, id uuid.UUID) (*model.Ingredient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ingredientService) Create(ctx context.Context, req model.CreateRequest) (*model.Ingredient, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	ing, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	logger.Info("ingredient created", map[string]interface{}{"ingredient_id": ing.ID.String()})
	return ing, nil
}

func (s *ingredientService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ingredientService) Import(ctx context.Context, rows []model.CreateRequest) (int, error) {
	for i := range rows {
		rows[i].Normalize()
		if err := rows[i].Validate(); err != nil {
			return 0, fmt.Errorf("row %d (%q): %w", i+1, rows[i].Name, err)
		}
	}
	inserted, err := s.repo.BulkInsert(ctx, rows)
	if err != nil {
		return 0, err
	}
	if inserted > 0 {
		s.invalidate(ctx)
	}
	logger.Info("ingredients imported", map[string]interface{}{"total": len(rows), "inserted": inserted})
	return inserted, nil
}

func (s *ingredientService) invalidate(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, cachePattern); err != nil {
		logger.Warn("ingredient cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}

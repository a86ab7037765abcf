package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"foodgram-backend/internal/domains/tag/model"
	"foodgram-backend/internal/domains/tag/repository"
	"foodgram-backend/pkg/cache"
	"foodgram-backend/pkg/logger"
	"foodgram-backend/pkg/metrics"
)

const (
	cacheFamily  = "tags"
	cacheKeyAll  = "tags:all"
	cacheKeyByID = "tags:id:"
	cachePattern = "tags:*"
)

type tagService struct {
	repo  repository.TagRepository
	cache cache.Cache
	ttl   time.Duration
}

func NewTagService(repo repository.TagRepository, c cache.Cache, ttl time.Duration) ServiceInterface {
	return &tagService{repo: repo, cache: c, ttl: ttl}
}

func (s *tagService) List(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if s.fromCache(ctx, cacheKeyAll, &tags) {
		return tags, nil
	}

	tags, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []model.Tag{}
	}
	s.toCache(ctx, cacheKeyAll, tags)
	return tags, nil
}

func (s *tagService) Get(ctx context.Context, id uuid.UUID) (*model.Tag, error) {
	key := cacheKeyByID + id.String()
	var tag model.Tag
	if s.fromCache(ctx, key, &tag) {
		return &tag, nil
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, key, t)
	return t, nil
}

func (s *tagService) Import(ctx context.Context, tags []model.Tag) (int, error) {
	for i := range tags {
		tags[i].Normalize()
		if err := tags[i].Validate(); err != nil {
			return 0, fmt.Errorf("row %d (%q): %w", i+1, tags[i].Name, err)
		}
	}

	inserted, err := s.repo.BulkInsert(ctx, tags)
	if err != nil {
		return 0, err
	}
	if inserted > 0 {
		if err := s.cache.DeletePattern(ctx, cachePattern); err != nil {
			logger.Warn("tag cache invalidation failed", map[string]interface{}{"error": err.Error()})
		}
	}
	logger.Info("tags imported", map[string]interface{}{"total": len(tags), "inserted": inserted})
	return inserted, nil
}

// fromCache treats cache errors as misses; Postgres stays the source of truth.
func (s *tagService) fromCache(ctx context.Context, key string, dest interface{}) bool {
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		logger.Warn("tag cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		found = false
	}
	metrics.ObserveCache(cacheFamily, found)
	return found
}

func (s *tagService) toCache(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		logger.Warn("tag cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

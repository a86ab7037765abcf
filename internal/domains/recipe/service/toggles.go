package service

import (
	"context"

	"github.com/google/uuid"

	"foodgram-backend/internal/domains/recipe/model"
	"foodgram-backend/internal/shared/viewer"
)

func (s *recipeService) AddFavorite(ctx context.Context, v viewer.Viewer, id uuid.UUID) (*model.BriefRecipe, error) {
	return s.add(ctx, v, id, s.repo.AddFavorite)
}

func (s *recipeService) RemoveFavorite(ctx context.Context, v viewer.Viewer, id uuid.UUID) error {
	return s.remove(ctx, v, id, s.repo.RemoveFavorite)
}

func (s *recipeService) AddToCart(ctx context.Context, v viewer.Viewer, id uuid.UUID) (*model.BriefRecipe, error) {
	return s.add(ctx, v, id, s.repo.AddPurchase)
}

func (s *recipeService) RemoveFromCart(ctx context.Context, v viewer.Viewer, id uuid.UUID) error {
	return s.remove(ctx, v, id, s.repo.RemovePurchase)
}

type relationFunc func(ctx context.Context, userID, recipeID uuid.UUID) error

// add: recipe phải tồn tại (404), insert trùng → Conflict từ repository
func (s *recipeService) add(ctx context.Context, v viewer.Viewer, id uuid.UUID, insert relationFunc) (*model.BriefRecipe, error) {
	if v.IsAnonymous() {
		return nil, model.ErrUnauthenticated
	}
	brief, err := s.repo.GetBrief(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := insert(ctx, v.UserID, id); err != nil {
		return nil, err
	}
	return brief, nil
}

func (s *recipeService) remove(ctx context.Context, v viewer.Viewer, id uuid.UUID, del relationFunc) error {
	if v.IsAnonymous() {
		return model.ErrUnauthenticated
	}
	if _, err := s.repo.GetBrief(ctx, id); err != nil {
		return err
	}
	return del(ctx, v.UserID, id)
}

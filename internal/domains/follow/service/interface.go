package service

import (
	"context"

	"github.com/google/uuid"

	"foodgram-backend/internal/domains/follow/model"
	recipeModel "foodgram-backend/internal/domains/recipe/model"
	userModel "foodgram-backend/internal/domains/user/model"
	"foodgram-backend/internal/shared/utils"
	"foodgram-backend/internal/shared/viewer"
)

type ServiceInterface interface {
	Subscribe(ctx context.Context, v viewer.Viewer, authorID uuid.UUID, recipesLimit int) (*model.AuthorResponse, error)
	Unsubscribe(ctx context.Context, v viewer.Viewer, authorID uuid.UUID) error
	// Subscriptions lists followed authors; a negative recipesLimit (model.AllRecipes) keeps every recipe.
	Subscriptions(ctx context.Context, v viewer.Viewer, page utils.Pagination, recipesLimit int) ([]model.AuthorResponse, int, error)
}

// UserLookup resolves authors by id.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*userModel.User, error)
}

// RecipeSummaries supplies the recipe part of an author projection.
type RecipeSummaries interface {
	ListBriefByAuthors(ctx context.Context, authorIDs []uuid.UUID, limit int) (map[uuid.UUID][]recipeModel.BriefRecipe, error)
	CountByAuthors(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

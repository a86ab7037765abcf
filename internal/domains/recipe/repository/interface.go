package repository

import (
	"context"

	"github.com/google/uuid"

	"foodgram-backend/internal/domains/recipe/model"
)

type RecipeRepository interface {
	// Composer - mọi write chạy trong một transaction
	Create(ctx context.Context, r *model.Recipe, tagIDs []uuid.UUID, lines []model.IngredientAmount) error
	Update(ctx context.Context, id uuid.UUID, req model.UpdateRequest) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Reads
	GetByID(ctx context.Context, id uuid.UUID) (*model.Recipe, error)
	GetBrief(ctx context.Context, id uuid.UUID) (*model.BriefRecipe, error)
	List(ctx context.Context, filter model.ListFilter, offset, limit int) ([]model.Recipe, int, error)
	FlagsFor(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]model.Flags, error)

	// Toggles
	AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) error
	RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error
	AddPurchase(ctx context.Context, userID, recipeID uuid.UUID) error
	RemovePurchase(ctx context.Context, userID, recipeID uuid.UUID) error

	// CartLines returns the viewer's cart ingredient lines in cart order.
	CartLines(ctx context.Context, userID uuid.UUID) ([]model.CartLine, error)

	// Author summaries for subscriptions; limit <= 0 means no limit.
	ListBriefByAuthors(ctx context.Context, authorIDs []uuid.UUID, limit int) (map[uuid.UUID][]model.BriefRecipe, error)
	CountByAuthors(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

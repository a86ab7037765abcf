package service

import (
	"context"

	"github.com/google/uuid"

	"foodgram-backend/internal/domains/recipe/model"
	"foodgram-backend/internal/shared/utils"
	"foodgram-backend/internal/shared/viewer"
)

type ServiceInterface interface {
	// Composer
	Create(ctx context.Context, v viewer.Viewer, req model.CreateRequest) (*model.RecipeResponse, error)
	Update(ctx context.Context, v viewer.Viewer, id uuid.UUID, req model.UpdateRequest) (*model.RecipeResponse, error)
	Delete(ctx context.Context, v viewer.Viewer, id uuid.UUID) error

	// Projection
	Get(ctx context.Context, v viewer.Viewer, id uuid.UUID) (*model.RecipeResponse, error)
	List(ctx context.Context, v viewer.Viewer, q ListQuery, page utils.Pagination) ([]model.RecipeResponse, int, error)

	// Toggles
	AddFavorite(ctx context.Context, v viewer.Viewer, id uuid.UUID) (*model.BriefRecipe, error)
	RemoveFavorite(ctx context.Context, v viewer.Viewer, id uuid.UUID) error
	AddToCart(ctx context.Context, v viewer.Viewer, id uuid.UUID) (*model.BriefRecipe, error)
	RemoveFromCart(ctx context.Context, v viewer.Viewer, id uuid.UUID) error

	// Aggregator
	ShoppingList(ctx context.Context, v viewer.Viewer) ([]model.ShoppingItem, error)
}

// ListQuery - query params của GET /api/recipes
type ListQuery struct {
	AuthorID         uuid.UUID
	Tags             []string
	IsFavorited      bool
	IsInShoppingCart bool
}

// SubscriptionLookup answers "does the viewer follow these authors".
type SubscriptionLookup interface {
	SubscribedAmong(ctx context.Context, userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

// ImageStore persists uploaded recipe images and returns their public URL.
// Owns reports whether a URL points at an object the store created.
type ImageStore interface {
	SaveRecipeImage(ctx context.Context, dataURI string) (string, error)
	DeleteByURL(ctx context.Context, url string) error
	Owns(url string) bool
}

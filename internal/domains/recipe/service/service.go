package service

import (
	"context"

	"github.com/google/uuid"

	"foodgram-backend/internal/domains/recipe/model"
	"foodgram-backend/internal/domains/recipe/repository"
	"foodgram-backend/internal/shared/utils"
	"foodgram-backend/internal/shared/viewer"
)

type recipeService struct {
	repo   repository.RecipeRepository
	subs   SubscriptionLookup
	images ImageStore
}

func NewRecipeService(repo repository.RecipeRepository, subs SubscriptionLookup, images ImageStore) ServiceInterface {
	return &recipeService{repo: repo, subs: subs, images: images}
}

func (s *recipeService) Get(ctx context.Context, v viewer.Viewer, id uuid.UUID) (*model.RecipeResponse, error) {
	recipe, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.project(ctx, v, []model.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// List - is_favorited / is_in_shopping_cart bị bỏ qua với anonymous viewer
func (s *recipeService) List(ctx context.Context, v viewer.Viewer, q ListQuery, page utils.Pagination) ([]model.RecipeResponse, int, error) {
	filter := model.ListFilter{AuthorID: q.AuthorID, TagSlugs: q.Tags}
	if !v.IsAnonymous() {
		if q.IsFavorited {
			filter.FavoritedBy = v.UserID
		}
		if q.IsInShoppingCart {
			filter.InCartOf = v.UserID
		}
	}

	recipes, total, err := s.repo.List(ctx, filter, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.project(ctx, v, recipes)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// project decorates recipes with viewer-relative flags using one batch lookup
// per kind. Anonymous viewers get all-false flags and no lookups.
func (s *recipeService) project(ctx context.Context, v viewer.Viewer, recipes []model.Recipe) ([]model.RecipeResponse, error) {
	flags := map[uuid.UUID]model.Flags{}
	subscribed := map[uuid.UUID]bool{}

	if !v.IsAnonymous() && len(recipes) > 0 {
		ids := make([]uuid.UUID, 0, len(recipes))
		authorIDs := make([]uuid.UUID, 0, len(recipes))
		seen := make(map[uuid.UUID]struct{}, len(recipes))
		for _, r := range recipes {
			ids = append(ids, r.ID)
			if _, ok := seen[r.AuthorID]; !ok {
				seen[r.AuthorID] = struct{}{}
				authorIDs = append(authorIDs, r.AuthorID)
			}
		}

		var err error
		if flags, err = s.repo.FlagsFor(ctx, v.UserID, ids); err != nil {
			return nil, err
		}
		if subscribed, err = s.subs.SubscribedAmong(ctx, v.UserID, authorIDs); err != nil {
			return nil, err
		}
	}

	views := make([]model.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		views = append(views, model.ToRecipeResponse(r, flags[r.ID], subscribed[r.AuthorID]))
	}
	return views, nil
}

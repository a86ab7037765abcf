package service

import (
	"context"

	"github.com/google/uuid"

	"foodgram-backend/internal/domains/follow/model"
	"foodgram-backend/internal/domains/follow/repository"
	userModel "foodgram-backend/internal/domains/user/model"
	"foodgram-backend/internal/shared/utils"
	"foodgram-backend/internal/shared/viewer"
	"foodgram-backend/pkg/logger"
)

type followService struct {
	repo    repository.FollowRepository
	users   UserLookup
	recipes RecipeSummaries
}

func NewFollowService(repo repository.FollowRepository, users UserLookup, recipes RecipeSummaries) ServiceInterface {
	return &followService{repo: repo, users: users, recipes: recipes}
}

func (s *followService) Subscribe(ctx context.Context, v viewer.Viewer, authorID uuid.UUID, recipesLimit int) (*model.AuthorResponse, error) {
	if v.IsAnonymous() {
		return nil, model.ErrUnauthenticated
	}
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	// self-follow bị chặn ở đây và bởi CHECK constraint
	if v.UserID == authorID {
		return nil, model.ErrSelfFollow
	}
	if err := s.repo.Create(ctx, v.UserID, authorID); err != nil {
		return nil, err
	}

	logger.Info("subscribed to author", map[string]interface{}{
		"user_id":   v.UserID.String(),
		"author_id": authorID.String(),
	})
	views, err := s.project(ctx, []userModel.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *followService) Unsubscribe(ctx context.Context, v viewer.Viewer, authorID uuid.UUID) error {
	if v.IsAnonymous() {
		return model.ErrUnauthenticated
	}
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, v.UserID, authorID)
}

func (s *followService) Subscriptions(ctx context.Context, v viewer.Viewer, page utils.Pagination, recipesLimit int) ([]model.AuthorResponse, int, error) {
	if v.IsAnonymous() {
		return nil, 0, model.ErrUnauthenticated
	}
	authors, total, err := s.repo.ListAuthors(ctx, v.UserID, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.project(ctx, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// project builds author views for authors the viewer follows, so is_subscribed
// is always true here.
func (s *followService) project(ctx context.Context, authors []userModel.User, recipesLimit int) ([]model.AuthorResponse, error) {
	views := make([]model.AuthorResponse, 0, len(authors))
	if len(authors) == 0 {
		return views, nil
	}
	ids := make([]uuid.UUID, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}

	recipes, err := s.recipes.ListBriefByAuthors(ctx, ids, recipesLimit)
	if err != nil {
		return nil, err
	}
	counts, err := s.recipes.CountByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range authors {
		a := &authors[i]
		views = append(views, model.ToAuthorResponse(a, true, recipes[a.ID], counts[a.ID]))
	}
	return views, nil
}

package repository

import (
	"context"

	"github.com/google/uuid"

	userModel "foodgram-backend/internal/domains/user/model"
)

type FollowRepository interface {
	Create(ctx context.Context, userID, authorID uuid.UUID) error
	Delete(ctx context.Context, userID, authorID uuid.UUID) error
	IsSubscribed(ctx context.Context, userID, authorID uuid.UUID) (bool, error)
	SubscribedAmong(ctx context.Context, userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	// ListAuthors returns the authors userID follows, most recently followed first.
	ListAuthors(ctx context.Context, userID uuid.UUID, offset, limit int) ([]userModel.User, int, error)
}

package service

import (
	"context"

	"github.com/google/uuid"

	"foodgram-backend/internal/domains/user/model"
	"foodgram-backend/internal/shared/utils"
	"foodgram-backend/internal/shared/viewer"
	"foodgram-backend/pkg/jwt"
)

type ServiceInterface interface {
	// Auth
	Register(ctx context.Context, req model.RegisterRequest) (*model.RegisterResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.TokenResponse, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
	SetPassword(ctx context.Context, v viewer.Viewer, req model.SetPasswordRequest) error

	// Profiles
	Me(ctx context.Context, v viewer.Viewer) (*model.UserResponse, error)
	Get(ctx context.Context, v viewer.Viewer, id uuid.UUID) (*model.UserResponse, error)
	List(ctx context.Context, v viewer.Viewer, page utils.Pagination) ([]model.UserResponse, int, error)
}

// SubscriptionLookup answers "does the viewer follow this author".
type SubscriptionLookup interface {
	IsSubscribed(ctx context.Context, userID, authorID uuid.UUID) (bool, error)
	SubscribedAmong(ctx context.Context, userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

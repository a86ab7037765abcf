package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"foodgram-backend/internal/domains/user/model"
	"foodgram-backend/internal/domains/user/repository"
	"foodgram-backend/internal/shared/utils"
	"foodgram-backend/internal/shared/viewer"
	"foodgram-backend/pkg/cache"
	"foodgram-backend/pkg/jwt"
	"foodgram-backend/pkg/logger"
)

const revokedTokenPrefix = "revoked_token:"

type userService struct {
	repo  repository.UserRepository
	subs  SubscriptionLookup
	jwt   *jwt.Manager
	cache cache.Cache
}

func NewUserService(repo repository.UserRepository, subs SubscriptionLookup, jwtManager *jwt.Manager, c cache.Cache) ServiceInterface {
	return &userService{repo: repo, subs: subs, jwt: jwtManager, cache: c}
}

func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.RegisterResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u := &model.User{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      model.RoleUser,
	}
	if err := u.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	logger.Info("user registered", map[string]interface{}{"user_id": u.ID.String()})
	resp := model.ToRegisterResponse(u)
	return &resp, nil
}

func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.CheckPassword(req.Password) {
		return nil, model.ErrInvalidCredentials
	}

	token, _, err := s.jwt.GenerateAccessToken(u.ID, u.Email, u.Role.String())
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &model.TokenResponse{AuthToken: token}, nil
}

// Logout marks the token id as revoked until the token would have expired anyway.
func (s *userService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if claims == nil || claims.ID == "" {
		return model.ErrUnauthenticated
	}
	ttl := claims.RemainingTTL()
	if ttl <= 0 {
		return nil
	}
	if err := s.cache.Set(ctx, revokedTokenPrefix+claims.ID, true, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsTokenRevoked treats a cache outage as "not revoked" so reads keep working.
func (s *userService) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	revoked, err := s.cache.Exists(ctx, revokedTokenPrefix+jti)
	if err != nil {
		logger.Warn("token revocation lookup failed", map[string]interface{}{"error": err.Error()})
		return false, nil
	}
	return revoked, nil
}

func (s *userService) SetPassword(ctx context.Context, v viewer.Viewer, req model.SetPasswordRequest) error {
	if v.IsAnonymous() {
		return model.ErrUnauthenticated
	}
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := s.repo.GetByID(ctx, v.UserID)
	if err != nil {
		return err
	}
	if !u.CheckPassword(req.CurrentPassword) {
		return model.ErrWrongPassword
	}
	if err := u.SetPassword(req.NewPassword); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, u.ID, u.PasswordHash)
}

func (s *userService) Me(ctx context.Context, v viewer.Viewer) (*model.UserResponse, error) {
	if v.IsAnonymous() {
		return nil, model.ErrUnauthenticated
	}
	u, err := s.repo.GetByID(ctx, v.UserID)
	if err != nil {
		return nil, err
	}
	resp := model.ToUserResponse(u, false)
	return &resp, nil
}

func (s *userService) Get(ctx context.Context, v viewer.Viewer, id uuid.UUID) (*model.UserResponse, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	subscribed := false
	if !v.IsAnonymous() && v.UserID != id {
		subscribed, err = s.subs.IsSubscribed(ctx, v.UserID, id)
		if err != nil {
			return nil, err
		}
	}
	resp := model.ToUserResponse(u, subscribed)
	return &resp, nil
}

func (s *userService) List(ctx context.Context, v viewer.Viewer, page utils.Pagination) ([]model.UserResponse, int, error) {
	users, total, err := s.repo.List(ctx, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, err
	}

	subscribed := map[uuid.UUID]bool{}
	if !v.IsAnonymous() && len(users) > 0 {
		ids := make([]uuid.UUID, len(users))
		for i := range users {
			ids[i] = users[i].ID
		}
		if subscribed, err = s.subs.SubscribedAmong(ctx, v.UserID, ids); err != nil {
			return nil, 0, err
		}
	}

	out := make([]model.UserResponse, len(users))
	for i := range users {
		out[i] = model.ToUserResponse(&users[i], subscribed[users[i].ID])
	}
	return out, total, nil
}


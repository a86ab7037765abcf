package repository

import (
	"context"

	"github.com/google/uuid"

	"foodgram-backend/internal/domains/user/model"
)

// UserRepository định nghĩa contract cho data access layer
type UserRepository interface {
	// Create inserts u and fills ID/timestamps.
	// Returns: ErrEmailAlreadyExists / ErrUsernameAlreadyExists
	Create(ctx context.Context, u *model.User) error

	// GetByID returns ErrUserNotFound nếu không tìm thấy
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByEmail is case-insensitive; used by login.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// List orders by username.
	List(ctx context.Context, offset, limit int) ([]model.User, int, error)

	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

package repository

import (
	"context"

	"github.com/google/uuid"

	"foodgram-backend/internal/domains/ingredient/model"
)

type IngredientRepository interface {
	// Search returns ingredients whose name starts with prefix (case-insensitive),
	// ordered by name. Empty prefix returns everything.
	Search(ctx context.Context, prefix string) ([]model.Ingredient, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error)
	Create(ctx context.Context, req model.CreateRequest) (*model.Ingredient, error)
	Delete(ctx context.Context, id uuid.UUID) error
	BulkInsert(ctx context.Context, rows []model.CreateRequest) (int, error)
}

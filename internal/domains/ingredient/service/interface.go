package service

import (
	"context"

	"github.com/google/uuid"

	"foodgram-backend/internal/domains/ingredient/model"
)

type ServiceInterface interface {
	Search(ctx context.Context, name string) ([]model.Ingredient, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Ingredient, error)
	Create(ctx context.Context, req model.CreateRequest) (*model.Ingredient, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Import(ctx context.Context, rows []model.CreateRequest) (int, error)
}

package service

import (
	"context"

	"github.com/google/uuid"

	"foodgram-backend/internal/domains/tag/model"
)

type ServiceInterface interface {
	List(ctx context.Context) ([]model.Tag, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Tag, error)
	// Import validates and bulk-inserts reference tags, skipping existing ones.
	Import(ctx context.Context, tags []model.Tag) (int, error)
}

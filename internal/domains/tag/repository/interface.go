package repository

import (
	"context"

	"github.com/google/uuid"

	"foodgram-backend/internal/domains/tag/model"
)

type TagRepository interface {
	List(ctx context.Context) ([]model.Tag, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Tag, error)
	// BulkInsert skips rows that collide with an existing name, color or slug
	// and returns how many were inserted.
	BulkInsert(ctx context.Context, tags []model.Tag) (int, error)
}

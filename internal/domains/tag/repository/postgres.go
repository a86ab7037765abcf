package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"foodgram-backend/internal/domains/tag/model"
	"foodgram-backend/pkg/database"
)

type postgresRepository struct {
	pool database.Querier
}

func NewPostgresRepository(pool database.Querier) TagRepository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) List(ctx context.Context) ([]model.Tag, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, color, slug FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	tags, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Tag, error) {
		var t model.Tag
		err := row.Scan(&t.ID, &t.Name, &t.Color, &t.Slug)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan tags: %w", err)
	}
	return tags, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Tag, error) {
	var t model.Tag
	err := r.pool.QueryRow(ctx, `SELECT id, name, color, slug FROM tags WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.Color, &t.Slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrTagNotFound
		}
		return nil, fmt.Errorf("get tag %s: %w", id, err)
	}
	return &t, nil
}

func (r *postgresRepository) BulkInsert(ctx context.Context, tags []model.Tag) (int, error) {
	if len(tags) == 0 {
		return 0, nil
	}
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (int, error) {
		batch := &pgx.Batch{}
		for _, t := range tags {
			batch.Queue(`
				INSERT INTO tags (name, color, slug) VALUES ($1, $2, $3)
				ON CONFLICT DO NOTHING
			`, t.Name, t.Color, t.Slug)
		}

		br := tx.SendBatch(ctx, batch)
		inserted := 0
		for range tags {
			tag, err := br.Exec()
			if err != nil {
				br.Close()
				return 0, fmt.Errorf("insert tag: %w", err)
			}
			inserted += int(tag.RowsAffected())
		}
		if err := br.Close(); err != nil {
			return 0, fmt.Errorf("close batch: %w", err)
		}
		return inserted, nil
	})
}

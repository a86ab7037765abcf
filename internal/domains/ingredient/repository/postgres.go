package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"foodgram-backend/internal/domains/ingredient/model"
	"foodgram-backend/internal/shared/utils"
	"foodgram-backend/pkg/database"
)

type postgresRepository struct {
	pool database.Querier
}

func NewPostgresRepository(pool database.Querier) IngredientRepository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Search(ctx context.Context, prefix string) ([]model.Ingredient, error) {
	var where utils.WhereBuilder
	if prefix != "" {
		where.Add(`LOWER(name) LIKE ? ESCAPE '\'`, utils.EscapeLike(prefix)+"%")
	}
	query := `SELECT id, name, measurement_unit FROM ingredients` + where.SQL() + ` ORDER BY name, measurement_unit`

	rows, err := r.pool.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, fmt.Errorf("search ingredients: %w", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Ingredient, error) {
		var i model.Ingredient
		err := row.Scan(&i.ID, &i.Name, &i.MeasurementUnit)
		return i, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan ingredients: %w", err)
	}
	return items, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error) {
	var i model.Ingredient
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, measurement_unit FROM ingredients WHERE id = $1`, id,
	).Scan(&i.ID, &i.Name, &i.MeasurementUnit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrIngredientNotFound
		}
		return nil, fmt.Errorf("get ingredient %s: %w", id, err)
	}
	return &i, nil
}

func (r *postgresRepository) Create(ctx context.Context, req model.CreateRequest) (*model.Ingredient, error) {
	i := model.Ingredient{Name: req.Name, MeasurementUnit: req.MeasurementUnit}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO ingredients (name, measurement_unit) VALUES ($1, $2) RETURNING id`,
		req.Name, req.MeasurementUnit,
	).Scan(&i.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, model.ErrIngredientExists
		}
		return nil, fmt.Errorf("insert ingredient: %w", err)
	}
	return &i, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM ingredients WHERE id = $1`, id)
	if err != nil {
		// ON DELETE RESTRICT từ recipe_ingredients
		if database.IsForeignKeyViolation(err) {
			return model.ErrIngredientInUse
		}
		return fmt.Errorf("delete ingredient %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrIngredientNotFound
	}
	return nil
}

func (r *postgresRepository) BulkInsert(ctx context.Context, items []model.CreateRequest) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (int, error) {
		batch := &pgx.Batch{}
		for _, it := range items {
			batch.Queue(`
				INSERT INTO ingredients (name, measurement_unit) VALUES ($1, $2)
				ON CONFLICT ON CONSTRAINT ingredients_name_unit_key DO NOTHING
			`, it.Name, it.MeasurementUnit)
		}

		br := tx.SendBatch(ctx, batch)
		inserted := 0
		for range items {
			ct, err := br.Exec()
			if err != nil {
				br.Close()
				return 0, fmt.Errorf("insert ingredient: %w", err)
			}
			inserted += int(ct.RowsAffected())
		}
		if err := br.Close(); err != nil {
			return 0, fmt.Errorf("close batch: %w", err)
		}
		return inserted, nil
	})
}

package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"foodgram-backend/internal/domains/follow/model"
	userModel "foodgram-backend/internal/domains/user/model"
	"foodgram-backend/pkg/database"
)

type postgresRepository struct {
	pool database.Querier
}

func NewPostgresRepository(pool database.Querier) FollowRepository {
	return &postgresRepository{pool: pool}
}

// Create - follows_pkey và follows_no_self là nguồn sự thật khi có request đồng thời
func (r *postgresRepository) Create(ctx context.Context, userID, authorID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO follows (user_id, author_id) VALUES ($1, $2)`, userID, authorID)
	if err == nil {
		return nil
	}
	if database.IsUniqueViolation(err) {
		return model.ErrAlreadySubscribed
	}
	if _, ok := database.ConstraintViolation(err, database.CodeCheckViolation); ok {
		return model.ErrSelfFollow
	}
	if database.IsForeignKeyViolation(err) {
		return userModel.ErrUserNotFound
	}
	return fmt.Errorf("insert follow: %w", err)
}

func (r *postgresRepository) Delete(ctx context.Context, userID, authorID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM follows WHERE user_id = $1 AND author_id = $2`, userID, authorID)
	if err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotSubscribed
	}
	return nil
}

func (r *postgresRepository) IsSubscribed(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM follows WHERE user_id = $1 AND author_id = $2)`,
		userID, authorID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check follow: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) SubscribedAmong(ctx context.Context, userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT author_id FROM follows WHERE user_id = $1 AND author_id = ANY($2::uuid[])`,
		userID, pq.Array(authorIDs))
	if err != nil {
		return nil, fmt.Errorf("check follows: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("scan follows: %w", err)
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *postgresRepository) ListAuthors(ctx context.Context, userID uuid.UUID, offset, limit int) ([]userModel.User, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM follows WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count follows: %w", err)
	}
	if total == 0 {
		return []userModel.User{}, 0, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.email, u.username, u.first_name, u.last_name
		FROM follows f JOIN users u ON u.id = f.author_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC, u.id
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list followed authors: %w", err)
	}
	authors, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (userModel.User, error) {
		var u userModel.User
		err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName)
		return u, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan followed authors: %w", err)
	}
	return authors, total, nil
}

package migrations

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"foodgram-backend/pkg/database"
	"foodgram-backend/pkg/logger"
)

// Runner executes and tracks migrations.
type Runner struct {
	pool       *pgxpool.Pool
	migrations []Migration
}

func NewRunner(pool *pgxpool.Pool) (*Runner, error) {
	all, err := Load()
	if err != nil {
		return nil, err
	}
	return &Runner{pool: pool, migrations: all}, nil
}

func (r *Runner) ensureTable(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, trackingTable); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

func (r *Runner) applied(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT name, batch FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("migration: list applied: %w", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var name string
		var batch int
		if err := rows.Scan(&name, &batch); err != nil {
			return nil, err
		}
		out[name] = batch
	}
	return out, rows.Err()
}

// Up runs every pending migration, each in its own transaction, as one batch.
func (r *Runner) Up(ctx context.Context) (int, error) {
	if err := r.ensureTable(ctx); err != nil {
		return 0, err
	}
	applied, err := r.applied(ctx)
	if err != nil {
		return 0, err
	}

	done := make(map[string]bool, len(applied))
	batch := 0
	for name, b := range applied {
		done[name] = true
		batch = max(batch, b)
	}
	batch++

	pending := Pending(r.migrations, done)
	for _, m := range pending {
		logger.Info("migration: running", map[string]interface{}{"name": m.Name, "batch": batch})
		err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, m.Up); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name, batch) VALUES ($1, $2)`, m.Name, batch)
			return err
		})
		if err != nil {
			return 0, fmt.Errorf("migration: %s up: %w", m.Name, err)
		}
	}
	return len(pending), nil
}

// Rollback reverses the most recent batch in reverse name order.
func (r *Runner) Rollback(ctx context.Context) (int, error) {
	if err := r.ensureTable(ctx); err != nil {
		return 0, err
	}
	applied, err := r.applied(ctx)
	if err != nil {
		return 0, err
	}

	last := 0
	for _, b := range applied {
		last = max(last, b)
	}
	if last == 0 {
		return 0, nil
	}

	count := 0
	for i := len(r.migrations) - 1; i >= 0; i-- {
		m := r.migrations[i]
		if applied[m.Name] != last {
			continue
		}
		if m.Down == "" {
			return count, fmt.Errorf("migration: %s has no down file", m.Name)
		}
		logger.Info("migration: rolling back", map[string]interface{}{"name": m.Name})
		err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, m.Down); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `DELETE FROM schema_migrations WHERE name = $1`, m.Name)
			return err
		})
		if err != nil {
			return count, fmt.Errorf("migration: %s down: %w", m.Name, err)
		}
		count++
	}
	return count, nil
}

// Status lists every known migration with its batch (0 = pending).
type Status struct {
	Name  string
	Batch int
}

func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	applied, err := r.applied(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Status, 0, len(r.migrations))
	for _, m := range r.migrations {
		out = append(out, Status{Name: m.Name, Batch: applied[m.Name]})
	}
	return out, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"foodgram-backend/internal/domains/recipe/model"
	tagModel "foodgram-backend/internal/domains/tag/model"
	"foodgram-backend/internal/shared/utils"
	"foodgram-backend/pkg/database"
)

const recipeColumns = `
	r.id, r.author_id, r.name, r.slug, r.image, r.text, r.cooking_time, r.pub_date, r.updated_at,
	u.id, u.email, u.username, u.first_name, u.last_name
`

type postgresRepository struct {
	pool database.Querier
}

func NewPostgresRepository(pool database.Querier) RecipeRepository {
	return &postgresRepository{pool: pool}
}

func scanRecipe(row pgx.Row) (*model.Recipe, error) {
	var r model.Recipe
	err := row.Scan(
		&r.ID, &r.AuthorID, &r.Name, &r.Slug, &r.Image, &r.Text, &r.CookingTime, &r.PubDate, &r.UpdatedAt,
		&r.Author.ID, &r.Author.Email, &r.Author.Username, &r.Author.FirstName, &r.Author.LastName,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ========================================
// COMPOSER
// ========================================

func (r *postgresRepository) Create(ctx context.Context, recipe *model.Recipe, tagIDs []uuid.UUID, lines []model.IngredientAmount) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO recipes (author_id, name, slug, image, text, cooking_time)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, pub_date, updated_at
		`, recipe.AuthorID, recipe.Name, recipe.Slug, recipe.Image, recipe.Text, recipe.CookingTime,
		).Scan(&recipe.ID, &recipe.PubDate, &recipe.UpdatedAt)
		if err != nil {
			return mapWriteError(err)
		}

		if err := setTags(ctx, tx, recipe.ID, tagIDs); err != nil {
			return err
		}
		return setIngredients(ctx, tx, recipe.ID, lines)
	})
}

func (r *postgresRepository) Update(ctx context.Context, id uuid.UUID, req model.UpdateRequest) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		// COALESCE giữ nguyên giá trị cũ khi field không có trong request
		tag, err := tx.Exec(ctx, `
			UPDATE recipes SET
				name         = COALESCE($2, name),
				text         = COALESCE($3, text),
				image        = COALESCE($4, image),
				cooking_time = COALESCE($5, cooking_time),
				updated_at   = NOW()
			WHERE id = $1
		`, id, req.Name, req.Text, req.Image, req.CookingTime)
		if err != nil {
			return mapWriteError(err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrRecipeNotFound
		}

		if req.Tags != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM recipe_tags WHERE recipe_id = $1`, id); err != nil {
				return fmt.Errorf("clear recipe tags: %w", err)
			}
			if err := setTags(ctx, tx, id, *req.Tags); err != nil {
				return err
			}
		}
		if req.Ingredients != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, id); err != nil {
				return fmt.Errorf("clear recipe ingredients: %w", err)
			}
			if err := setIngredients(ctx, tx, id, *req.Ingredients); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete recipe %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrRecipeNotFound
	}
	return nil
}

func setTags(ctx context.Context, tx pgx.Tx, recipeID uuid.UUID, tagIDs []uuid.UUID) error {
	if len(tagIDs) == 0 {
		return nil
	}
	if err := requireAll(ctx, tx, "tags", tagIDs, model.ErrTagNotFound); err != nil {
		return err
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO recipe_tags (recipe_id, tag_id)
		SELECT $1, unnest($2::uuid[])
	`, recipeID, pq.Array(tagIDs))
	if err != nil {
		return fmt.Errorf("insert recipe tags: %w", err)
	}
	return nil
}

func setIngredients(ctx context.Context, tx pgx.Tx, recipeID uuid.UUID, lines []model.IngredientAmount) error {
	ids := make([]uuid.UUID, len(lines))
	amounts := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.ID
		amounts[i] = l.Amount.String()
	}
	if err := requireAll(ctx, tx, "ingredients", ids, model.ErrIngredientNotFound); err != nil {
		return err
	}

	// position giữ thứ tự dòng như client gửi (0-based)
	_, err := tx.Exec(ctx, `
		INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount, position)
		SELECT $1, line.ingredient_id, line.amount, line.ord - 1
		FROM unnest($2::uuid[], $3::numeric[]) WITH ORDINALITY AS line(ingredient_id, amount, ord)
	`, recipeID, pq.Array(ids), pq.Array(amounts))
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

// requireAll fails with notFound naming the first id missing from table.
func requireAll(ctx context.Context, tx pgx.Tx, table string, ids []uuid.UUID, notFound error) error {
	rows, err := tx.Query(ctx, `SELECT id FROM `+table+` WHERE id = ANY($1::uuid[])`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("check %s: %w", table, err)
	}
	found, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return fmt.Errorf("check %s: %w", table, err)
	}

	existing := make(map[uuid.UUID]struct{}, len(found))
	for _, id := range found {
		existing[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := existing[id]; !ok {
			return fmt.Errorf("%w: %s", notFound, id)
		}
	}
	return nil
}

func mapWriteError(err error) error {
	if constraint, ok := database.ConstraintViolation(err, database.CodeUniqueViolation); ok && constraint == "recipes_author_name_key" {
		return model.ErrDuplicateName
	}
	if constraint, ok := database.ConstraintViolation(err, database.CodeForeignKeyViolation); ok {
		switch constraint {
		case "recipe_tags_tag_id_fkey":
			return model.ErrTagNotFound
		case "recipe_ingredients_ingredient_id_fkey":
			return model.ErrIngredientNotFound
		}
	}
	return fmt.Errorf("write recipe: %w", err)
}

// ========================================
// READS
// ========================================

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	recipe, err := scanRecipe(r.pool.QueryRow(ctx, `
		SELECT `+recipeColumns+`
		FROM recipes r JOIN users u ON u.id = r.author_id
		WHERE r.id = $1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("get recipe %s: %w", id, err)
	}

	recipes := []model.Recipe{*recipe}
	if err := r.loadRelations(ctx, recipes); err != nil {
		return nil, err
	}
	return &recipes[0], nil
}

func (r *postgresRepository) GetBrief(ctx context.Context, id uuid.UUID) (*model.BriefRecipe, error) {
	var b model.BriefRecipe
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, image, cooking_time FROM recipes WHERE id = $1`, id,
	).Scan(&b.ID, &b.Name, &b.Image, &b.CookingTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("get recipe %s: %w", id, err)
	}
	return &b, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListFilter, offset, limit int) ([]model.Recipe, int, error) {
	var where utils.WhereBuilder
	if filter.AuthorID != uuid.Nil {
		where.Add(`r.author_id = ?`, filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		where.Add(`EXISTS (
			SELECT 1 FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id
			WHERE rt.recipe_id = r.id AND t.slug = ANY(?::text[]))`, pq.Array(filter.TagSlugs))
	}
	if filter.FavoritedBy != uuid.Nil {
		where.Add(`EXISTS (SELECT 1 FROM favorites f WHERE f.recipe_id = r.id AND f.user_id = ?)`, filter.FavoritedBy)
	}
	if filter.InCartOf != uuid.Nil {
		where.Add(`EXISTS (SELECT 1 FROM purchases p WHERE p.recipe_id = r.id AND p.user_id = ?)`, filter.InCartOf)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM recipes r`+where.SQL(), where.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count recipes: %w", err)
	}
	if total == 0 {
		return []model.Recipe{}, 0, nil
	}

	query := `SELECT ` + recipeColumns + ` FROM recipes r JOIN users u ON u.id = r.author_id` +
		where.SQL() + ` ORDER BY r.pub_date DESC, r.id`
	query += ` LIMIT ` + where.NextArg(limit) + ` OFFSET ` + where.NextArg(offset)

	rows, err := r.pool.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("list recipes: %w", err)
	}
	recipes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Recipe, error) {
		rec, err := scanRecipe(row)
		if err != nil {
			return model.Recipe{}, err
		}
		return *rec, nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan recipes: %w", err)
	}

	if err := r.loadRelations(ctx, recipes); err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// loadRelations fills Tags and Ingredients for a page with two queries.
func (r *postgresRepository) loadRelations(ctx context.Context, recipes []model.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(recipes))
	index := make(map[uuid.UUID]int, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
		index[recipes[i].ID] = i
		recipes[i].Tags = []tagModel.Tag{}
		recipes[i].Ingredients = []model.IngredientLine{}
	}

	tagRows, err := r.pool.Query(ctx, `
		SELECT rt.recipe_id, t.id, t.name, t.color, t.slug
		FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recipe_id = ANY($1::uuid[])
		ORDER BY t.name
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load recipe tags: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var recipeID uuid.UUID
		var t tagModel.Tag
		if err := tagRows.Scan(&recipeID, &t.ID, &t.Name, &t.Color, &t.Slug); err != nil {
			return fmt.Errorf("scan recipe tag: %w", err)
		}
		i := index[recipeID]
		recipes[i].Tags = append(recipes[i].Tags, t)
	}
	if err := tagRows.Err(); err != nil {
		return fmt.Errorf("load recipe tags: %w", err)
	}

	lineRows, err := r.pool.Query(ctx, `
		SELECT ri.recipe_id, i.id, i.name, i.measurement_unit, ri.amount
		FROM recipe_ingredients ri JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = ANY($1::uuid[])
		ORDER BY ri.recipe_id, ri.position
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load recipe ingredients: %w", err)
	}
	defer lineRows.Close()
	for lineRows.Next() {
		var recipeID uuid.UUID
		var l model.IngredientLine
		if err := lineRows.Scan(&recipeID, &l.IngredientID, &l.Name, &l.MeasurementUnit, &l.Amount); err != nil {
			return fmt.Errorf("scan recipe ingredient: %w", err)
		}
		i := index[recipeID]
		recipes[i].Ingredients = append(recipes[i].Ingredients, l)
	}
	return lineRows.Err()
}

func (r *postgresRepository) FlagsFor(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]model.Flags, error) {
	flags := make(map[uuid.UUID]model.Flags, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return flags, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id,
			EXISTS (SELECT 1 FROM favorites f WHERE f.recipe_id = r.id AND f.user_id = $1),
			EXISTS (SELECT 1 FROM purchases p WHERE p.recipe_id = r.id AND p.user_id = $1)
		FROM recipes r
		WHERE r.id = ANY($2::uuid[])
	`, userID, pq.Array(recipeIDs))
	if err != nil {
		return nil, fmt.Errorf("recipe flags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id uuid.UUID
		var f model.Flags
		if err := rows.Scan(&id, &f.Favorited, &f.InCart); err != nil {
			return nil, fmt.Errorf("scan recipe flags: %w", err)
		}
		flags[id] = f
	}
	return flags, rows.Err()
}

// ========================================
// TOGGLES
// ========================================

func (r *postgresRepository) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return r.insertPair(ctx, `INSERT INTO favorites (user_id, recipe_id) VALUES ($1, $2)`,
		userID, recipeID, model.ErrAlreadyFavorited)
}

func (r *postgresRepository) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return r.deletePair(ctx, `DELETE FROM favorites WHERE user_id = $1 AND recipe_id = $2`,
		userID, recipeID, model.ErrNotFavorited)
}

func (r *postgresRepository) AddPurchase(ctx context.Context, userID, recipeID uuid.UUID) error {
	return r.insertPair(ctx, `INSERT INTO purchases (user_id, recipe_id) VALUES ($1, $2)`,
		userID, recipeID, model.ErrAlreadyInCart)
}

func (r *postgresRepository) RemovePurchase(ctx context.Context, userID, recipeID uuid.UUID) error {
	return r.deletePair(ctx, `DELETE FROM purchases WHERE user_id = $1 AND recipe_id = $2`,
		userID, recipeID, model.ErrNotInCart)
}

// insertPair relies on the primary key for uniqueness; a concurrent duplicate
// surfaces as the same conflict.
func (r *postgresRepository) insertPair(ctx context.Context, query string, userID, recipeID uuid.UUID, duplicate error) error {
	if _, err := r.pool.Exec(ctx, query, userID, recipeID); err != nil {
		switch {
		case database.IsUniqueViolation(err):
			return duplicate
		case database.IsForeignKeyViolation(err):
			return model.ErrRecipeNotFound
		}
		return fmt.Errorf("insert relation: %w", err)
	}
	return nil
}

func (r *postgresRepository) deletePair(ctx context.Context, query string, userID, recipeID uuid.UUID, missing error) error {
	tag, err := r.pool.Exec(ctx, query, userID, recipeID)
	if err != nil {
		return fmt.Errorf("delete relation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return missing
	}
	return nil
}

func (r *postgresRepository) CartLines(ctx context.Context, userID uuid.UUID) ([]model.CartLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT i.name, i.measurement_unit, ri.amount
		FROM purchases p
		JOIN recipe_ingredients ri ON ri.recipe_id = p.recipe_id
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE p.user_id = $1
		ORDER BY p.created_at, p.recipe_id, ri.position
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("cart lines: %w", err)
	}
	lines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.CartLine, error) {
		var l model.CartLine
		err := row.Scan(&l.Name, &l.MeasurementUnit, &l.Amount)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan cart lines: %w", err)
	}
	return lines, nil
}

// ========================================
// AUTHOR SUMMARIES
// ========================================

func (r *postgresRepository) ListBriefByAuthors(ctx context.Context, authorIDs []uuid.UUID, limit int) (map[uuid.UUID][]model.BriefRecipe, error) {
	out := make(map[uuid.UUID][]model.BriefRecipe, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT author_id, id, name, image, cooking_time
		FROM (
			SELECT r.*, ROW_NUMBER() OVER (PARTITION BY r.author_id ORDER BY r.pub_date DESC, r.id) AS rn
			FROM recipes r
			WHERE r.author_id = ANY($1::uuid[])
		) ranked
		WHERE $2::int < 0 OR rn <= $2::int
		ORDER BY author_id, rn
	`, pq.Array(authorIDs), limit)
	if err != nil {
		return nil, fmt.Errorf("list author recipes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var authorID uuid.UUID
		var b model.BriefRecipe
		if err := rows.Scan(&authorID, &b.ID, &b.Name, &b.Image, &b.CookingTime); err != nil {
			return nil, fmt.Errorf("scan author recipe: %w", err)
		}
		out[authorID] = append(out[authorID], b)
	}
	return out, rows.Err()
}

func (r *postgresRepository) CountByAuthors(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT author_id, COUNT(*) FROM recipes
		WHERE author_id = ANY($1::uuid[])
		GROUP BY author_id
	`, pq.Array(authorIDs))
	if err != nil {
		return nil, fmt.Errorf("count author recipes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var authorID uuid.UUID
		var n int
		if err := rows.Scan(&authorID, &n); err != nil {
			return nil, fmt.Errorf("scan author count: %w", err)
		}
		out[authorID] = n
	}
	return out, rows.Err()
}

package repository

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram-backend/internal/domains/recipe/model"
	"foodgram-backend/pkg/database"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, RecipeRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewPostgresRepository(mock)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newRecipe() *model.Recipe {
	return &model.Recipe{
		AuthorID:    uuid.New(),
		Name:        "Pancakes",
		Slug:        "pancakes-1a2b3c4d",
		Image:       "http://minio.local/foodgram/recipes/images/p.png",
		Text:        "Mix and bake.",
		CookingTime: dec("25.5"),
	}
}

func expectInsertRecipe(mock pgxmock.PgxPoolIface, r *model.Recipe) *pgxmock.ExpectedQuery {
	return mock.ExpectQuery(`INSERT INTO recipes`).
		WithArgs(r.AuthorID, r.Name, r.Slug, r.Image, r.Text, r.CookingTime)
}

func TestCreate_WritesEverythingInOneTransaction(t *testing.T) {
	mock, repo := newMockRepo(t)
	recipe := newRecipe()
	recipeID, tagID := uuid.New(), uuid.New()
	flour, egg := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	expectInsertRecipe(mock, recipe).
		WillReturnRows(mock.NewRows([]string{"id", "pub_date", "updated_at"}).AddRow(recipeID, now, now))
	mock.ExpectQuery(`SELECT id FROM tags`).
		WithArgs(pq.Array([]uuid.UUID{tagID})).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(tagID))
	mock.ExpectExec(`INSERT INTO recipe_tags`).
		WithArgs(recipeID, pq.Array([]uuid.UUID{tagID})).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`SELECT id FROM ingredients`).
		WithArgs(pq.Array([]uuid.UUID{flour, egg})).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(egg).AddRow(flour))
	mock.ExpectExec(regexp.QuoteMeta(`WITH ORDINALITY AS line(ingredient_id, amount, ord)`)).
		WithArgs(recipeID, pq.Array([]uuid.UUID{flour, egg}), pq.Array([]string{"200", "2.5"})).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	lines := []model.IngredientAmount{{ID: flour, Amount: dec("200")}, {ID: egg, Amount: dec("2.5")}}
	require.NoError(t, repo.Create(t.Context(), recipe, []uuid.UUID{tagID}, lines))
	assert.Equal(t, recipeID, recipe.ID)
	assert.Equal(t, now, recipe.PubDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UnknownIngredientRollsBack(t *testing.T) {
	mock, repo := newMockRepo(t)
	recipe := newRecipe()
	flour, ghost := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	expectInsertRecipe(mock, recipe).
		WillReturnRows(mock.NewRows([]string{"id", "pub_date", "updated_at"}).AddRow(uuid.New(), now, now))
	mock.ExpectQuery(`SELECT id FROM ingredients`).
		WithArgs(pq.Array([]uuid.UUID{flour, ghost})).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(flour))
	mock.ExpectRollback()

	lines := []model.IngredientAmount{{ID: flour, Amount: dec("200")}, {ID: ghost, Amount: dec("1")}}
	err := repo.Create(t.Context(), recipe, nil, lines)
	assert.ErrorIs(t, err, model.ErrIngredientNotFound)
	assert.Contains(t, err.Error(), ghost.String())
	// no recipe_ingredients insert, no commit
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_WriteErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"duplicate name", &pgconn.PgError{Code: database.CodeUniqueViolation, ConstraintName: "recipes_author_name_key"}, model.ErrDuplicateName},
		{"tag deleted meanwhile", &pgconn.PgError{Code: database.CodeForeignKeyViolation, ConstraintName: "recipe_tags_tag_id_fkey"}, model.ErrTagNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, repo := newMockRepo(t)
			recipe := newRecipe()

			mock.ExpectBegin()
			expectInsertRecipe(mock, recipe).WillReturnError(tt.err)
			mock.ExpectRollback()

			err := repo.Create(t.Context(), recipe, nil, []model.IngredientAmount{{ID: uuid.New(), Amount: dec("1")}})
			assert.ErrorIs(t, err, tt.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("other unique constraint stays internal", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		recipe := newRecipe()

		mock.ExpectBegin()
		expectInsertRecipe(mock, recipe).
			WillReturnError(&pgconn.PgError{Code: database.CodeUniqueViolation, ConstraintName: "recipes_slug_key"})
		mock.ExpectRollback()

		err := repo.Create(t.Context(), recipe, nil, nil)
		assert.NotErrorIs(t, err, model.ErrDuplicateName)
		assert.True(t, database.IsUniqueViolation(err))
	})
}

func TestUpdate_ReplacesIngredientsOrRollsBack(t *testing.T) {
	id := uuid.New()
	egg := uuid.New()
	lines := []model.IngredientAmount{{ID: egg, Amount: dec("3")}}
	req := model.UpdateRequest{Ingredients: &lines}

	t.Run("commit", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE recipes SET`).
			WithArgs(id, req.Name, req.Text, req.Image, req.CookingTime).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec(`DELETE FROM recipe_ingredients`).WithArgs(id).
			WillReturnResult(pgxmock.NewResult("DELETE", 3))
		mock.ExpectQuery(`SELECT id FROM ingredients`).
			WillReturnRows(mock.NewRows([]string{"id"}).AddRow(egg))
		mock.ExpectExec(`INSERT INTO recipe_ingredients`).
			WithArgs(id, pq.Array([]uuid.UUID{egg}), pq.Array([]string{"3"})).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Update(t.Context(), id, req))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown ingredient", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE recipes SET`).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec(`DELETE FROM recipe_ingredients`).WillReturnResult(pgxmock.NewResult("DELETE", 3))
		mock.ExpectQuery(`SELECT id FROM ingredients`).
			WillReturnRows(mock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Update(t.Context(), id, req), model.ErrIngredientNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing recipe", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE recipes SET`).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Update(t.Context(), id, req), model.ErrRecipeNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("omitted relations are untouched", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		name := "Crepes"
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE recipes SET`).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Update(t.Context(), id, model.UpdateRequest{Name: &name}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestToggles_ConstraintMapping(t *testing.T) {
	user, recipe := uuid.New(), uuid.New()

	tests := []struct {
		name   string
		expect func(mock pgxmock.PgxPoolIface)
		call   func(repo RecipeRepository) error
		want   error
	}{
		{
			name: "duplicate favorite",
			expect: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO favorites`).WithArgs(user, recipe).
					WillReturnError(&pgconn.PgError{Code: database.CodeUniqueViolation, ConstraintName: "favorites_pkey"})
			},
			call: func(repo RecipeRepository) error { return repo.AddFavorite(t.Context(), user, recipe) },
			want: model.ErrAlreadyFavorited,
		},
		{
			name: "favorite of deleted recipe",
			expect: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO favorites`).WithArgs(user, recipe).
					WillReturnError(&pgconn.PgError{Code: database.CodeForeignKeyViolation, ConstraintName: "favorites_recipe_id_fkey"})
			},
			call: func(repo RecipeRepository) error { return repo.AddFavorite(t.Context(), user, recipe) },
			want: model.ErrRecipeNotFound,
		},
		{
			name: "duplicate purchase",
			expect: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO purchases`).WithArgs(user, recipe).
					WillReturnError(&pgconn.PgError{Code: database.CodeUniqueViolation, ConstraintName: "purchases_pkey"})
			},
			call: func(repo RecipeRepository) error { return repo.AddPurchase(t.Context(), user, recipe) },
			want: model.ErrAlreadyInCart,
		},
		{
			name: "remove absent favorite",
			expect: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`DELETE FROM favorites`).WithArgs(user, recipe).
					WillReturnResult(pgxmock.NewResult("DELETE", 0))
			},
			call: func(repo RecipeRepository) error { return repo.RemoveFavorite(t.Context(), user, recipe) },
			want: model.ErrNotFavorited,
		},
		{
			name: "remove absent purchase",
			expect: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`DELETE FROM purchases`).WithArgs(user, recipe).
					WillReturnResult(pgxmock.NewResult("DELETE", 0))
			},
			call: func(repo RecipeRepository) error { return repo.RemovePurchase(t.Context(), user, recipe) },
			want: model.ErrNotInCart,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, repo := newMockRepo(t)
			tt.expect(mock)
			assert.ErrorIs(t, tt.call(repo), tt.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCartLines_KeepsCartAndLineOrder(t *testing.T) {
	mock, repo := newMockRepo(t)
	user := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY p.created_at, p.recipe_id, ri.position`)).
		WithArgs(user).
		WillReturnRows(mock.NewRows([]string{"name", "measurement_unit", "amount"}).
			AddRow("flour", "g", dec("200")).
			AddRow("egg", "pcs", dec("2")).
			AddRow("flour", "g", dec("100")))

	lines, err := repo.CartLines(t.Context(), user)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"flour", "egg", "flour"}, []string{lines[0].Name, lines[1].Name, lines[2].Name})
	assert.True(t, lines[2].Amount.Equal(dec("100")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBriefByAuthors_LimitPerAuthor(t *testing.T) {
	mock, repo := newMockRepo(t)
	first, second := uuid.New(), uuid.New()
	authors := []uuid.UUID{first, second}

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE $2::int < 0 OR rn <= $2::int`)).
		WithArgs(pq.Array(authors), 2).
		WillReturnRows(mock.NewRows([]string{"author_id", "id", "name", "image", "cooking_time"}).
			AddRow(first, uuid.New(), "newest", "a.png", dec("10")).
			AddRow(first, uuid.New(), "older", "b.png", dec("20")).
			AddRow(second, uuid.New(), "only", "c.png", dec("5")))

	got, err := repo.ListBriefByAuthors(t.Context(), authors, 2)
	require.NoError(t, err)
	require.Len(t, got[first], 2)
	assert.Equal(t, "newest", got[first][0].Name)
	assert.Len(t, got[second], 1)

	// không query khi danh sách rỗng
	empty, err := repo.ListBriefByAuthors(t.Context(), nil, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_CountsBeforePaging(t *testing.T) {
	mock, repo := newMockRepo(t)
	author := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM recipes r WHERE r.author_id = $1`)).
		WithArgs(author).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(0))

	recipes, total, err := repo.List(t.Context(), model.ListFilter{AuthorID: author}, 0, 6)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NotNil(t, recipes)
	assert.Empty(t, recipes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

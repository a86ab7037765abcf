package service

import (
	"fmt"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram-backend/internal/domains/recipe/model"
	"foodgram-backend/internal/shared/apperror"
	"foodgram-backend/internal/shared/response"
	"foodgram-backend/internal/shared/utils"
	"foodgram-backend/internal/shared/viewer"
)

const pngURI = "data:image/png;base64,iVBORw0KGgo="

type fixture struct {
	svc    ServiceInterface
	repo   *fakeRepo
	subs   *fakeSubs
	images *fakeImages

	author    viewer.Viewer
	other     viewer.Viewer
	breakfast uuid.UUID
	lunch     uuid.UUID
	flour     uuid.UUID
	egg       uuid.UUID
	milk      uuid.UUID
}

func newFixture() *fixture {
	repo := newFakeRepo()
	subs := &fakeSubs{follows: map[pair]bool{}}
	images := &fakeImages{}
	f := &fixture{
		svc:    NewRecipeService(repo, subs, images),
		repo:   repo,
		subs:   subs,
		images: images,
	}
	f.author = viewer.New(repo.addUser("author"), viewer.RoleUser)
	f.other = viewer.New(repo.addUser("other"), viewer.RoleUser)
	f.breakfast = repo.addTag("breakfast")
	f.lunch = repo.addTag("lunch")
	f.flour = repo.addIngredient("flour", "g")
	f.egg = repo.addIngredient("egg", "pcs")
	f.milk = repo.addIngredient("milk", "ml")
	return f
}

func (f *fixture) request(name string) model.CreateRequest {
	return model.CreateRequest{
		Name:        name,
		Text:        "Mix and bake.",
		Image:       pngURI,
		CookingTime: dec("25.5"),
		Tags:        []uuid.UUID{f.breakfast, f.lunch},
		Ingredients: []model.IngredientAmount{
			{ID: f.flour, Amount: dec("200")},
			{ID: f.egg, Amount: dec("2")},
			{ID: f.milk, Amount: dec("150.5")},
		},
	}
}

func (f *fixture) create(t *testing.T, v viewer.Viewer, name string) *model.RecipeResponse {
	t.Helper()
	r, err := f.svc.Create(t.Context(), v, f.request(name))
	require.NoError(t, err)
	return r
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	return response.FieldErrors(verrs)
}

func TestCreate_RoundTrip(t *testing.T) {
	f := newFixture()

	created := f.create(t, f.author, "Pancakes")
	got, err := f.svc.Get(t.Context(), f.author, created.ID)
	require.NoError(t, err)

	assert.Len(t, got.Tags, 2)
	require.Len(t, got.Ingredients, 3)
	assert.Equal(t, "flour", got.Ingredients[0].Name)
	assert.True(t, got.Ingredients[2].Amount.Equal(dec("150.5")))
	assert.True(t, got.CookingTime.Equal(dec("25.5")))
	assert.Equal(t, f.author.UserID, got.Author.ID)
	assert.Contains(t, got.Slug, "pancakes-")
	assert.Equal(t, f.images.saved[0], got.Image)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name  string
		edit  func(r *model.CreateRequest)
		field string
	}{
		{"no ingredients", func(r *model.CreateRequest) { r.Ingredients = nil }, "ingredients"},
		{"duplicate ingredient", func(r *model.CreateRequest) {
			r.Ingredients = append(r.Ingredients, model.IngredientAmount{ID: f.flour, Amount: dec("1")})
		}, "ingredients.3.id"},
		{"zero amount", func(r *model.CreateRequest) { r.Ingredients[1].Amount = dec("0") }, "ingredients.1.amount"},
		{"negative amount", func(r *model.CreateRequest) { r.Ingredients[0].Amount = dec("-3") }, "ingredients.0.amount"},
		{"zero cooking time", func(r *model.CreateRequest) { r.CookingTime = dec("0") }, "cooking_time"},
		{"two decimals", func(r *model.CreateRequest) { r.CookingTime = dec("1.25") }, "cooking_time"},
		{"missing name", func(r *model.CreateRequest) { r.Name = "  " }, "name"},
		{"missing image", func(r *model.CreateRequest) { r.Image = "" }, "image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request("Soup")
			tt.edit(&req)

			_, err := f.svc.Create(t.Context(), f.author, req)
			assert.Contains(t, fieldErrors(t, err), tt.field)
		})
	}
	assert.Empty(t, f.repo.recipes)
	assert.Empty(t, f.images.saved)
}

func TestCreate_CollectsAllFieldErrors(t *testing.T) {
	f := newFixture()
	req := f.request("Soup")
	req.CookingTime = dec("0")
	req.Ingredients = nil

	_, err := f.svc.Create(t.Context(), f.author, req)
	errs := fieldErrors(t, err)
	assert.Contains(t, errs, "cooking_time")
	assert.Contains(t, errs, "ingredients")
}

func TestCreate_DuplicateKeepsAmountErrors(t *testing.T) {
	f := newFixture()
	req := f.request("Soup")
	req.Ingredients[0].Amount = dec("0")
	req.Ingredients = append(req.Ingredients, model.IngredientAmount{ID: f.flour, Amount: dec("0")})

	_, err := f.svc.Create(t.Context(), f.author, req)
	errs := fieldErrors(t, err)
	assert.Equal(t, "ingredient is listed more than once", errs["ingredients.3.id"])
	assert.Contains(t, errs, "ingredients.3.amount")
	assert.Contains(t, errs, "ingredients.0.amount")
	assert.NotContains(t, errs, "ingredients.0.id")
	assert.Empty(t, f.repo.recipes)
}

func TestCreate_Failures(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(t.Context(), viewer.Anonymous(), f.request("Soup"))
	assert.Equal(t, apperror.Unauthenticated, apperror.KindOf(err))

	req := f.request("Soup")
	req.Tags = []uuid.UUID{uuid.New()}
	_, err = f.svc.Create(t.Context(), f.author, req)
	assert.ErrorIs(t, err, model.ErrTagNotFound)
	// upload rolled back
	assert.Equal(t, f.images.saved, f.images.deleted)

	req = f.request("Soup")
	req.Ingredients[0].ID = uuid.New()
	_, err = f.svc.Create(t.Context(), f.author, req)
	assert.Equal(t, apperror.NotFound, apperror.KindOf(err))

	req = f.request("Soup")
	req.Image = "not-a-data-uri"
	_, err = f.svc.Create(t.Context(), f.author, req)
	assert.ErrorIs(t, err, model.ErrInvalidImage)
}

func TestCreate_DuplicateNamePerAuthor(t *testing.T) {
	f := newFixture()
	f.create(t, f.author, "Borscht")

	_, err := f.svc.Create(t.Context(), f.author, f.request("Borscht"))
	require.Error(t, err)
	assert.Equal(t, apperror.Validation, apperror.KindOf(err))

	// another author may reuse the name
	other := f.create(t, f.other, "Borscht")
	assert.Equal(t, "Borscht", other.Name)
}

func TestUpdate_Partial(t *testing.T) {
	f := newFixture()
	created := f.create(t, f.author, "Pancakes")

	name := "Thin pancakes"
	got, err := f.svc.Update(t.Context(), f.author, created.ID, model.UpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Thin pancakes", got.Name)
	assert.Len(t, got.Ingredients, 3, "ingredients omitted → unchanged")
	assert.Len(t, got.Tags, 2)
	assert.Equal(t, created.Slug, got.Slug, "slug is fixed at creation")
	assert.Equal(t, created.Image, got.Image)

	lines := []model.IngredientAmount{{ID: f.egg, Amount: dec("3")}}
	tags := []uuid.UUID{f.lunch}
	got, err = f.svc.Update(t.Context(), f.author, created.ID, model.UpdateRequest{Ingredients: &lines, Tags: &tags})
	require.NoError(t, err)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, "egg", got.Ingredients[0].Name)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "lunch", got.Tags[0].Slug)
}

func TestUpdate_Validation(t *testing.T) {
	f := newFixture()
	created := f.create(t, f.author, "Pancakes")

	empty := []model.IngredientAmount{}
	_, err := f.svc.Update(t.Context(), f.author, created.ID, model.UpdateRequest{Ingredients: &empty})
	assert.Contains(t, fieldErrors(t, err), "ingredients")

	dup := []model.IngredientAmount{{ID: f.egg, Amount: dec("1")}, {ID: f.egg, Amount: dec("2")}}
	_, err = f.svc.Update(t.Context(), f.author, created.ID, model.UpdateRequest{Ingredients: &dup})
	assert.Contains(t, fieldErrors(t, err), "ingredients.1.id")

	zero := dec("0")
	_, err = f.svc.Update(t.Context(), f.author, created.ID, model.UpdateRequest{CookingTime: &zero})
	assert.Contains(t, fieldErrors(t, err), "cooking_time")

	got, err := f.svc.Get(t.Context(), f.author, created.ID)
	require.NoError(t, err)
	assert.Len(t, got.Ingredients, 3)
}

func TestUpdate_Image(t *testing.T) {
	f := newFixture()
	created := f.create(t, f.author, "Pancakes")

	// existing URL is kept without a new upload
	same := created.Image
	_, err := f.svc.Update(t.Context(), f.author, created.ID, model.UpdateRequest{Image: &same})
	require.NoError(t, err)
	assert.Len(t, f.images.saved, 1)
	assert.Empty(t, f.images.deleted)

	fresh := pngURI
	got, err := f.svc.Update(t.Context(), f.author, created.ID, model.UpdateRequest{Image: &fresh})
	require.NoError(t, err)
	require.Len(t, f.images.saved, 2)
	assert.Equal(t, f.images.saved[1], got.Image)
	assert.Equal(t, []string{created.Image}, f.images.deleted)
}

func TestImage_StoredObjectStaysWithItsRecipe(t *testing.T) {
	f := newFixture()
	victim := f.create(t, f.author, "Pancakes")

	copycat := f.request("Copycat")
	copycat.Image = victim.Image
	_, err := f.svc.Create(t.Context(), f.other, copycat)
	assert.ErrorIs(t, err, model.ErrForeignImage)

	mine := f.create(t, f.other, "Waffles")
	stolen := victim.Image
	_, err = f.svc.Update(t.Context(), f.other, mine.ID, model.UpdateRequest{Image: &stolen})
	assert.ErrorIs(t, err, model.ErrForeignImage)

	// external URLs are kept and never deleted
	external := "https://cdn.example.com/waffles.jpg"
	_, err = f.svc.Update(t.Context(), f.other, mine.ID, model.UpdateRequest{Image: &external})
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(t.Context(), f.other, mine.ID))

	assert.Equal(t, []string{mine.Image}, f.images.deleted)
	assert.NotContains(t, f.images.deleted, victim.Image)
}

func TestUpdateDelete_Permissions(t *testing.T) {
	f := newFixture()
	created := f.create(t, f.author, "Pancakes")
	name := "Mine now"

	_, err := f.svc.Update(t.Context(), f.other, created.ID, model.UpdateRequest{Name: &name})
	assert.Equal(t, apperror.PermissionDenied, apperror.KindOf(err))

	_, err = f.svc.Update(t.Context(), viewer.Anonymous(), created.ID, model.UpdateRequest{Name: &name})
	assert.Equal(t, apperror.Unauthenticated, apperror.KindOf(err))

	assert.Equal(t, apperror.PermissionDenied, apperror.KindOf(f.svc.Delete(t.Context(), f.other, created.ID)))

	admin := viewer.New(f.repo.addUser("admin"), viewer.RoleAdmin)
	_, err = f.svc.Update(t.Context(), admin, created.ID, model.UpdateRequest{Name: &name})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(t.Context(), f.author, created.ID))
	assert.Equal(t, []string{created.Image}, f.images.deleted)
	_, err = f.svc.Get(t.Context(), f.author, created.ID)
	assert.ErrorIs(t, err, model.ErrRecipeNotFound)
}

func TestFavoriteToggle(t *testing.T) {
	f := newFixture()
	r := f.create(t, f.author, "Pancakes")

	brief, err := f.svc.AddFavorite(t.Context(), f.other, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Name, brief.Name)

	_, err = f.svc.AddFavorite(t.Context(), f.other, r.ID)
	assert.Equal(t, apperror.Conflict, apperror.KindOf(err))

	require.NoError(t, f.svc.RemoveFavorite(t.Context(), f.other, r.ID))
	assert.Equal(t, apperror.NotFound, apperror.KindOf(f.svc.RemoveFavorite(t.Context(), f.other, r.ID)))

	_, err = f.svc.AddFavorite(t.Context(), f.other, uuid.New())
	assert.ErrorIs(t, err, model.ErrRecipeNotFound)

	_, err = f.svc.AddFavorite(t.Context(), viewer.Anonymous(), r.ID)
	assert.Equal(t, apperror.Unauthenticated, apperror.KindOf(err))
}

func TestCartToggle(t *testing.T) {
	f := newFixture()
	r := f.create(t, f.author, "Pancakes")

	_, err := f.svc.AddToCart(t.Context(), f.other, r.ID)
	require.NoError(t, err)
	_, err = f.svc.AddToCart(t.Context(), f.other, r.ID)
	assert.ErrorIs(t, err, model.ErrAlreadyInCart)

	require.NoError(t, f.svc.RemoveFromCart(t.Context(), f.other, r.ID))
	assert.ErrorIs(t, f.svc.RemoveFromCart(t.Context(), f.other, r.ID), model.ErrNotInCart)
}

func TestShoppingList(t *testing.T) {
	f := newFixture()

	first := f.request("Bread")
	first.Ingredients = []model.IngredientAmount{{ID: f.flour, Amount: dec("200")}, {ID: f.egg, Amount: dec("2")}}
	r1, err := f.svc.Create(t.Context(), f.author, first)
	require.NoError(t, err)

	second := f.request("Crepes")
	second.Ingredients = []model.IngredientAmount{{ID: f.flour, Amount: dec("100")}}
	r2, err := f.svc.Create(t.Context(), f.author, second)
	require.NoError(t, err)

	_, err = f.svc.AddToCart(t.Context(), f.other, r1.ID)
	require.NoError(t, err)
	_, err = f.svc.AddToCart(t.Context(), f.other, r2.ID)
	require.NoError(t, err)

	items, err := f.svc.ShoppingList(t.Context(), f.other)
	require.NoError(t, err)
	assert.Equal(t, "flour - 300 g\negg - 2 pcs\n", string(RenderShoppingList(items)))

	empty, err := f.svc.ShoppingList(t.Context(), f.author)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Empty(t, RenderShoppingList(empty))
}

func TestAggregateShoppingList_FirstUnitWins(t *testing.T) {
	items := AggregateShoppingList([]model.CartLine{
		{Name: "sugar", MeasurementUnit: "g", Amount: dec("10")},
		{Name: "salt", MeasurementUnit: "g", Amount: dec("2.5")},
		{Name: "sugar", MeasurementUnit: "tbsp", Amount: dec("1")},
	})

	require.Len(t, items, 2)
	assert.Equal(t, "sugar", items[0].Name)
	assert.Equal(t, "g", items[0].MeasurementUnit)
	assert.Equal(t, "11", items[0].Amount.String())
	assert.Equal(t, "salt - 2.5 g\n", string(RenderShoppingList(items[1:])))
}

func TestProjection_ViewerFlags(t *testing.T) {
	f := newFixture()
	r := f.create(t, f.author, "Pancakes")
	_, err := f.svc.AddFavorite(t.Context(), f.other, r.ID)
	require.NoError(t, err)
	f.subs.follows[pair{f.other.UserID, f.author.UserID}] = true

	got, err := f.svc.Get(t.Context(), f.other, r.ID)
	require.NoError(t, err)
	assert.True(t, got.IsFavorited)
	assert.False(t, got.IsInShoppingCart)
	assert.True(t, got.Author.IsSubscribed)

	flagCalls, subCalls := f.repo.flagCalls, f.subs.calls
	anon, err := f.svc.Get(t.Context(), viewer.Anonymous(), r.ID)
	require.NoError(t, err)
	assert.False(t, anon.IsFavorited)
	assert.False(t, anon.IsInShoppingCart)
	assert.False(t, anon.Author.IsSubscribed)
	assert.Equal(t, flagCalls, f.repo.flagCalls, "anonymous viewer must not trigger lookups")
	assert.Equal(t, subCalls, f.subs.calls)
}

func TestList_Pagination(t *testing.T) {
	f := newFixture()
	for i := range 13 {
		f.create(t, f.author, fmt.Sprintf("Recipe %02d", i))
	}

	var lastPage []model.RecipeResponse
	for page := 1; page <= 3; page++ {
		items, total, err := f.svc.List(t.Context(), f.other, ListQuery{}, utils.Pagination{Page: page, Limit: 6})
		require.NoError(t, err)
		assert.Equal(t, 13, total)
		meta := response.NewMeta(page, 6, total)
		assert.Equal(t, 3, meta.TotalPages)
		lastPage = items
	}
	require.Len(t, lastPage, 1)
	assert.Equal(t, "Recipe 00", lastPage[0].Name, "newest first")
}

func TestList_Filters(t *testing.T) {
	f := newFixture()
	a := f.create(t, f.author, "Pancakes")
	req := f.request("Salad")
	req.Tags = []uuid.UUID{f.lunch}
	b, err := f.svc.Create(t.Context(), f.other, req)
	require.NoError(t, err)
	_, err = f.svc.AddFavorite(t.Context(), f.other, a.ID)
	require.NoError(t, err)
	page := utils.Pagination{Page: 1, Limit: 6}

	items, total, err := f.svc.List(t.Context(), f.other, ListQuery{IsFavorited: true}, page)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, a.ID, items[0].ID)

	// anonymous: flag filters are ignored
	_, total, err = f.svc.List(t.Context(), viewer.Anonymous(), ListQuery{IsFavorited: true}, page)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	items, _, err = f.svc.List(t.Context(), f.other, ListQuery{AuthorID: f.other.UserID}, page)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ID)

	_, total, err = f.svc.List(t.Context(), f.other, ListQuery{Tags: []string{"breakfast"}}, page)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, total, err = f.svc.List(t.Context(), f.other, ListQuery{IsInShoppingCart: true}, page)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

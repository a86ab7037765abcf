package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"foodgram-backend/internal/domains/recipe/model"
	tagModel "foodgram-backend/internal/domains/tag/model"
	userModel "foodgram-backend/internal/domains/user/model"
	"foodgram-backend/internal/infrastructure/storage"
)

type pair struct{ user, recipe uuid.UUID }

// fakeRepo keeps recipes in memory and mimics the constraint behaviour of the
// Postgres repository.
type fakeRepo struct {
	recipes     map[uuid.UUID]*model.Recipe
	tags        map[uuid.UUID]tagModel.Tag
	ingredients map[uuid.UUID]model.IngredientLine
	users       map[uuid.UUID]userModel.User
	favorites   map[pair]bool
	purchases   []pair
	clock       time.Time

	flagCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		recipes:     map[uuid.UUID]*model.Recipe{},
		tags:        map[uuid.UUID]tagModel.Tag{},
		ingredients: map[uuid.UUID]model.IngredientLine{},
		users:       map[uuid.UUID]userModel.User{},
		favorites:   map[pair]bool{},
		clock:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeRepo) addUser(username string) uuid.UUID {
	id := uuid.New()
	f.users[id] = userModel.User{ID: id, Username: username, Email: username + "@example.com"}
	return id
}

func (f *fakeRepo) addTag(slug string) uuid.UUID {
	id := uuid.New()
	f.tags[id] = tagModel.Tag{ID: id, Name: slug, Slug: slug, Color: "#000000"}
	return id
}

func (f *fakeRepo) addIngredient(name, unit string) uuid.UUID {
	id := uuid.New()
	f.ingredients[id] = model.IngredientLine{IngredientID: id, Name: name, MeasurementUnit: unit}
	return id
}

func (f *fakeRepo) Create(_ context.Context, r *model.Recipe, tagIDs []uuid.UUID, lines []model.IngredientAmount) error {
	for _, existing := range f.recipes {
		if existing.AuthorID == r.AuthorID && existing.Name == r.Name {
			return model.ErrDuplicateName
		}
	}
	tags, err := f.resolveTags(tagIDs)
	if err != nil {
		return err
	}
	ingredients, err := f.resolveLines(lines)
	if err != nil {
		return err
	}

	f.clock = f.clock.Add(time.Minute)
	stored := *r
	stored.ID = uuid.New()
	stored.PubDate = f.clock
	stored.Author = f.users[r.AuthorID]
	stored.Tags = tags
	stored.Ingredients = ingredients
	f.recipes[stored.ID] = &stored
	r.ID = stored.ID
	r.PubDate = stored.PubDate
	return nil
}

func (f *fakeRepo) Update(_ context.Context, id uuid.UUID, req model.UpdateRequest) error {
	r, ok := f.recipes[id]
	if !ok {
		return model.ErrRecipeNotFound
	}
	next := *r
	if req.Name != nil {
		next.Name = *req.Name
	}
	if req.Text != nil {
		next.Text = *req.Text
	}
	if req.Image != nil {
		next.Image = *req.Image
	}
	if req.CookingTime != nil {
		next.CookingTime = *req.CookingTime
	}
	if req.Tags != nil {
		tags, err := f.resolveTags(*req.Tags)
		if err != nil {
			return err
		}
		next.Tags = tags
	}
	if req.Ingredients != nil {
		lines, err := f.resolveLines(*req.Ingredients)
		if err != nil {
			return err
		}
		next.Ingredients = lines
	}
	f.recipes[id] = &next
	return nil
}

func (f *fakeRepo) resolveTags(ids []uuid.UUID) ([]tagModel.Tag, error) {
	tags := []tagModel.Tag{}
	for _, id := range ids {
		t, ok := f.tags[id]
		if !ok {
			return nil, model.ErrTagNotFound
		}
		tags = append(tags, t)
	}
	return tags, nil
}

func (f *fakeRepo) resolveLines(lines []model.IngredientAmount) ([]model.IngredientLine, error) {
	out := []model.IngredientLine{}
	for _, l := range lines {
		ing, ok := f.ingredients[l.ID]
		if !ok {
			return nil, model.ErrIngredientNotFound
		}
		ing.Amount = l.Amount
		out = append(out, ing)
	}
	return out, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.recipes[id]; !ok {
		return model.ErrRecipeNotFound
	}
	delete(f.recipes, id)
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Recipe, error) {
	r, ok := f.recipes[id]
	if !ok {
		return nil, model.ErrRecipeNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) GetBrief(_ context.Context, id uuid.UUID) (*model.BriefRecipe, error) {
	r, ok := f.recipes[id]
	if !ok {
		return nil, model.ErrRecipeNotFound
	}
	b := model.ToBriefRecipe(r)
	return &b, nil
}

func (f *fakeRepo) List(_ context.Context, filter model.ListFilter, offset, limit int) ([]model.Recipe, int, error) {
	var all []model.Recipe
	for _, r := range f.recipes {
		if filter.AuthorID != uuid.Nil && r.AuthorID != filter.AuthorID {
			continue
		}
		if filter.FavoritedBy != uuid.Nil && !f.favorites[pair{filter.FavoritedBy, r.ID}] {
			continue
		}
		if filter.InCartOf != uuid.Nil && !f.inCart(filter.InCartOf, r.ID) {
			continue
		}
		if len(filter.TagSlugs) > 0 && !hasAnyTag(r.Tags, filter.TagSlugs) {
			continue
		}
		all = append(all, *r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].PubDate.After(all[j].PubDate) })

	total := len(all)
	if offset >= total {
		return []model.Recipe{}, total, nil
	}
	end := min(offset+limit, total)
	return all[offset:end], total, nil
}

func hasAnyTag(tags []tagModel.Tag, slugs []string) bool {
	for _, t := range tags {
		for _, s := range slugs {
			if strings.EqualFold(t.Slug, s) {
				return true
			}
		}
	}
	return false
}

func (f *fakeRepo) inCart(userID, recipeID uuid.UUID) bool {
	for _, p := range f.purchases {
		if p == (pair{userID, recipeID}) {
			return true
		}
	}
	return false
}

func (f *fakeRepo) FlagsFor(_ context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]model.Flags, error) {
	f.flagCalls++
	out := map[uuid.UUID]model.Flags{}
	for _, id := range ids {
		out[id] = model.Flags{Favorited: f.favorites[pair{userID, id}], InCart: f.inCart(userID, id)}
	}
	return out, nil
}

func (f *fakeRepo) AddFavorite(_ context.Context, userID, recipeID uuid.UUID) error {
	p := pair{userID, recipeID}
	if f.favorites[p] {
		return model.ErrAlreadyFavorited
	}
	f.favorites[p] = true
	return nil
}

func (f *fakeRepo) RemoveFavorite(_ context.Context, userID, recipeID uuid.UUID) error {
	p := pair{userID, recipeID}
	if !f.favorites[p] {
		return model.ErrNotFavorited
	}
	delete(f.favorites, p)
	return nil
}

func (f *fakeRepo) AddPurchase(_ context.Context, userID, recipeID uuid.UUID) error {
	if f.inCart(userID, recipeID) {
		return model.ErrAlreadyInCart
	}
	f.purchases = append(f.purchases, pair{userID, recipeID})
	return nil
}

func (f *fakeRepo) RemovePurchase(_ context.Context, userID, recipeID uuid.UUID) error {
	for i, p := range f.purchases {
		if p == (pair{userID, recipeID}) {
			f.purchases = append(f.purchases[:i], f.purchases[i+1:]...)
			return nil
		}
	}
	return model.ErrNotInCart
}

func (f *fakeRepo) CartLines(_ context.Context, userID uuid.UUID) ([]model.CartLine, error) {
	var lines []model.CartLine
	for _, p := range f.purchases {
		if p.user != userID {
			continue
		}
		for _, l := range f.recipes[p.recipe].Ingredients {
			lines = append(lines, model.CartLine{Name: l.Name, MeasurementUnit: l.MeasurementUnit, Amount: l.Amount})
		}
	}
	return lines, nil
}

func (f *fakeRepo) ListBriefByAuthors(context.Context, []uuid.UUID, int) (map[uuid.UUID][]model.BriefRecipe, error) {
	return map[uuid.UUID][]model.BriefRecipe{}, nil
}

func (f *fakeRepo) CountByAuthors(context.Context, []uuid.UUID) (map[uuid.UUID]int, error) {
	return map[uuid.UUID]int{}, nil
}

type fakeSubs struct {
	follows map[pair]bool
	calls   int
}

func (f *fakeSubs) SubscribedAmong(_ context.Context, userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	f.calls++
	out := map[uuid.UUID]bool{}
	for _, id := range authorIDs {
		if f.follows[pair{userID, id}] {
			out[id] = true
		}
	}
	return out, nil
}

type fakeImages struct {
	saved   []string
	deleted []string
}

func (f *fakeImages) SaveRecipeImage(_ context.Context, dataURI string) (string, error) {
	if !strings.HasPrefix(dataURI, "data:image/") {
		return "", storage.ErrInvalidImage
	}
	url := "http://minio.local/foodgram/recipes/images/" + uuid.NewString() + ".png"
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeImages) Owns(url string) bool {
	return strings.HasPrefix(url, "http://minio.local/foodgram/recipes/images/")
}

func (f *fakeImages) DeleteByURL(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

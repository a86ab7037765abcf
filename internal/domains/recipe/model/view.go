package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	tagModel "foodgram-backend/internal/domains/tag/model"
	userModel "foodgram-backend/internal/domains/user/model"
)

// IngredientLineResponse - {"id", "name", "measurement_unit", "amount"}
type IngredientLineResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	MeasurementUnit string          `json:"measurement_unit"`
	Amount          decimal.Decimal `json:"amount"`
}

// RecipeResponse is a recipe as seen by one viewer.
type RecipeResponse struct {
	ID               uuid.UUID                `json:"id"`
	Tags             []tagModel.Tag           `json:"tags"`
	Author           userModel.UserResponse   `json:"author"`
	Ingredients      []IngredientLineResponse `json:"ingredients"`
	IsFavorited      bool                     `json:"is_favorited"`
	IsInShoppingCart bool                     `json:"is_in_shopping_cart"`
	Name             string                   `json:"name"`
	Slug             string                   `json:"slug"`
	Image            string                   `json:"image"`
	Text             string                   `json:"text"`
	CookingTime      decimal.Decimal          `json:"cooking_time"`
	PubDate          time.Time                `json:"pub_date"`
}

// BriefRecipe - dùng cho favorite/shopping_cart và danh sách subscriptions
type BriefRecipe struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Image       string          `json:"image"`
	CookingTime decimal.Decimal `json:"cooking_time"`
}

func ToRecipeResponse(r *Recipe, flags Flags, authorSubscribed bool) RecipeResponse {
	tags := r.Tags
	if tags == nil {
		tags = []tagModel.Tag{}
	}
	lines := make([]IngredientLineResponse, 0, len(r.Ingredients))
	for _, l := range r.Ingredients {
		lines = append(lines, IngredientLineResponse{
			ID:              l.IngredientID,
			Name:            l.Name,
			MeasurementUnit: l.MeasurementUnit,
			Amount:          l.Amount,
		})
	}

	return RecipeResponse{
		ID:               r.ID,
		Tags:             tags,
		Author:           userModel.ToUserResponse(&r.Author, authorSubscribed),
		Ingredients:      lines,
		IsFavorited:      flags.Favorited,
		IsInShoppingCart: flags.InCart,
		Name:             r.Name,
		Slug:             r.Slug,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
		PubDate:          r.PubDate,
	}
}

func ToBriefRecipe(r *Recipe) BriefRecipe {
	return BriefRecipe{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

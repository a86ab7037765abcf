package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	tagModel "foodgram-backend/internal/domains/tag/model"
	userModel "foodgram-backend/internal/domains/user/model"
)

// Recipe - entity chính, Tags và Ingredients được load kèm khi đọc
type Recipe struct {
	ID          uuid.UUID
	AuthorID    uuid.UUID
	Author      userModel.User
	Name        string
	Slug        string
	Image       string
	Text        string
	CookingTime decimal.Decimal
	PubDate     time.Time
	UpdatedAt   time.Time

	Tags        []tagModel.Tag
	Ingredients []IngredientLine
}

// IngredientLine is one row of recipe_ingredients joined with its ingredient.
type IngredientLine struct {
	IngredientID    uuid.UUID
	Name            string
	MeasurementUnit string
	Amount          decimal.Decimal
}

// Flags are the viewer-relative markers of a recipe.
type Flags struct {
	Favorited bool
	InCart    bool
}

// ListFilter is what the repository filters on. Zero values mean "no filter".
type ListFilter struct {
	AuthorID    uuid.UUID
	TagSlugs    []string
	FavoritedBy uuid.UUID
	InCartOf    uuid.UUID
}

// CartLine is an ingredient line of a recipe in someone's shopping cart,
// in cart order then recipe line order.
type CartLine struct {
	Name            string
	MeasurementUnit string
	Amount          decimal.Decimal
}

// ShoppingItem is one aggregated row of the shopping list.
type ShoppingItem struct {
	Name            string          `json:"name"`
	MeasurementUnit string          `json:"measurement_unit"`
	Amount          decimal.Decimal `json:"amount"`
}

package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"foodgram-backend/internal/shared/apperror"
)

type Ingredient struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
}

// CreateRequest - POST /api/ingredients (admin); cũng dùng cho import
type CreateRequest struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

func (r *CreateRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.MeasurementUnit = strings.TrimSpace(r.MeasurementUnit)
}

func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.MeasurementUnit, validation.Required, validation.Length(1, 200)),
	)
}

var (
	ErrIngredientNotFound = apperror.New(apperror.NotFound, "INGREDIENT_NOT_FOUND", "ingredient not found")
	ErrIngredientExists   = apperror.New(apperror.Conflict, "INGREDIENT_EXISTS", "ingredient with this name and unit already exists")
	ErrIngredientInUse    = apperror.New(apperror.Conflict, "INGREDIENT_IN_USE", "ingredient is used in recipes")
)

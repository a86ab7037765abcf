package model

import "foodgram-backend/internal/shared/apperror"

var (
	ErrRecipeNotFound     = apperror.New(apperror.NotFound, "RECIPE_NOT_FOUND", "recipe not found")
	ErrTagNotFound        = apperror.New(apperror.NotFound, "TAG_NOT_FOUND", "tag not found")
	ErrIngredientNotFound = apperror.New(apperror.NotFound, "INGREDIENT_NOT_FOUND", "ingredient not found")

	ErrDuplicateName = &apperror.Error{
		Kind:    apperror.Validation,
		Code:    "RECIPE_NAME_TAKEN",
		Message: "you already have a recipe with this name",
		Fields:  map[string]string{"name": "you already have a recipe with this name"},
	}
	ErrInvalidImage = &apperror.Error{
		Kind:    apperror.Validation,
		Code:    "INVALID_IMAGE",
		Message: "upload a valid jpeg or png image",
		Fields:  map[string]string{"image": "upload a valid jpeg or png image"},
	}
	ErrForeignImage = &apperror.Error{
		Kind:    apperror.Validation,
		Code:    "IMAGE_NOT_OWNED",
		Message: "image belongs to another recipe, upload a new one",
		Fields:  map[string]string{"image": "image belongs to another recipe, upload a new one"},
	}

	ErrPermissionDenied = apperror.New(apperror.PermissionDenied, "PERMISSION_DENIED", "only the author can change this recipe")
	ErrUnauthenticated  = apperror.New(apperror.Unauthenticated, "UNAUTHENTICATED", "authentication credentials were not provided")

	// Toggles
	ErrAlreadyFavorited = apperror.New(apperror.Conflict, "ALREADY_FAVORITED", "recipe already in favorites")
	ErrNotFavorited     = apperror.New(apperror.NotFound, "NOT_FAVORITED", "recipe is not in favorites")
	ErrAlreadyInCart    = apperror.New(apperror.Conflict, "ALREADY_IN_CART", "recipe already in shopping list")
	ErrNotInCart        = apperror.New(apperror.NotFound, "NOT_IN_CART", "recipe is not in shopping list")
)

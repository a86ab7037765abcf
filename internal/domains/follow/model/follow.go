package model

import (
	recipeModel "foodgram-backend/internal/domains/recipe/model"
	userModel "foodgram-backend/internal/domains/user/model"
	"foodgram-backend/internal/shared/apperror"
)

// AllRecipes is the recipes_limit used when the query parameter is absent.
// An explicit 0 returns an empty recipes list.
const AllRecipes = -1

// AuthorResponse - tác giả được follow, kèm danh sách recipe rút gọn
type AuthorResponse struct {
	userModel.UserResponse
	Recipes      []recipeModel.BriefRecipe `json:"recipes"`
	RecipesCount int                       `json:"recipes_count"`
}

func ToAuthorResponse(u *userModel.User, subscribed bool, recipes []recipeModel.BriefRecipe, count int) AuthorResponse {
	if recipes == nil {
		recipes = []recipeModel.BriefRecipe{}
	}
	return AuthorResponse{
		UserResponse: userModel.ToUserResponse(u, subscribed),
		Recipes:      recipes,
		RecipesCount: count,
	}
}

var (
	ErrSelfFollow = &apperror.Error{
		Kind:    apperror.Validation,
		Code:    "SELF_FOLLOW",
		Message: "cannot follow yourself",
		Fields:  map[string]string{"author": "cannot follow yourself"},
	}
	ErrAlreadySubscribed = &apperror.Error{
		Kind:    apperror.Validation,
		Code:    "ALREADY_SUBSCRIBED",
		Message: "already subscribed to this author",
		Fields:  map[string]string{"author": "already subscribed to this author"},
	}
	ErrNotSubscribed   = apperror.New(apperror.NotFound, "NOT_SUBSCRIBED", "you are not subscribed to this author")
	ErrUnauthenticated = apperror.New(apperror.Unauthenticated, "UNAUTHENTICATED", "authentication credentials were not provided")
)

package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"foodgram-backend/internal/domains/recipe/model"
	"foodgram-backend/internal/domains/recipe/service"
	"foodgram-backend/internal/shared/apperror"
	"foodgram-backend/internal/shared/response"
	"foodgram-backend/internal/shared/utils"
	"foodgram-backend/internal/shared/viewer"
)

type RecipeHandler struct {
	recipeService service.ServiceInterface
	pageSize      int
	maxPageSize   int
}

func NewRecipeHandler(recipeService service.ServiceInterface, pageSize, maxPageSize int) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		pageSize:      pageSize,
		maxPageSize:   maxPageSize,
	}
}

// List - GET /api/recipes?page=&limit=&author=&tags=&tags=&is_favorited=&is_in_shopping_cart=
func (h *RecipeHandler) List(c *gin.Context) {
	var q service.ListQuery
	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			response.HandleError(c, apperror.NewValidation("author", "invalid author id"))
			return
		}
		q.AuthorID = id
	}
	q.Tags = c.QueryArray("tags")
	q.IsFavorited = utils.ParseBoolFlag(c.Query("is_favorited"))
	q.IsInShoppingCart = utils.ParseBoolFlag(c.Query("is_in_shopping_cart"))

	page := utils.ParsePagination(c.Query("page"), c.Query("limit"), h.pageSize, h.maxPageSize)
	recipes, total, err := h.recipeService.List(c.Request.Context(), viewer.FromContext(c), q, page)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, recipes, response.NewMeta(page.Page, page.Limit, total))
}

// Get - GET /api/recipes/:id
func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	recipe, err := h.recipeService.Get(c.Request.Context(), viewer.FromContext(c), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, recipe)
}

// Create - POST /api/recipes
func (h *RecipeHandler) Create(c *gin.Context) {
	var req model.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	recipe, err := h.recipeService.Create(c.Request.Context(), viewer.FromContext(c), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, recipe)
}

// Update - PATCH /api/recipes/:id
func (h *RecipeHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req model.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	recipe, err := h.recipeService.Update(c.Request.Context(), viewer.FromContext(c), id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, recipe)
}

// Delete - DELETE /api/recipes/:id
func (h *RecipeHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.recipeService.Delete(c.Request.Context(), viewer.FromContext(c), id); err != nil {
		response.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddFavorite - GET|POST /api/recipes/:id/favorite
func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.add(c, h.recipeService.AddFavorite)
}

// RemoveFavorite - DELETE /api/recipes/:id/favorite
func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.remove(c, h.recipeService.RemoveFavorite)
}

// AddToCart - GET|POST /api/recipes/:id/shopping_cart
func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.add(c, h.recipeService.AddToCart)
}

// RemoveFromCart - DELETE /api/recipes/:id/shopping_cart
func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.remove(c, h.recipeService.RemoveFromCart)
}

// DownloadShoppingCart - GET /api/recipes/download_shopping_cart (text/plain)
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	items, err := h.recipeService.ShoppingList(c.Request.Context(), viewer.FromContext(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", service.ShoppingListFilename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", service.RenderShoppingList(items))
}

func (h *RecipeHandler) add(c *gin.Context, fn func(ctx context.Context, v viewer.Viewer, id uuid.UUID) (*model.BriefRecipe, error)) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	brief, err := fn(c.Request.Context(), viewer.FromContext(c), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, brief)
}

func (h *RecipeHandler) remove(c *gin.Context, fn func(ctx context.Context, v viewer.Viewer, id uuid.UUID) error) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := fn(c.Request.Context(), viewer.FromContext(c), id); err != nil {
		response.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.HandleError(c, model.ErrRecipeNotFound)
		return uuid.Nil, false
	}
	return id, true
}

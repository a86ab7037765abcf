package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"foodgram-backend/internal/domains/ingredient/model"
	"foodgram-backend/internal/domains/ingredient/service"
	"foodgram-backend/internal/shared/response"
)

type IngredientHandler struct {
	ingredientService service.ServiceInterface
}

func NewIngredientHandler(ingredientService service.ServiceInterface) *IngredientHandler {
	return &IngredientHandler{ingredientService: ingredientService}
}

// List - GET /api/ingredients?name=<prefix>
func (h *IngredientHandler) List(c *gin.Context) {
	items, err := h.ingredientService.Search(c.Request.Context(), c.Query("name"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// Get - GET /api/ingredients/:id
func (h *IngredientHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.ingredientService.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, item)
}

// Create - POST /api/ingredients (admin)
func (h *IngredientHandler) Create(c *gin.Context) {
	var req model.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	item, err := h.ingredientService.Create(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, item)
}

// Delete - DELETE /api/ingredients/:id (admin)
func (h *IngredientHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.ingredientService.Delete(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.HandleError(c, model.ErrIngredientNotFound)
		return uuid.Nil, false
	}
	return id, true
}

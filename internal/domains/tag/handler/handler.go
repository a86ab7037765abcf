package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"foodgram-backend/internal/domains/tag/model"
	"foodgram-backend/internal/domains/tag/service"
	"foodgram-backend/internal/shared/response"
)

type TagHandler struct {
	tagService service.ServiceInterface
}

func NewTagHandler(tagService service.ServiceInterface) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// List - GET /api/tags (không phân trang)
func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.tagService.List(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tags)
}

// Get - GET /api/tags/:id
func (h *TagHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.HandleError(c, model.ErrTagNotFound)
		return
	}

	tag, err := h.tagService.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tag)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"foodgram-backend/internal/domains/follow/model"
	"foodgram-backend/internal/domains/follow/service"
	userModel "foodgram-backend/internal/domains/user/model"
	"foodgram-backend/internal/shared/apperror"
	"foodgram-backend/internal/shared/response"
	"foodgram-backend/internal/shared/utils"
	"foodgram-backend/internal/shared/viewer"
)

type FollowHandler struct {
	followService service.ServiceInterface
	pageSize      int
	maxPageSize   int
}

func NewFollowHandler(followService service.ServiceInterface, pageSize, maxPageSize int) *FollowHandler {
	return &FollowHandler{
		followService: followService,
		pageSize:      pageSize,
		maxPageSize:   maxPageSize,
	}
}

// Subscribe - GET|POST /api/users/:id/subscribe?recipes_limit=
func (h *FollowHandler) Subscribe(c *gin.Context) {
	authorID, ok := parseAuthorID(c)
	if !ok {
		return
	}
	limit, ok := parseRecipesLimit(c)
	if !ok {
		return
	}
	author, err := h.followService.Subscribe(c.Request.Context(), viewer.FromContext(c), authorID, limit)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, author)
}

// Unsubscribe - DELETE /api/users/:id/subscribe
func (h *FollowHandler) Unsubscribe(c *gin.Context) {
	authorID, ok := parseAuthorID(c)
	if !ok {
		return
	}
	if err := h.followService.Unsubscribe(c.Request.Context(), viewer.FromContext(c), authorID); err != nil {
		response.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscriptions - GET /api/users/subscriptions?page=&limit=&recipes_limit=
func (h *FollowHandler) Subscriptions(c *gin.Context) {
	limit, ok := parseRecipesLimit(c)
	if !ok {
		return
	}
	page := utils.ParsePagination(c.Query("page"), c.Query("limit"), h.pageSize, h.maxPageSize)

	authors, total, err := h.followService.Subscriptions(c.Request.Context(), viewer.FromContext(c), page, limit)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, authors, response.NewMeta(page.Page, page.Limit, total))
}

func parseAuthorID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.HandleError(c, userModel.ErrUserNotFound)
		return uuid.Nil, false
	}
	return id, true
}

// parseRecipesLimit: thiếu → model.AllRecipes, 0 → danh sách rỗng, số âm hoặc không phải số → 400
func parseRecipesLimit(c *gin.Context) (int, bool) {
	raw, present := c.GetQuery("recipes_limit")
	if !present {
		return model.AllRecipes, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		response.HandleError(c, apperror.NewValidation("recipes_limit", "must be a non-negative integer"))
		return 0, false
	}
	return n, true
}

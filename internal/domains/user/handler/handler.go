package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"foodgram-backend/internal/domains/user/model"
	"foodgram-backend/internal/domains/user/service"
	"foodgram-backend/internal/shared/middleware"
	"foodgram-backend/internal/shared/response"
	"foodgram-backend/internal/shared/utils"
	"foodgram-backend/internal/shared/viewer"
)

type UserHandler struct {
	userService service.ServiceInterface
	pageSize    int
	maxPageSize int
}

func NewUserHandler(userService service.ServiceInterface, pageSize, maxPageSize int) *UserHandler {
	return &UserHandler{
		userService: userService,
		pageSize:    pageSize,
		maxPageSize: maxPageSize,
	}
}

// Register creates a user account
// POST /api/users
func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, user)
}

// Login issues an access token
// POST /api/auth/token/login
func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	token, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, token)
}

// Logout revokes the current token
// POST /api/auth/token/logout
func (h *UserHandler) Logout(c *gin.Context) {
	claims, _ := middleware.ClaimsFromContext(c)
	if err := h.userService.Logout(c.Request.Context(), claims); err != nil {
		response.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me returns the current user
// GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userService.Me(c.Request.Context(), viewer.FromContext(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// SetPassword changes the current user's password
// POST /api/users/set_password
func (h *UserHandler) SetPassword(c *gin.Context) {
	var req model.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.userService.SetPassword(c.Request.Context(), viewer.FromContext(c), req); err != nil {
		response.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List returns a page of users
// GET /api/users?page=&limit=
func (h *UserHandler) List(c *gin.Context) {
	page := utils.ParsePagination(c.Query("page"), c.Query("limit"), h.pageSize, h.maxPageSize)

	users, total, err := h.userService.List(c.Request.Context(), viewer.FromContext(c), page)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, users, response.NewMeta(page.Page, page.Limit, total))
}

// Get returns a user profile
// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.HandleError(c, model.ErrUserNotFound)
		return
	}

	user, err := h.userService.Get(c.Request.Context(), viewer.FromContext(c), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

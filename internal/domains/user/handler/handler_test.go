package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram-backend/internal/domains/user/model"
	"foodgram-backend/internal/shared/utils"
	"foodgram-backend/internal/shared/viewer"
	"foodgram-backend/pkg/jwt"
)

type stubService struct {
	users    []model.UserResponse
	lastPage utils.Pagination
}

func (s *stubService) Register(_ context.Context, req model.RegisterRequest) (*model.RegisterResponse, error) {
	if req.Email == "taken@example.com" {
		return nil, model.ErrEmailAlreadyExists
	}
	return &model.RegisterResponse{ID: uuid.New(), Email: req.Email, Username: req.Username}, nil
}

func (s *stubService) Login(context.Context, model.LoginRequest) (*model.TokenResponse, error) {
	return &model.TokenResponse{AuthToken: "tok"}, nil
}

func (s *stubService) Logout(context.Context, *jwt.Claims) error { return nil }

func (s *stubService) IsTokenRevoked(context.Context, string) (bool, error) { return false, nil }

func (s *stubService) SetPassword(context.Context, viewer.Viewer, model.SetPasswordRequest) error {
	return nil
}

func (s *stubService) Me(context.Context, viewer.Viewer) (*model.UserResponse, error) {
	return nil, model.ErrUnauthenticated
}

func (s *stubService) Get(_ context.Context, _ viewer.Viewer, id uuid.UUID) (*model.UserResponse, error) {
	for _, u := range s.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (s *stubService) List(_ context.Context, _ viewer.Viewer, page utils.Pagination) ([]model.UserResponse, int, error) {
	s.lastPage = page
	return s.users, len(s.users), nil
}

func router(svc *stubService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewUserHandler(svc, 6, 100)
	r := gin.New()
	r.POST("/api/users", h.Register)
	r.GET("/api/users", h.List)
	r.GET("/api/users/me", h.Me)
	r.GET("/api/users/:id", h.Get)
	return r
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	r := router(&stubService{})

	w := serve(r, http.MethodPost, "/api/users", `{"email":"new@example.com","username":"new"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = serve(r, http.MethodPost, "/api/users", `{"email":"taken@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"user with this email already exists"`)

	w = serve(r, http.MethodPost, "/api/users", `{broken`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestList_Meta(t *testing.T) {
	svc := &stubService{users: []model.UserResponse{{ID: uuid.New(), Username: "olivia"}, {ID: uuid.New(), Username: "ash"}}}
	r := router(svc)

	w := serve(r, http.MethodGet, "/api/users?page=1&limit=500", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100, svc.lastPage.Limit)

	var body struct {
		Data []model.UserResponse `json:"data"`
		Meta struct {
			Count int `json:"count"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 2)
	assert.Equal(t, 2, body.Meta.Count)
}

func TestGet(t *testing.T) {
	id := uuid.New()
	r := router(&stubService{users: []model.UserResponse{{ID: id, Username: "olivia"}}})

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/users/"+id.String(), "").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/api/users/"+uuid.NewString(), "").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/api/users/not-a-uuid", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/api/users/me", "").Code)
}

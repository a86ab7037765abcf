package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"foodgram-backend/internal/shared/response"
	"foodgram-backend/internal/shared/viewer"
	"foodgram-backend/pkg/jwt"
)

const (
	ContextKeyClaims = "claims"
	ContextKeyToken  = "token"
)

var (
	errMissingHeader = errors.New("missing authorization header")
	errBadHeader     = errors.New("invalid authorization header format")
	errInvalidToken  = errors.New("invalid token")
	errRevokedToken  = errors.New("token has been revoked")
)

// RevocationChecker reports whether a token id was revoked by logout.
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// Authenticator verifies access tokens and puts the viewer into the gin context.
type Authenticator struct {
	jwt     *jwt.Manager
	revoked RevocationChecker
}

func NewAuthenticator(jwtManager *jwt.Manager, revoked RevocationChecker) *Authenticator {
	return &Authenticator{jwt: jwtManager, revoked: revoked}
}

// AuthMiddleware - bắt buộc phải có token hợp lệ
func (a *Authenticator) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := a.authenticate(c); err != nil {
			response.Unauthorized(c, err.Error())
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware lets anonymous requests through; a token that is present
// but invalid is still rejected.
func (a *Authenticator) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		err := a.authenticate(c)
		switch {
		case err == nil:
		case errors.Is(err, errMissingHeader):
			viewer.Set(c, viewer.Anonymous())
		default:
			response.Unauthorized(c, err.Error())
			c.Abort()
			return
		}
		c.Next()
	}
}

func (a *Authenticator) authenticate(c *gin.Context) error {
	token, err := extractToken(c.GetHeader("Authorization"))
	if err != nil {
		return err
	}

	claims, err := a.jwt.ValidateToken(token)
	if err != nil {
		return errInvalidToken
	}

	if a.revoked != nil {
		revoked, err := a.revoked.IsTokenRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			return err
		}
		if revoked {
			return errRevokedToken
		}
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return errInvalidToken
	}

	viewer.Set(c, viewer.New(userID, claims.Role))
	c.Set(ContextKeyClaims, claims)
	c.Set(ContextKeyToken, token)
	return nil
}

// extractToken accepts "Bearer <token>" and "Token <token>".
func extractToken(header string) (string, error) {
	if header == "" {
		return "", errMissingHeader
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || token == "" {
		return "", errBadHeader
	}
	switch strings.ToLower(scheme) {
	case "bearer", "token":
		return strings.TrimSpace(token), nil
	default:
		return "", errBadHeader
	}
}

// ClaimsFromContext returns the claims set by AuthMiddleware.
func ClaimsFromContext(c *gin.Context) (*jwt.Claims, bool) {
	raw, ok := c.Get(ContextKeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := raw.(*jwt.Claims)
	return claims, ok
}

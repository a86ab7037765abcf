// Package viewer describes who is making the current request.
package viewer

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	contextKey = "viewer"
)

// Viewer is the authenticated user or the anonymous visitor (UserID == uuid.Nil).
type Viewer struct {
	UserID uuid.UUID
	Role   string
}

func Anonymous() Viewer { return Viewer{} }

func New(userID uuid.UUID, role string) Viewer {
	return Viewer{UserID: userID, Role: role}
}

func (v Viewer) IsAnonymous() bool { return v.UserID == uuid.Nil }

func (v Viewer) IsAdmin() bool { return !v.IsAnonymous() && v.Role == RoleAdmin }

// CanModify reports whether v may edit something owned by ownerID.
func (v Viewer) CanModify(ownerID uuid.UUID) bool {
	return !v.IsAnonymous() && (v.UserID == ownerID || v.IsAdmin())
}

// Set stores v in the gin context.
func Set(c *gin.Context, v Viewer) { c.Set(contextKey, v) }

// FromContext returns the viewer set by the auth middlewares, anonymous otherwise.
func FromContext(c *gin.Context) Viewer {
	if raw, ok := c.Get(contextKey); ok {
		if v, ok := raw.(Viewer); ok {
			return v
		}
	}
	return Anonymous()
}

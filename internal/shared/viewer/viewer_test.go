package viewer

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestViewer_CanModify(t *testing.T) {
	owner := uuid.New()

	assert.True(t, New(owner, RoleUser).CanModify(owner))
	assert.False(t, New(uuid.New(), RoleUser).CanModify(owner))
	assert.True(t, New(uuid.New(), RoleAdmin).CanModify(owner))
	assert.False(t, Anonymous().CanModify(owner))
	assert.False(t, Viewer{Role: RoleAdmin}.IsAdmin())
}

func TestFromContext(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.True(t, FromContext(c).IsAnonymous())

	id := uuid.New()
	Set(c, New(id, RoleUser))
	assert.Equal(t, id, FromContext(c).UserID)
}

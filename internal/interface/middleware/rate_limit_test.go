package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newKeyCtx(t *testing.T, path string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", path, nil)
	c.Set(CtxRealIPKey, "203.0.113.7")
	return c
}

func TestKeyFuncs_DistinctScopes(t *testing.T) {
	login := newKeyCtx(t, "/api/auth")
	posts := newKeyCtx(t, "/api/posts")

	// per-IP keys collapse across routes; path-scoped keys must not, so a
	// strict quota on one route cannot drain the counter of another
	assert.Equal(t, KeyByIP()(login), KeyByIP()(posts))
	assert.NotEqual(t, KeyByIPAndPath()(login), KeyByIPAndPath()(posts))
}

func TestKeyByUserID_AnonFallsBackToIP(t *testing.T) {
	c := newKeyCtx(t, "/api/posts")
	assert.Equal(t, "rl:user:anon:ip:203.0.113.7", KeyByUserID()(c))

	c.Set(CtxUserIDKey, "u-1")
	assert.Equal(t, "rl:user:u-1", KeyByUserID()(c))
}

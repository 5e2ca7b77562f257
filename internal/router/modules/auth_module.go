package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/feedline/backend/internal/container"
	handlers "github.com/feedline/backend/internal/interface/http"
	"github.com/feedline/backend/internal/interface/middleware"
	"github.com/feedline/backend/pkg/helpers"
)

// AuthModule wires the login endpoint and the current-user lookup.
// Public: POST /api/auth. Protected: GET /api/auth.
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// path-scoped key keeps the strict login quota off the shared per-IP counter
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	rg.POST("/auth", loginLimiter, m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.GET("/auth", m.Handler.CurrentUser)
	}
}

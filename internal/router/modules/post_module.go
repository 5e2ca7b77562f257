package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/feedline/backend/internal/container"
	handlers "github.com/feedline/backend/internal/interface/http"
	"github.com/feedline/backend/internal/interface/middleware"
	"github.com/feedline/backend/pkg/helpers"
)

// PostModule wires the engagement routes. Every route requires a credential;
// the auth middleware resolves it to a user id before any handler runs.
type PostModule struct {
	Handler *handlers.PostHandler
	JWT     *helpers.JWTManager
}

func NewPostModule(h *handlers.PostHandler, jwt *helpers.JWTManager) *PostModule {
	return &PostModule{Handler: h, JWT: jwt}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/posts", m.Handler.List)
		auth.POST("/posts", m.Handler.Create)
		auth.GET("/posts/search", m.Handler.Search)
		auth.GET("/posts/:id", m.Handler.Get)
		auth.DELETE("/posts/:id", m.Handler.Delete)
		auth.PUT("/posts/like/:id", m.Handler.Like)
		auth.PUT("/posts/unlike/:id", m.Handler.Unlike)
		auth.POST("/posts/comment/:id", m.Handler.Comment)
		auth.DELETE("/posts/comment/:id/:commentId", m.Handler.DeleteComment)
	}
}

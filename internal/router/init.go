package router

import (
	"github.com/feedline/backend/internal/application"
	"github.com/feedline/backend/internal/container"
	pginfra "github.com/feedline/backend/internal/infrastructure/postgres"
	handlers "github.com/feedline/backend/internal/interface/http"
	"github.com/feedline/backend/internal/router/modules"
)

// InitModules builds every application module from the container singletons
// and registers it with the router registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	postRepo := pginfra.NewPostRepository(container.GetPGPool())

	authSvc := application.NewAuthService(userRepo, container.GetJWT(), container.GetLogger())
	postSvc := application.NewPostService(
		postRepo,
		userRepo,
		container.GetRedis(),
		container.GetLogger(),
		container.GetES(),
		cfg.ESPostsIndex,
		container.GetRabbitPub(),
		cfg.FeedCacheTTL,
	)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, container.GetLogger()), container.GetJWT()))
	r.Add(modules.NewPostModule(handlers.NewPostHandler(postSvc, container.GetLogger()), container.GetJWT()))

	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}

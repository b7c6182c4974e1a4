package main

import (
	"github.com/akinalp/brickdepot/config"
	"github.com/akinalp/brickdepot/handlers"
	"github.com/akinalp/brickdepot/middleware"
	"github.com/akinalp/brickdepot/pkg/logger"
	"github.com/akinalp/brickdepot/session"
)

// Handlers holds every handler instance.
type Handlers struct {
	Pages   *handlers.PageHandler
	Catalog *handlers.CatalogHandler
	Auth    *handlers.AuthHandler
}

func initHandlers(
	svcs *Services,
	limiters *RateLimiters,
	sessions *session.Manager,
	metrics *middleware.Metrics,
	cfg *config.Config,
	log *logger.Logger,
) *Handlers {
	return &Handlers{
		Pages:   handlers.NewPageHandler(log),
		Catalog: handlers.NewCatalogHandler(svcs.Catalog, log),
		Auth: handlers.NewAuthHandler(
			svcs.Auth,
			svcs.Upload,
			sessions,
			limiters.Login,
			metrics,
			cfg.Upload.MaxSize,
			log,
		),
	}
}

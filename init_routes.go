package main

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/akinalp/brickdepot/config"
	"github.com/akinalp/brickdepot/handlers"
	"github.com/akinalp/brickdepot/middleware"
	"github.com/akinalp/brickdepot/pkg"
	"github.com/akinalp/brickdepot/pkg/logger"
	"github.com/akinalp/brickdepot/session"
	"github.com/akinalp/brickdepot/static"
)

const loginPath = "/login"

// initRoutes builds the router and middleware chain.
//
// HEAD is answered by the GET route. Every request passes request-id,
// logging, panic recovery, metrics and the session middleware, so handlers
// (including NotFound) always see a session.
func initRoutes(
	h *Handlers,
	sessions *session.Manager,
	metrics *middleware.Metrics,
	registry *prometheus.Registry,
	cfg *config.Config,
	log *logger.Logger,
) http.Handler {
	authMw := middleware.NewAuthMiddleware(loginPath)
	s := handlers.WithSession

	r := chi.NewRouter()
	r.Use(
		chimiddleware.RequestID,
		chimiddleware.GetHead,
		middleware.Logging(log),
		chimiddleware.Recoverer,
		metrics.Handler,
		sessions.Middleware,
	)

	// A known path requested with the wrong method is just as unmatched.
	r.NotFound(s(h.Pages.NotFound))
	r.MethodNotAllowed(s(h.Pages.NotFound))

	// ─── Infrastructure ───
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		pkg.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// ─── Static assets ───
	assets := http.FileServerFS(static.Public())
	r.Handle("/css/*", assets)
	r.Handle("/images/*", assets)
	r.Get("/uploads/{file}", uploadsHandler(cfg.Upload.Dir, s(h.Pages.NotFound)))

	// ─── Public pages ───
	r.Get("/", s(h.Pages.Home))
	r.Get("/about", s(h.Pages.About))
	r.Get("/lego/sets", s(h.Catalog.ListSets))
	r.Get("/lego/sets/{setNum}", s(h.Catalog.GetSet))

	r.Get(loginPath, s(h.Auth.LoginForm))
	r.Post(loginPath, s(h.Auth.Login))
	r.Get("/register", s(h.Auth.RegisterForm))
	r.Post("/register", s(h.Auth.Register))
	r.Get("/logout", s(h.Auth.Logout))

	// ─── Login required ───
	r.Group(func(r chi.Router) {
		r.Use(authMw.Require)

		r.Get("/lego/addSet", s(h.Catalog.AddSetForm))
		r.Post("/lego/addSet", s(h.Catalog.AddSet))
		r.Get("/lego/editSet/{num}", s(h.Catalog.EditSetForm))
		r.Post("/lego/editSet", s(h.Catalog.EditSet))
		r.Get("/lego/deleteSet/{num}", s(h.Catalog.DeleteSet))
		r.Get("/userHistory", s(h.Auth.UserHistory))
	})

	// Cross-origin access is opt-in; without configured origins no CORS
	// headers are sent.
	if len(cfg.Server.CORSOrigins) == 0 {
		return r
	}
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}).Handler(r)
}

// uploadsHandler serves flat file names from dir. Anything that could
// address a subdirectory or a dotfile falls through to notFound.
func uploadsHandler(dir string, notFound http.HandlerFunc) http.HandlerFunc {
	files := http.StripPrefix("/uploads/", http.FileServer(http.Dir(dir)))

	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "file")
		if name == "" || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
			notFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	}
}

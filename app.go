package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/akinalp/brickdepot/config"
	"github.com/akinalp/brickdepot/database"
	"github.com/akinalp/brickdepot/middleware"
	"github.com/akinalp/brickdepot/pkg/logger"
	"github.com/akinalp/brickdepot/session"
)

const shutdownTimeout = 5 * time.Second

// App is a fully initialized server that has not started listening yet.
type App struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *database.DB
	repos    *Repositories
	svcs     *Services
	limiters *RateLimiters
	handler  http.Handler
}

// initStep is one phase of startup.
type initStep func(ctx context.Context) error

// initialize runs steps in order and stops at the first failure.
func initialize(ctx context.Context, steps ...initStep) error {
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// newApp wires every layer and runs the catalog then auth initializers. The
// returned App only listens once Run is called.
func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	db, err := database.New(ctx, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	repos := initRepositories(db.Conn)
	svcs, limiters := initServices(db.Conn, repos, cfg, log)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(registry)
	sessions := session.NewManager(cfg.Session, log)

	h := initHandlers(svcs, limiters, sessions, metrics, cfg, log)

	app := &App{
		cfg:      cfg,
		log:      log,
		db:       db,
		repos:    repos,
		svcs:     svcs,
		limiters: limiters,
		handler:  initRoutes(h, sessions, metrics, registry, cfg, log),
	}

	if err := initialize(ctx, svcs.Catalog.Initialize, svcs.Auth.Initialize); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return app, nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run binds the configured address and serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Server.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.cfg.Server.Addr(), err)
	}
	return a.serve(ctx, ln)
}

func (a *App) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      a.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Infow("server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	a.log.Info("server stopped gracefully")
	return nil
}

// Close releases background goroutines and the database.
func (a *App) Close() error {
	a.limiters.Login.Close()
	a.svcs.Catalog.Close()
	return a.db.Close()
}

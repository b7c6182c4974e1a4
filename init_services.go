package main

import (
	"database/sql"
	"time"

	"github.com/akinalp/brickdepot/config"
	"github.com/akinalp/brickdepot/pkg/email"
	"github.com/akinalp/brickdepot/pkg/logger"
	"github.com/akinalp/brickdepot/pkg/ratelimit"
	"github.com/akinalp/brickdepot/services"
)

const (
	themeCacheTTL    = 10 * time.Minute
	loginMaxAttempts = 5
	loginWindow      = 2 * time.Minute
)

// Services holds every service instance.
type Services struct {
	Catalog services.CatalogService
	Auth    services.AuthService
	Upload  services.UploadService
}

// RateLimiters holds the rate limiters.
type RateLimiters struct {
	Login *ratelimit.LoginRateLimiter
}

// initServices builds the services and rate limiters. Welcome email is only
// wired when Resend is fully configured.
func initServices(db *sql.DB, repos *Repositories, cfg *config.Config, log *logger.Logger) (*Services, *RateLimiters) {
	var mailer email.Sender
	if cfg.Email.Enabled() {
		mailer = email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.FromEmail, cfg.Email.AppURL)
	} else {
		log.Info("RESEND_API_KEY not set, welcome email disabled")
	}

	svcs := &Services{
		Catalog: services.NewCatalogService(repos.Set, repos.Theme, themeCacheTTL, log),
		Auth:    services.NewAuthService(db, repos.User, mailer, log),
		Upload:  services.NewUploadService(cfg.Upload.Dir, cfg.Upload.MaxSize, log),
	}

	limiters := &RateLimiters{
		Login: ratelimit.NewLoginRateLimiter(loginMaxAttempts, loginWindow),
	}

	return svcs, limiters
}

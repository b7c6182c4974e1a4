package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/akinalp/brickdepot/database"
	"github.com/akinalp/brickdepot/models"
	"github.com/akinalp/brickdepot/pkg"
	"github.com/akinalp/brickdepot/pkg/email"
	"github.com/akinalp/brickdepot/pkg/logger"
	"github.com/akinalp/brickdepot/pkg/validate"
	"github.com/akinalp/brickdepot/repository"
)

// AuthService is the accounts module.
type AuthService interface {
	// Initialize must succeed before the server accepts requests.
	Initialize(ctx context.Context) error
	// Register creates an account. in.ProfileImage defaults to
	// models.DefaultProfileImage when empty.
	Register(ctx context.Context, in *models.RegisterInput) (*models.User, error)
	// CheckUser verifies credentials and records the login. The returned user
	// carries its most recent login history.
	CheckUser(ctx context.Context, in *models.LoginInput) (*models.User, error)
}

type authService struct {
	db         *sql.DB
	users      repository.UserRepository
	mailer     email.Sender // nil disables welcome email
	log        *logger.Logger
	bcryptCost int
	now        func() time.Time
}

// NewAuthService wires the accounts module. db is needed for the login
// transaction; mailer may be nil.
func NewAuthService(
	db *sql.DB,
	users repository.UserRepository,
	mailer email.Sender,
	log *logger.Logger,
) AuthService {
	return &authService{
		db:         db,
		users:      users,
		mailer:     mailer,
		log:        log.Named("auth"),
		bcryptCost: 12,
		now:        time.Now,
	}
}

func (s *authService) Initialize(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return pkg.Wrap(pkg.KindInternal, "Unable to connect to the user store", err)
	}
	s.log.Infow("auth initialized", "welcome_email", s.mailer != nil)
	return nil
}

func (s *authService) Register(ctx context.Context, in *models.RegisterInput) (*models.User, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "There was an error encrypting the password", err)
	}

	profileImage := in.ProfileImage
	if profileImage == "" {
		profileImage = models.DefaultProfileImage
	}

	user := &models.User{
		ID:           uuid.NewString(),
		UserName:     in.UserName,
		Email:        in.Email,
		PasswordHash: string(hash),
		ProfileImage: profileImage,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, pkg.ErrAlreadyExists) {
			return nil, pkg.Wrap(pkg.KindAlreadyExists, "User Name already taken", err)
		}
		return nil, pkg.Wrap(pkg.KindInternal, "There was an error creating the user", err)
	}
	s.log.Infow("user registered", "user_name", user.UserName)

	if s.mailer != nil {
		if err := s.mailer.SendWelcome(ctx, user.Email, user.UserName); err != nil {
			s.log.Warnw("welcome email failed", "user_name", user.UserName, "error", err)
		}
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *authService) CheckUser(ctx context.Context, in *models.LoginInput) (*models.User, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetByUserName(ctx, in.UserName)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, pkg.E(pkg.KindUnauthorized, fmt.Sprintf("Unable to find user: %s", in.UserName))
		}
		return nil, pkg.Wrap(pkg.KindInternal, "Unable to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, pkg.E(pkg.KindUnauthorized, fmt.Sprintf("Incorrect Password for user: %s", in.UserName))
	}

	entry := models.LoginEntry{DateTime: s.now().UTC(), UserAgent: in.UserAgent}
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		history := repository.NewSQLiteLoginHistoryRepo(tx)
		if err := history.Append(ctx, user.ID, entry); err != nil {
			return err
		}
		entries, err := history.ListByUser(ctx, user.ID, models.SessionHistoryLimit)
		if err != nil {
			return err
		}
		user.LoginHistory = entries
		return nil
	})
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "There was an error verifying the user", err)
	}

	user.PasswordHash = ""
	return user, nil
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/akinalp/brickdepot/models"
	"github.com/akinalp/brickdepot/pkg"
	"github.com/akinalp/brickdepot/pkg/logger"
	"github.com/akinalp/brickdepot/pkg/ratelimit"
	"github.com/akinalp/brickdepot/services"
	"github.com/akinalp/brickdepot/views"
)

const registeredMessage = "User created successfully!"

// multipartMemory is how much of a registration form is kept in memory
// before spilling to temp files.
const multipartMemory = 1 << 20

// LoginRecorder counts login attempts by outcome.
type LoginRecorder interface {
	RecordLogin(outcome string)
}

// AuthHandler serves registration, login, logout and the login history page.
type AuthHandler struct {
	renderer
	auth      services.AuthService
	uploads   services.UploadService
	sessions  SessionStore
	limiter   *ratelimit.LoginRateLimiter // nil disables rate limiting
	logins    LoginRecorder               // nil disables login metrics
	maxUpload int64
}

// NewAuthHandler, constructor. limiter and logins may be nil.
func NewAuthHandler(
	auth services.AuthService,
	uploads services.UploadService,
	sessions SessionStore,
	limiter *ratelimit.LoginRateLimiter,
	logins LoginRecorder,
	maxUpload int64,
	log *logger.Logger,
) *AuthHandler {
	return &AuthHandler{
		renderer:  renderer{log: log.Named("auth_handler")},
		auth:      auth,
		uploads:   uploads,
		sessions:  sessions,
		limiter:   limiter,
		logins:    logins,
		maxUpload: maxUpload,
	}
}

// LoginForm godoc
// GET /login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request, sess models.Session) {
	h.render(w, r, http.StatusOK, views.Login, views.PageData{Page: "/login", User: sess.User})
}

// Login godoc
// POST /login
//
// Failed credentials re-render the form with status 200. Too many attempts
// from one IP re-render it with 429 and Retry-After.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, sess models.Session) {
	userName := strings.TrimSpace(r.PostFormValue("userName"))

	ip := ratelimit.ExtractIP(r)
	if h.limiter != nil && !h.limiter.Allow(ip) {
		retryAfter := h.limiter.RetryAfterSeconds(ip)
		h.recordLogin("throttled")
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		err := pkg.E(pkg.KindTooManyRequests,
			fmt.Sprintf("Too many login attempts, please try again in %s", ratelimit.FormatRetryMessage(retryAfter)))
		h.renderLogin(w, r, sess, pkg.Status(err), userName, pkg.Message(err))
		return
	}

	user, err := h.auth.CheckUser(r.Context(), &models.LoginInput{
		UserName:  userName,
		Password:  r.PostFormValue("password"),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		h.logIfInternal(r, err)
		h.recordLogin("failure")
		h.renderLogin(w, r, sess, http.StatusOK, userName, pkg.Message(err))
		return
	}

	if h.limiter != nil {
		h.limiter.Reset(ip)
	}

	if _, err := h.sessions.Login(w, r, models.NewSessionUser(user)); err != nil {
		h.serverError(w, r, sess, err)
		return
	}
	h.recordLogin("success")
	http.Redirect(w, r, setsPath, http.StatusFound)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, sess models.Session, status int, userName, msg string) {
	h.render(w, r, status, views.Login, views.PageData{
		Page:         "/login",
		User:         sess.User,
		ErrorMessage: msg,
		UserName:     userName,
	})
}

func (h *AuthHandler) recordLogin(outcome string) {
	if h.logins != nil {
		h.logins.RecordLogin(outcome)
	}
}

// RegisterForm godoc
// GET /register
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request, sess models.Session) {
	h.render(w, r, http.StatusOK, views.Register, views.PageData{Page: "/register", User: sess.User})
}

// Register godoc
// POST /register
// Content-Type: multipart/form-data, optional file field "image"
//
// Every outcome renders the register view with status 200. Failures echo
// userName and email back into the form.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request, sess models.Session) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = pkg.Wrap(pkg.KindBadRequest, fmt.Sprintf("Image too large (max %d bytes)", h.maxUpload), err)
		} else {
			err = pkg.Wrap(pkg.KindBadRequest, "Unable to read form", err)
		}
		h.renderRegisterError(w, r, sess, "", "", err)
		return
	}

	in := &models.RegisterInput{
		UserName:  strings.TrimSpace(r.PostFormValue("userName")),
		Email:     strings.TrimSpace(r.PostFormValue("email")),
		Password:  r.PostFormValue("password"),
		Password2: r.PostFormValue("password2"),
	}

	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		path, err := h.uploads.SaveProfileImage(r.Context(), in.UserName, file, header)
		if err != nil {
			h.renderRegisterError(w, r, sess, in.UserName, in.Email, err)
			return
		}
		in.ProfileImage = path
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		h.renderRegisterError(w, r, sess, in.UserName, in.Email, pkg.Wrap(pkg.KindBadRequest, "Unable to read image", err))
		return
	}

	if _, err := h.auth.Register(r.Context(), in); err != nil {
		h.renderRegisterError(w, r, sess, in.UserName, in.Email, err)
		return
	}

	h.render(w, r, http.StatusOK, views.Register, views.PageData{
		Page:           "/register",
		User:           sess.User,
		SuccessMessage: registeredMessage,
	})
}

func (h *AuthHandler) renderRegisterError(w http.ResponseWriter, r *http.Request, sess models.Session, userName, email string, err error) {
	h.logIfInternal(r, err)
	h.render(w, r, http.StatusOK, views.Register, views.PageData{
		Page:         "/register",
		User:         sess.User,
		ErrorMessage: pkg.Message(err),
		UserName:     userName,
		Email:        email,
	})
}

// Logout godoc
// GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request, _ models.Session) {
	if err := h.sessions.Reset(w, r); err != nil {
		h.log.Warnw("failed to reset session", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// UserHistory godoc
// GET /userHistory
func (h *AuthHandler) UserHistory(w http.ResponseWriter, r *http.Request, sess models.Session) {
	h.render(w, r, http.StatusOK, views.UserHistory, views.PageData{Page: "/userHistory", User: sess.User})
}

// Package handlers turns HTTP requests into service calls and renders the
// result. Handlers stay thin: parse the form, call one service, render a
// view or redirect.
package handlers

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/akinalp/brickdepot/models"
	"github.com/akinalp/brickdepot/pkg"
	"github.com/akinalp/brickdepot/pkg/logger"
	"github.com/akinalp/brickdepot/session"
	"github.com/akinalp/brickdepot/views"
)

// NotFoundMessage is shown for unmatched routes.
const NotFoundMessage = "I'm sorry we're unable to find what you're looking for"

const serverErrorPrefix = "I'm sorry, but we have encountered the following error: "

// SessionHandlerFunc is a handler that receives the request's session.
type SessionHandlerFunc func(w http.ResponseWriter, r *http.Request, sess models.Session)

// WithSession adapts h to http.HandlerFunc, reading the session attached by
// session.Manager.Middleware.
func WithSession(h SessionHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h(w, r, session.FromContext(r.Context()))
	}
}

// SessionStore writes the session cookie.
type SessionStore interface {
	Login(w http.ResponseWriter, r *http.Request, user models.SessionUser) (models.Session, error)
	Reset(w http.ResponseWriter, r *http.Request) error
}

// renderer renders views and logs the failures behind error pages.
type renderer struct {
	log *logger.Logger
}

func (rd renderer) render(w http.ResponseWriter, r *http.Request, status int, view string, data views.PageData) {
	templ.Handler(views.Page(view, data), templ.WithStatus(status)).ServeHTTP(w, r)
}

// notFound renders the 404 view with err's message.
func (rd renderer) notFound(w http.ResponseWriter, r *http.Request, sess models.Session, err error) {
	rd.logIfInternal(r, err)
	rd.render(w, r, http.StatusNotFound, views.NotFound, views.PageData{
		User:    sess.User,
		Message: pkg.Message(err),
	})
}

// serverError renders the 500 view with err's message.
func (rd renderer) serverError(w http.ResponseWriter, r *http.Request, sess models.Session, err error) {
	rd.logIfInternal(r, err)
	rd.render(w, r, http.StatusInternalServerError, views.ServerError, views.PageData{
		User:    sess.User,
		Message: serverErrorPrefix + pkg.Message(err),
	})
}

// writeRawListFailure answers an unfiltered listing failure with a bare
// text/plain 500 and no view.
func (rd renderer) writeRawListFailure(w http.ResponseWriter, r *http.Request, err error) {
	rd.logIfInternal(r, err)
	pkg.PlainError(w, http.StatusInternalServerError, err)
}

func (rd renderer) logIfInternal(r *http.Request, err error) {
	if pkg.KindOf(err) == pkg.KindInternal {
		rd.log.Errorw("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
}

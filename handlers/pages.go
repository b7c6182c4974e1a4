package handlers

import (
	"net/http"

	"github.com/akinalp/brickdepot/models"
	"github.com/akinalp/brickdepot/pkg"
	"github.com/akinalp/brickdepot/pkg/logger"
	"github.com/akinalp/brickdepot/views"
)

// PageHandler serves the static pages and the not-found fallback.
type PageHandler struct {
	renderer
}

// NewPageHandler returns a PageHandler.
func NewPageHandler(log *logger.Logger) *PageHandler {
	return &PageHandler{renderer{log: log.Named("pages")}}
}

// Home handles GET /.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request, sess models.Session) {
	h.render(w, r, http.StatusOK, views.Home, views.PageData{Page: "/", User: sess.User})
}

// About handles GET /about.
func (h *PageHandler) About(w http.ResponseWriter, r *http.Request, sess models.Session) {
	h.render(w, r, http.StatusOK, views.About, views.PageData{Page: "/about", User: sess.User})
}

// NotFound handles every unmatched request.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request, sess models.Session) {
	h.notFound(w, r, sess, pkg.E(pkg.KindNotFound, NotFoundMessage))
}

package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/akinalp/brickdepot/models"
	"github.com/akinalp/brickdepot/pkg"
	"github.com/akinalp/brickdepot/pkg/logger"
	"github.com/akinalp/brickdepot/services"
	"github.com/akinalp/brickdepot/views"
)

const setsPath = "/lego/sets"

// CatalogHandler serves the set pages.
type CatalogHandler struct {
	renderer
	catalog services.CatalogService
}

// NewCatalogHandler, constructor.
func NewCatalogHandler(catalog services.CatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		renderer: renderer{log: log.Named("catalog_handler")},
		catalog:  catalog,
	}
}

// ListSets godoc
// GET /lego/sets[?theme=]
//
// A theme filter that matches nothing renders the 404 view. An unfiltered
// listing failure is answered with a bare 500 and no view.
func (h *CatalogHandler) ListSets(w http.ResponseWriter, r *http.Request, sess models.Session) {
	theme := r.URL.Query().Get("theme")

	if theme == "" {
		sets, err := h.catalog.List(r.Context())
		if err != nil {
			h.writeRawListFailure(w, r, err)
			return
		}
		h.renderSets(w, r, sess, sets)
		return
	}

	sets, err := h.catalog.ListByTheme(r.Context(), theme)
	if err != nil {
		h.notFound(w, r, sess, err)
		return
	}
	h.renderSets(w, r, sess, sets)
}

func (h *CatalogHandler) renderSets(w http.ResponseWriter, r *http.Request, sess models.Session, sets []models.Set) {
	h.render(w, r, http.StatusOK, views.Sets, views.PageData{
		Page: setsPath,
		User: sess.User,
		Sets: sets,
	})
}

// GetSet godoc
// GET /lego/sets/{setNum}
func (h *CatalogHandler) GetSet(w http.ResponseWriter, r *http.Request, sess models.Session) {
	set, err := h.catalog.Get(r.Context(), chi.URLParam(r, "setNum"))
	if err != nil {
		h.notFound(w, r, sess, err)
		return
	}
	h.render(w, r, http.StatusOK, views.Set, views.PageData{
		Page: setsPath,
		User: sess.User,
		Set:  set,
	})
}

// AddSetForm godoc
// GET /lego/addSet
func (h *CatalogHandler) AddSetForm(w http.ResponseWriter, r *http.Request, sess models.Session) {
	themes, err := h.catalog.Themes(r.Context())
	if err != nil {
		h.serverError(w, r, sess, err)
		return
	}
	h.render(w, r, http.StatusOK, views.AddSet, views.PageData{
		Page:   "/lego/addSet",
		User:   sess.User,
		Themes: themes,
	})
}

// AddSet godoc
// POST /lego/addSet
func (h *CatalogHandler) AddSet(w http.ResponseWriter, r *http.Request, sess models.Session) {
	in, err := parseSetForm(r)
	if err == nil {
		err = h.catalog.Create(r.Context(), in)
	}
	if err != nil {
		h.serverError(w, r, sess, err)
		return
	}
	http.Redirect(w, r, setsPath, http.StatusFound)
}

// EditSetForm godoc
// GET /lego/editSet/{num}
//
// Themes and the set are loaded concurrently; either failing renders 404.
func (h *CatalogHandler) EditSetForm(w http.ResponseWriter, r *http.Request, sess models.Session) {
	var (
		themes []models.Theme
		set    *models.Set
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		themes, err = h.catalog.Themes(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		set, err = h.catalog.Get(ctx, chi.URLParam(r, "num"))
		return err
	})
	if err := g.Wait(); err != nil {
		h.notFound(w, r, sess, err)
		return
	}

	h.render(w, r, http.StatusOK, views.EditSet, views.PageData{
		Page:   setsPath,
		User:   sess.User,
		Set:    set,
		Themes: themes,
	})
}

// EditSet godoc
// POST /lego/editSet
func (h *CatalogHandler) EditSet(w http.ResponseWriter, r *http.Request, sess models.Session) {
	in, err := parseSetForm(r)
	if err == nil {
		err = h.catalog.Update(r.Context(), in)
	}
	if err != nil {
		h.serverError(w, r, sess, err)
		return
	}
	http.Redirect(w, r, setsPath, http.StatusFound)
}

// DeleteSet godoc
// GET /lego/deleteSet/{num}
func (h *CatalogHandler) DeleteSet(w http.ResponseWriter, r *http.Request, sess models.Session) {
	if err := h.catalog.Delete(r.Context(), chi.URLParam(r, "num")); err != nil {
		h.serverError(w, r, sess, err)
		return
	}
	http.Redirect(w, r, setsPath, http.StatusFound)
}

// parseSetForm reads the add/edit form. Empty numeric fields read as zero;
// validation happens in the service.
func parseSetForm(r *http.Request) (*models.SetInput, error) {
	if err := r.ParseForm(); err != nil {
		return nil, pkg.Wrap(pkg.KindBadRequest, "Unable to read form", err)
	}

	year, err := atoi(r.PostForm, "year")
	if err != nil {
		return nil, err
	}
	parts, err := atoi(r.PostForm, "num_parts")
	if err != nil {
		return nil, err
	}
	themeID, err := atoi(r.PostForm, "theme_id")
	if err != nil {
		return nil, err
	}

	return &models.SetInput{
		SetNum:   strings.TrimSpace(r.PostForm.Get("set_num")),
		Name:     strings.TrimSpace(r.PostForm.Get("name")),
		Year:     year,
		NumParts: parts,
		ThemeID:  themeID,
		ImgURL:   strings.TrimSpace(r.PostForm.Get("img_url")),
	}, nil
}

func atoi(form url.Values, field string) (int, error) {
	raw := strings.TrimSpace(form.Get(field))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkg.Wrap(pkg.KindBadRequest, fmt.Sprintf("%s must be a number", field), err)
	}
	return n, nil
}

// Package services holds the business rules. Services know nothing about
// HTTP; they take domain inputs and return domain values or *pkg.Error.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akinalp/brickdepot/models"
	"github.com/akinalp/brickdepot/pkg"
	"github.com/akinalp/brickdepot/pkg/cache"
	"github.com/akinalp/brickdepot/pkg/logger"
	"github.com/akinalp/brickdepot/pkg/validate"
	"github.com/akinalp/brickdepot/repository"
)

// User-facing catalog messages.
const (
	msgSetsNotFound = "Unable to find requested sets"
	msgSetNotFound  = "Unable to find requested set"
)

// CatalogService is the catalog data access module.
type CatalogService interface {
	// Initialize must succeed before the server accepts requests.
	Initialize(ctx context.Context) error
	List(ctx context.Context) ([]models.Set, error)
	// ListByTheme fails with KindNotFound when nothing matches.
	ListByTheme(ctx context.Context, theme string) ([]models.Set, error)
	Get(ctx context.Context, setNum string) (*models.Set, error)
	Create(ctx context.Context, in *models.SetInput) error
	Update(ctx context.Context, in *models.SetInput) error
	Delete(ctx context.Context, setNum string) error
	Themes(ctx context.Context) ([]models.Theme, error)
	// Close stops the theme cache.
	Close()
}

const themesCacheKey = "all"

type catalogService struct {
	sets   repository.SetRepository
	themes repository.ThemeRepository
	cache  *cache.TTLCache[string, []models.Theme]
	log    *logger.Logger
}

// NewCatalogService wires the catalog. Themes are cached for themeTTL.
func NewCatalogService(
	sets repository.SetRepository,
	themes repository.ThemeRepository,
	themeTTL time.Duration,
	log *logger.Logger,
) CatalogService {
	return &catalogService{
		sets:   sets,
		themes: themes,
		cache:  cache.New[string, []models.Theme](themeTTL, themeTTL),
		log:    log.Named("catalog"),
	}
}

// Initialize warms the theme cache, which also proves the store is reachable.
func (s *catalogService) Initialize(ctx context.Context) error {
	themes, err := s.loadThemes(ctx)
	if err != nil {
		return err
	}
	s.log.Infow("catalog initialized", "themes", len(themes))
	return nil
}

func (s *catalogService) List(ctx context.Context) ([]models.Set, error) {
	sets, err := s.sets.List(ctx)
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "Unable to list sets", err)
	}
	return sets, nil
}

func (s *catalogService) ListByTheme(ctx context.Context, theme string) ([]models.Set, error) {
	sets, err := s.sets.ListByTheme(ctx, theme)
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, msgSetsNotFound, err)
	}
	if len(sets) == 0 {
		return nil, pkg.E(pkg.KindNotFound, msgSetsNotFound)
	}
	return sets, nil
}

func (s *catalogService) Get(ctx context.Context, setNum string) (*models.Set, error) {
	set, err := s.sets.GetByNum(ctx, setNum)
	if err != nil {
		return nil, s.mapSetError(err)
	}
	return set, nil
}

func (s *catalogService) Create(ctx context.Context, in *models.SetInput) error {
	if err := validate.Struct(in); err != nil {
		return err
	}
	if err := s.sets.Create(ctx, in); err != nil {
		if errors.Is(err, pkg.ErrAlreadyExists) {
			return pkg.Wrap(pkg.KindAlreadyExists, fmt.Sprintf("Set %s already exists", in.SetNum), err)
		}
		return s.mapSetWriteError(in, err)
	}
	s.log.Infow("set created", "set_num", in.SetNum)
	return nil
}

func (s *catalogService) Update(ctx context.Context, in *models.SetInput) error {
	if err := validate.Struct(in); err != nil {
		return err
	}
	if err := s.sets.Update(ctx, in); err != nil {
		return s.mapSetWriteError(in, err)
	}
	s.log.Infow("set updated", "set_num", in.SetNum)
	return nil
}

func (s *catalogService) Delete(ctx context.Context, setNum string) error {
	if err := s.sets.Delete(ctx, setNum); err != nil {
		return s.mapSetError(err)
	}
	s.log.Infow("set deleted", "set_num", setNum)
	return nil
}

func (s *catalogService) Themes(ctx context.Context) ([]models.Theme, error) {
	if themes, ok := s.cache.Get(themesCacheKey); ok {
		return themes, nil
	}
	return s.loadThemes(ctx)
}

func (s *catalogService) Close() {
	s.cache.Close()
}

func (s *catalogService) loadThemes(ctx context.Context) ([]models.Theme, error) {
	themes, err := s.themes.List(ctx)
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "Unable to load themes", err)
	}
	s.cache.Set(themesCacheKey, themes)
	return themes, nil
}

func (s *catalogService) mapSetError(err error) error {
	if errors.Is(err, pkg.ErrNotFound) {
		return pkg.Wrap(pkg.KindNotFound, msgSetNotFound, err)
	}
	return pkg.Wrap(pkg.KindInternal, msgSetNotFound, err)
}

func (s *catalogService) mapSetWriteError(in *models.SetInput, err error) error {
	switch {
	case errors.Is(err, pkg.ErrNotFound):
		return pkg.Wrap(pkg.KindNotFound, msgSetNotFound, err)
	case errors.Is(err, pkg.ErrBadRequest):
		return pkg.Wrap(pkg.KindBadRequest, fmt.Sprintf("Unknown theme: %d", in.ThemeID), err)
	default:
		return pkg.Wrap(pkg.KindInternal, "Unable to save set", err)
	}
}

package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/akinalp/brickdepot/database"
	"github.com/akinalp/brickdepot/models"
	"github.com/akinalp/brickdepot/pkg"
	"github.com/akinalp/brickdepot/pkg/logger"
	"github.com/akinalp/brickdepot/repository"
)

// FlexInt decodes a JSON number or a numeric string. Empty strings and null
// decode to 0.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid integer %q", s)
		}
		*f = FlexInt(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexInt(n)
	return nil
}

// SeedTheme is one record of themeData.json.
type SeedTheme struct {
	ID   FlexInt `json:"id"`
	Name string  `json:"name"`
}

// SeedSet is one record of setData.json.
type SeedSet struct {
	SetNum   string  `json:"set_num"`
	Name     string  `json:"name"`
	Year     FlexInt `json:"year"`
	ThemeID  FlexInt `json:"theme_id"`
	NumParts FlexInt `json:"num_parts"`
	ImgURL   string  `json:"img_url"`
}

// SeedResult counts imported records.
type SeedResult struct {
	Themes int
	Sets   int
}

// SeedService bulk-loads the catalog.
type SeedService interface {
	// Import upserts all themes then all sets in one transaction.
	Import(ctx context.Context, themes, sets io.Reader) (SeedResult, error)
}

type seedService struct {
	db  *sql.DB
	log *logger.Logger
}

// NewSeedService returns a SeedService writing through db.
func NewSeedService(db *sql.DB, log *logger.Logger) SeedService {
	return &seedService{db: db, log: log.Named("seed")}
}

func (s *seedService) Import(ctx context.Context, themesJSON, setsJSON io.Reader) (SeedResult, error) {
	var themes []SeedTheme
	if err := json.NewDecoder(themesJSON).Decode(&themes); err != nil {
		return SeedResult{}, pkg.Wrap(pkg.KindBadRequest, "Invalid theme data", err)
	}
	var sets []SeedSet
	if err := json.NewDecoder(setsJSON).Decode(&sets); err != nil {
		return SeedResult{}, pkg.Wrap(pkg.KindBadRequest, "Invalid set data", err)
	}

	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		themeRepo := repository.NewSQLiteThemeRepo(tx)
		setRepo := repository.NewSQLiteSetRepo(tx)

		for _, t := range themes {
			if err := themeRepo.Upsert(ctx, models.Theme{ID: int(t.ID), Name: t.Name}); err != nil {
				return fmt.Errorf("theme %d: %w", t.ID, err)
			}
		}
		for _, st := range sets {
			in := &models.SetInput{
				SetNum:   st.SetNum,
				Name:     st.Name,
				Year:     int(st.Year),
				NumParts: int(st.NumParts),
				ThemeID:  int(st.ThemeID),
				ImgURL:   st.ImgURL,
			}
			if err := setRepo.Upsert(ctx, in); err != nil {
				return fmt.Errorf("set %s: %w", st.SetNum, err)
			}
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, pkg.Wrap(pkg.KindInternal, "Unable to import catalog", err)
	}

	res := SeedResult{Themes: len(themes), Sets: len(sets)}
	s.log.Infow("catalog imported", "themes", res.Themes, "sets", res.Sets)
	return res, nil
}

package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/brickdepot/pkg/logger"
	"github.com/akinalp/brickdepot/repository"
)

func TestFlexInt(t *testing.T) {
	var v struct {
		A FlexInt `json:"a"`
		B FlexInt `json:"b"`
		C FlexInt `json:"c"`
		D FlexInt `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 12, "b": "34", "c": "", "d": null}`), &v))
	assert.Equal(t, FlexInt(12), v.A)
	assert.Equal(t, FlexInt(34), v.B)
	assert.Equal(t, FlexInt(0), v.C)
	assert.Equal(t, FlexInt(0), v.D)

	assert.Error(t, json.Unmarshal([]byte(`{"a": "twelve"}`), &v))
}

func TestSeedImport(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewSeedService(db.Conn, logger.Nop())

	themes := `[{"id": "1", "name": "Technic"}, {"id": 2, "name": "Town"}]`
	sets := `[
		{"set_num": "001-1", "name": "Gears", "year": "1965", "theme_id": "1", "num_parts": "43", "img_url": "https://example.com/001-1.jpg"},
		{"set_num": "6399-1", "name": "Airport Shuttle", "year": 1990, "theme_id": 2, "num_parts": 786, "img_url": ""}
	]`

	res, err := svc.Import(ctx, strings.NewReader(themes), strings.NewReader(sets))
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Themes: 2, Sets: 2}, res)

	catalog := NewCatalogService(repository.NewSQLiteSetRepo(db.Conn), repository.NewSQLiteThemeRepo(db.Conn), time.Minute, logger.Nop())
	got, err := catalog.Get(ctx, "001-1")
	require.NoError(t, err)
	assert.Equal(t, 1965, got.Year)
	assert.Equal(t, "Technic", got.Theme)

	// Re-importing is idempotent.
	_, err = svc.Import(ctx, strings.NewReader(themes), strings.NewReader(sets))
	require.NoError(t, err)
}

func TestSeedImport_RollsBack(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewSeedService(db.Conn, logger.Nop())

	themes := `[{"id": 1, "name": "Technic"}]`
	sets := `[{"set_num": "1-1", "name": "ok", "theme_id": 1}, {"set_num": "2-1", "name": "orphan", "theme_id": 9}]`

	_, err := svc.Import(ctx, strings.NewReader(themes), strings.NewReader(sets))
	require.Error(t, err)

	all, err := repository.NewSQLiteThemeRepo(db.Conn).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = svc.Import(ctx, strings.NewReader(`not json`), strings.NewReader(`[]`))
	assert.Error(t, err)
}

package views

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/brickdepot/models"
)

func render(t *testing.T, name string, data PageData) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Page(name, data).Render(context.Background(), &buf))
	return buf.String()
}

func TestPage_AllViewsRender(t *testing.T) {
	user := &models.SessionUser{
		UserName:     "alice",
		Email:        "alice@example.com",
		ProfileImage: models.DefaultProfileImage,
		LoginHistory: []models.LoginEntry{{DateTime: time.Now(), UserAgent: "Firefox"}},
	}
	set := &models.Set{SetNum: "1-1", Name: "Crane", Year: 1990, ThemeID: 1, Theme: "Technic"}
	data := PageData{
		User:    user,
		Sets:    []models.Set{*set},
		Set:     set,
		Themes:  []models.Theme{{ID: 1, Name: "Technic"}},
		Message: "hello",
	}

	for name := range pages {
		t.Run(name, func(t *testing.T) {
			out := render(t, name, data)
			assert.Contains(t, out, `data-view="`+name+`"`)
		})
	}
}

func TestPage_EscapesAndShowsUser(t *testing.T) {
	out := render(t, NotFound, PageData{Message: "<script>x</script>"})
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, `href="/login"`)

	out = render(t, Sets, PageData{User: &models.SessionUser{UserName: "bob", ProfileImage: "/uploads/profile-bob.png"}})
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, "/uploads/profile-bob.png")
	assert.Contains(t, out, `href="/logout"`)
}

func TestPage_EditSelectsTheme(t *testing.T) {
	out := render(t, EditSet, PageData{
		Set:    &models.Set{SetNum: "1-1", Name: "Crane", ThemeID: 2},
		Themes: []models.Theme{{ID: 1, Name: "Technic"}, {ID: 2, Name: "Town"}},
	})
	assert.Contains(t, out, `<option value="2" selected>Town</option>`)
}

func TestPage_Unknown(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Page("nope", PageData{}).Render(context.Background(), &buf))
}

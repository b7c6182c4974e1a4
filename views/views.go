// Package views renders the server-side pages.
//
// Pages are html/template files embedded in the binary, each defining a
// "content" block rendered inside layout.html. Page adapts them to
// templ.Component so handlers serve them through templ.Handler.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/akinalp/brickdepot/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// View names.
const (
	Home        = "home"
	About       = "about"
	Sets        = "sets"
	Set         = "set"
	AddSet      = "addSet"
	EditSet     = "editSet"
	Login       = "login"
	Register    = "register"
	UserHistory = "userHistory"
	NotFound    = "404"
	ServerError = "500"
)

// PageData is everything a page may show. Page fills View.
type PageData struct {
	View           string
	Page           string // current path, highlights the nav entry
	User           *models.SessionUser
	Message        string
	ErrorMessage   string
	SuccessMessage string
	UserName       string
	Email          string
	Sets           []models.Set
	Set            *models.Set
	Themes         []models.Theme
}

var funcs = template.FuncMap{
	"formatTime": func(t time.Time) string {
		return t.Local().Format("Mon Jan 2 2006 15:04:05")
	},
}

var pages = mustParse(Home, About, Sets, Set, AddSet, EditSet, Login, Register, UserHistory, NotFound, ServerError)

func mustParse(names ...string) map[string]*template.Template {
	layout := template.Must(template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html"))

	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		t := template.Must(layout.Clone())
		out[name] = template.Must(t.ParseFS(templateFS, "templates/"+name+".html"))
	}
	return out
}

// Page returns the named view as a component. Unknown names fail at render.
func Page(name string, data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t, ok := pages[name]
		if !ok {
			return fmt.Errorf("unknown view %q", name)
		}
		data.View = name
		return t.ExecuteTemplate(w, "layout", data)
	})
}

// Package view owns the embedded HTML templates and the data every page sees.
package view

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/blogicum/blogicum/internal/models"
	"github.com/blogicum/blogicum/internal/modules/processing/markdown"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// UserKey is the gin context key holding the signed-in *models.UserModel.
const UserKey = "view.user"

// DateTimeLocal is the layout of <input type="datetime-local"> values.
const DateTimeLocal = "2006-01-02T15:04"

// Options configures template loading.
type Options struct {
	Location *time.Location
	Funcs    template.FuncMap
}

// Load parses the embedded templates. Funcs override the defaults by name.
func Load(opts Options) (*template.Template, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	funcs := template.FuncMap{
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.In(loc).Format("02 Jan 2006, 15:04")
		},
		"inputDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.In(loc).Format(DateTimeLocal)
		},
		"markdown": markdown.Render,
		"excerpt":  markdown.Excerpt,
		"mediaURL": func(key string) string { return "/media/" + strings.TrimLeft(key, "/") },
		"isOwner": func(u *models.UserModel, authorID string) bool {
			return u != nil && u.ID == authorID
		},
	}
	for name, fn := range opts.Funcs {
		funcs[name] = fn
	}

	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// ProfilePath is the URL of a user's profile page.
func ProfilePath(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

// CurrentUser returns the signed-in user or nil.
func CurrentUser(c *gin.Context) *models.UserModel {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.UserModel)
	return u
}

// H decorates page data with the values the layout relies on.
func H(c *gin.Context, data gin.H) gin.H {
	out := gin.H{
		"User":   CurrentUser(c),
		"Path":   c.Request.URL.Path,
		"Year":   time.Now().Year(),
		"Errors": map[string]string{},
		"Form":   gin.H{},
	}
	for k, v := range data {
		if v == nil && (k == "Errors" || k == "Form") {
			continue
		}
		out[k] = v
	}
	return out
}

// Render writes the named template with status.
func Render(c *gin.Context, status int, name string, data gin.H) {
	c.HTML(status, name, H(c, data))
}

// OK renders the named template with status 200.
func OK(c *gin.Context, name string, data gin.H) {
	Render(c, http.StatusOK, name, data)
}

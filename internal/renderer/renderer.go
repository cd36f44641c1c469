package renderer

import (
	"encoding/json"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/damacus/s3-jukebox/internal/library"
	"github.com/damacus/s3-jukebox/internal/models"
	"github.com/damacus/s3-jukebox/internal/utils"
	"github.com/damacus/s3-jukebox/views"
	"github.com/labstack/echo/v4"
)

// TemplateRenderer implements echo.Renderer
type TemplateRenderer struct {
	Templates map[string]*template.Template
}

// New creates a new TemplateRenderer with the embedded templates
func New() *TemplateRenderer {
	r, err := NewFromFS(views.FS)
	if err != nil {
		panic(err)
	}
	return r
}

// NewFromFS parses the layout, page and partial templates from fsys
func NewFromFS(fsys fs.FS) (*TemplateRenderer, error) {
	r := &TemplateRenderer{
		Templates: make(map[string]*template.Template),
	}
	if err := r.parseTemplates(fsys); err != nil {
		return nil, err
	}
	return r, nil
}

func (t *TemplateRenderer) parseTemplates(fsys fs.FS) error {
	parse := func(name string, files ...string) error {
		tmpl, err := template.New(name).Funcs(Funcs()).ParseFS(fsys, files...)
		if err != nil {
			return err
		}
		t.Templates[name] = tmpl
		return nil
	}

	partials := []string{"partials/tracks.html", "partials/player.html"}

	// Page with layout
	if err := parse("library", append([]string{"layouts/base.html", "pages/library.html"}, partials...)...); err != nil {
		return err
	}
	// Partials
	for _, name := range []string{"tracks", "player", "speed_control", "player_select"} {
		if err := parse(name, partials...); err != nil {
			return err
		}
	}
	return nil
}

// selfExecutingTemplates lists templates that execute their own named block instead of "base"
var selfExecutingTemplates = map[string]bool{
	"tracks":        true,
	"player":        true,
	"speed_control": true,
	"player_select": true,
}

// Funcs returns the helpers available to every template
func Funcs() template.FuncMap {
	return template.FuncMap{
		"formatSize": utils.FormatFileSize,
		"formatDate": utils.FormatDate,
		"formatAge": func(t time.Time) string {
			return utils.FormatAge(t, time.Now())
		},
		"formatSpeed": func(speed float64) string {
			return strconv.FormatFloat(speed, 'f', -1, 64) + "x"
		},
		"sortIndicator": sortIndicator,
		"isSelected": func(selected *models.Track, key string) bool {
			return selected != nil && selected.Key == key
		},
		"keyVals": keyVals,
	}
}

func sortIndicator(column string, field library.SortField, dir library.SortDirection) string {
	if string(field) != column {
		return ""
	}
	if dir == library.Descending {
		return "▼"
	}
	return "▲"
}

// keyVals encodes an hx-vals payload carrying an object key
func keyVals(key string) (string, error) {
	b, err := json.Marshal(map[string]string{"key": key})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Render renders a template document
func (t *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tmpl, ok := t.Templates[name]
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "Template not found: "+name)
	}

	// Templates that define their own named block execute that block directly
	if selfExecutingTemplates[name] {
		return tmpl.ExecuteTemplate(w, name, data)
	}
	// All other templates (pages with layout) execute the "base" block
	return tmpl.ExecuteTemplate(w, "base", data)
}

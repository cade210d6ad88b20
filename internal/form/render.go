package form

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
)

//go:embed templates/*.html
var templateFS embed.FS

// AppLink is one entry of the index page.
type AppLink struct {
	Title    string
	Subtitle string
	Path     string
}

// Page is the data of one rendered page. View is nil on the index.
type Page struct {
	Title string
	Apps  []AppLink
	Path  string
	View  *View
}

var funcs = template.FuncMap{
	"sliderValue": func(s *Slider, v Values) string {
		return s.Format(v.Number(s.Name))
	},
	"step": func(s *Slider) string {
		return strconv.FormatFloat(s.Range.Step, 'f', -1, 64)
	},
	"bound": func(f float64) string {
		return strconv.FormatFloat(f, 'f', -1, 64)
	},
	"percent": func(p float64) string {
		return fmt.Sprintf("%.2f%%", p*100)
	},
	"prob": func(p float64) string {
		return strconv.FormatFloat(p, 'f', 4, 64)
	},
}

var pages = map[string]*template.Template{
	"index": template.Must(template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/index.html")),
	"app":   template.Must(template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/app.html")),
}

// RenderIndex writes the page linking every enabled app.
func RenderIndex(w io.Writer, p Page) error {
	return pages["index"].Execute(w, p)
}

// Render writes the page of one app.
func Render(w io.Writer, p Page) error {
	if p.View == nil {
		return fmt.Errorf("page %q has no view", p.Title)
	}
	return pages["app"].Execute(w, p)
}

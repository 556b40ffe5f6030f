package tmpl

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/LianHaeming/llmguide/models"
)

//go:embed templates
var files embed.FS

// Templates holds all page templates, keyed by page name.
type Templates struct {
	pages map[string]*template.Template
}

// ExecuteTemplate renders a page template by name through the layout.
func (t *Templates) ExecuteTemplate(w io.Writer, name string, data any) error {
	tmpl, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// Names lists the loaded page templates.
func (t *Templates) Names() []string {
	names := make([]string, 0, len(t.pages))
	for n := range t.pages {
		names = append(names, n)
	}
	return names
}

// Load parses all templates. Each page template gets its own clone of the
// shared templates (layout + partials) so {{define "content"}} doesn't collide.
func Load(assetVer string) *Templates {
	funcMap := template.FuncMap{
		// Cache-busting version string for static assets
		"assetVer": func() string { return assetVer },

		"money": func(f float64) string { return fmt.Sprintf("$%.2f", f) },
		"rate":  func(f float64) string { return fmt.Sprintf("$%.4f", f) },
		"temp":  func(f float64) string { return fmt.Sprintf("%.1f", f) },
		"seq": func(lo, hi int) []int {
			var s []int
			for i := lo; i <= hi; i++ {
				s = append(s, i)
			}
			return s
		},
		"stars": stars,

		"join": strings.Join,
	}

	// Parse shared templates (layout + partials) as the base.
	base := template.Must(
		template.New("base").Funcs(funcMap).ParseFS(files, "templates/layout.html"),
	)
	template.Must(base.ParseFS(files, "templates/partials/*.html"))

	// For each page template, clone the base and parse the page file on top.
	pages := map[string]*template.Template{}
	pageFiles, err := fs.Glob(files, "templates/*.html")
	if err != nil {
		panic("failed to glob page templates: " + err.Error())
	}

	for _, f := range pageFiles {
		name := path.Base(f)
		if name == "layout.html" {
			continue
		}
		clone, err := base.Clone()
		if err != nil {
			panic("failed to clone base template: " + err.Error())
		}
		template.Must(clone.ParseFS(files, f))
		pages[name] = clone
	}

	return &Templates{pages: pages}
}

// stars draws a rating as filled stars, clamped to the rating scale.
func stars(n int) string {
	return strings.Repeat("★", min(max(n, 0), models.MaxRating))
}

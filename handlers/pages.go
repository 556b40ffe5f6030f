package handlers

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"github.com/LianHaeming/llmguide/render"
	"github.com/LianHaeming/llmguide/session"
)

// NavItem is one entry of the site navigation.
type NavItem struct {
	Title  string
	Href   string
	Active bool
}

// Layout is the data every page shares with the layout template.
type Layout struct {
	Title    string
	Nav      []NavItem
	Flashes  []session.Flash
	Warnings []string
	CSRF     template.HTML
}

// PageData is the template data for a guide page.
type PageData struct {
	Layout
	View render.PageView
}

// ErrorData is the template data for the not-found page.
type ErrorData struct {
	Layout
	Message string
}

// HandleHome redirects to the home page of the guide.
func (d *Deps) HandleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		d.notFound(w, r)
		return
	}
	http.Redirect(w, r, "/pages/home", http.StatusFound)
}

// HandlePage runs a render cycle for one guide page.
func (d *Deps) HandlePage(w http.ResponseWriter, r *http.Request) {
	page, ok := d.Catalog.Page(r.PathValue("page"))
	if !ok {
		d.notFound(w, r)
		return
	}

	sess := d.Sessions.Get(w, r)
	sess.Lock()
	defer sess.Unlock()

	view := render.Page(sess, page, r.URL.Query())

	data := PageData{
		Layout: d.layout(r, sess, page.Title, page.Key),
		View:   view,
	}
	data.Warnings = append(data.Warnings, view.Warnings...)

	d.render(w, "page.html", data)
}

// layout builds the shared template data and consumes the session's flashes.
// The caller must hold the session lock.
func (d *Deps) layout(r *http.Request, sess *session.Session, title, active string) Layout {
	nav := make([]NavItem, 0, len(d.Catalog.Pages)+1)
	for _, p := range d.Catalog.Pages {
		nav = append(nav, NavItem{Title: p.Title, Href: pageURL(p.Key), Active: p.Key == active})
	}
	nav = append(nav, NavItem{Title: "Feedback", Href: "/feedback", Active: active == "feedback"})

	return Layout{
		Title:   title,
		Nav:     nav,
		Flashes: sess.TakeFlashes(),
		CSRF:    csrf.TemplateField(r),
	}
}

func (d *Deps) notFound(w http.ResponseWriter, r *http.Request) {
	data := ErrorData{
		Layout: Layout{
			Title: "Page not found",
			CSRF:  csrf.TemplateField(r),
		},
		Message: "There is no such page in the guide.",
	}
	for _, p := range d.Catalog.Pages {
		data.Nav = append(data.Nav, NavItem{Title: p.Title, Href: pageURL(p.Key)})
	}
	data.Nav = append(data.Nav, NavItem{Title: "Feedback", Href: "/feedback"})
	d.renderStatus(w, "error.html", data, http.StatusNotFound)
}

func (d *Deps) render(w http.ResponseWriter, name string, data any) {
	d.renderStatus(w, name, data, http.StatusOK)
}

// renderStatus executes into a buffer first so a template error still yields
// a clean 500.
func (d *Deps) renderStatus(w http.ResponseWriter, name string, data any, status int) {
	var buf bytes.Buffer
	if err := d.Templates.ExecuteTemplate(&buf, name, data); err != nil {
		d.Logger.Error("Template error", zap.String("template", name), zap.Error(err))
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func pageURL(key string) string {
	return "/pages/" + key
}

package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/LianHaeming/llmguide/content"
	"github.com/LianHaeming/llmguide/feedback"
	"github.com/LianHaeming/llmguide/progress"
	"github.com/LianHaeming/llmguide/session"
	"github.com/LianHaeming/llmguide/tmpl"
)

// Deps holds all handler dependencies.
type Deps struct {
	Catalog   *content.Catalog
	Sessions  *session.Manager
	Progress  progress.Store
	Feedback  *feedback.Service
	Templates *tmpl.Templates
	Logger    *zap.Logger
	StaticDir string
}

// Routes builds the application's handler. CSRF protection is applied by the
// caller around the returned handler.
func (d *Deps) Routes() http.Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	mux := http.NewServeMux()

	// Static files
	if d.StaticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(d.StaticDir))))
	}

	// Pages (return full HTML)
	mux.HandleFunc("GET /", d.HandleHome)
	mux.HandleFunc("GET /pages/{page}", d.HandlePage)
	mux.HandleFunc("GET /feedback", d.HandleFeedbackPage)

	// Form posts, each answered with a redirect
	mux.HandleFunc("POST /pages/{page}/progress", d.HandleToggleProgress)
	mux.HandleFunc("POST /pages/{page}/progress/reset", d.HandleResetProgress)
	mux.HandleFunc("POST /pages/{page}/expansion", d.HandleExpansion)
	mux.HandleFunc("POST /feedback", d.HandleSubmitFeedback)
	mux.HandleFunc("POST /feedback/export", d.HandleExportFeedback)
	mux.HandleFunc("POST /feedback/clear", d.HandleClearFeedback)

	// JSON API
	mux.HandleFunc("GET /api/progress", d.HandleGetProgress)
	mux.HandleFunc("GET /api/progress/{page}", d.HandleGetPageProgress)

	return d.logRequests(mux)
}

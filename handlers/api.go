package handlers

import (
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/LianHaeming/llmguide/progress"
)

// HandleGetProgress returns the persisted progress of every tracked page.
func (d *Deps) HandleGetProgress(w http.ResponseWriter, r *http.Request) {
	record, err := d.Progress.Load()
	if err != nil {
		d.Logger.Warn("Failed to load progress", zap.Error(err))
		jsonError(w, "Failed to load progress", http.StatusInternalServerError)
		return
	}
	jsonOK(w, map[string]any{"pages": progress.SummarizeAll(record, d.Catalog)})
}

// HandleGetPageProgress returns the persisted progress of one page.
func (d *Deps) HandleGetPageProgress(w http.ResponseWriter, r *http.Request) {
	page, ok := d.Catalog.Page(r.PathValue("page"))
	if !ok || !page.Tracked {
		jsonError(w, "Unknown or untracked page", http.StatusNotFound)
		return
	}

	record, err := d.Progress.Load()
	if err != nil {
		d.Logger.Warn("Failed to load progress", zap.Error(err), zap.String("page", page.Key))
		jsonError(w, "Failed to load progress", http.StatusInternalServerError)
		return
	}
	jsonOK(w, progress.Summarize(record, page))
}

func jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

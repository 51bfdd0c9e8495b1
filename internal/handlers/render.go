package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/a-h/templ"

	"drinkdb/internal/db"
	applog "drinkdb/internal/log"
	"drinkdb/internal/views/pages"
)

func renderComponent(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render component", "path", r.URL.Path, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// requireDatabase answers 503 when no store is configured.
func requireDatabase(w http.ResponseWriter, r *http.Request) bool {
	if database == nil {
		applog.Debug(r.Context(), "request without database", "path", r.URL.Path)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return false
	}
	return true
}

// pathID reads the {id} route value. A missing or malformed id answers 400.
func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id := pages.ParseUint(r.PathValue("id"))
	if id == 0 {
		applog.Debug(r.Context(), "request without usable id", "path", r.URL.Path, "id", r.PathValue("id"))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// respondStoreError maps store failures onto status codes. Unexpected errors are logged and
// hidden from the client.
func respondStoreError(w http.ResponseWriter, r *http.Request, action string, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		applog.Debug(r.Context(), action+": not found", "error", err)
		http.NotFound(w, r)
	case errors.Is(err, db.ErrStale):
		applog.Info(r.Context(), action+": stale version", "error", err)
		http.Error(w, "This drink was changed by someone else. Reload it and try again.", http.StatusConflict)
	case errors.Is(err, db.ErrConflict):
		applog.Debug(r.Context(), action+": conflict", "error", err)
		http.Error(w, "The change conflicts with an existing record.", http.StatusConflict)
	default:
		applog.Error(r.Context(), "failed to "+action, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

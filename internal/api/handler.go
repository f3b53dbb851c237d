// internal/api/handler.go
package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mcqhub/mcq/internal/catalog"
	"github.com/mcqhub/mcq/internal/mistakes"
	"github.com/mcqhub/mcq/internal/store"
)

// Handler bundles the dependencies every route needs.
type Handler struct {
	catalog  *catalog.Catalog
	mistakes *mistakes.Store
	sessions *store.SQLiteStore
	logger   *slog.Logger
}

func NewHandler(cat *catalog.Catalog, m *mistakes.Store, sessions *store.SQLiteStore, logger *slog.Logger) *Handler {
	return &Handler{catalog: cat, mistakes: m, sessions: sessions, logger: logger}
}

// ── Response helpers ────────────────────────────────────────────────────

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// render executes a page template into a buffer first so a render error
// becomes a clean 500 instead of a half-written page.
func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error("template render failed", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func atoiDefault(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

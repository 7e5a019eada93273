package handlers

import (
	"log/slog"
	"net/http"

	"github.com/payform/acceptance/internal/models"
)

// StartHandler serves the landing page and the empty payment forms
type StartHandler struct {
	pages  *pageRenderer
	logger *slog.Logger
}

// NewStartHandler creates a new StartHandler showing amount as the tour price
func NewStartHandler(amount int64, logger *slog.Logger) (*StartHandler, error) {
	pages, err := newPageRenderer(amount)
	if err != nil {
		return nil, err
	}

	return &StartHandler{pages: pages, logger: logger}, nil
}

// ServeHTTP handles GET /. The optional kind query opens a form.
func (h *StartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data := PageData{}
	if q := r.URL.Query().Get("kind"); q != "" {
		kind, err := models.ParseKind(q)
		if err != nil {
			http.Error(w, "Unknown payment kind", http.StatusNotFound)
			return
		}
		data = h.pages.formData(kind, models.CardSubmission{}, nil)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.pages.render(w, data); err != nil {
		h.logger.Error("failed to render start page", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

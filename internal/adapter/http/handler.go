package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"log/slog"

	"mediabox-ledger/internal/core/port"
)

// Handler contains dependencies and routes. It is an inbound adapter for HTTP.
// It holds a LedgerUseCase to execute business logic and a logger for
// structured logging. Routes are registered on a chi.Router for convenient
// method handling.
type Handler struct {
	svc    port.LedgerUseCase
	logger *slog.Logger
	router chi.Router
}

// NewHandler creates a handler with all routes configured. It accepts a
// LedgerUseCase implementation and a logger. The returned Handler registers
// handlers for each endpoint on a new chi.Router.
func NewHandler(svc port.LedgerUseCase, logger *slog.Logger) *Handler {
	h := &Handler{svc: svc, logger: logger}
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/tabs", h.handleCreateTab)
		r.Post("/sections", h.handleCreateSection)
		r.Post("/tactics", h.handleCreateTactic)
		r.Post("/placements", h.handleCreatePlacement)
		r.Post("/creatives", h.handleCreateCreative)

		r.Patch("/tactics/{id}", h.handleUpdateTacticBudget)
		r.Delete("/tactics/{id}", h.handleDeleteTactic)
		r.Delete("/sections/{id}", h.handleDeleteSection)

		r.Post("/budget/preview", h.handleBudgetPreview)
		r.Get("/sections/{id}/rollup", h.handleSectionRollup)
		r.Get("/campaigns/{id}/rollup", h.handleCampaignRollup)
		r.Get("/campaigns/{id}/sections/rollup", h.handleSectionRollups)
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

// writeJSON encodes v with a JSON content type. Encoding failures are logged;
// the status line has already been sent at that point.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}

// writeError maps usecase errors to HTTP status codes. An incomplete order
// scope is a caller bug (400), a missing entity is 404, anything else is a
// logged 500.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var missing *port.MissingContextError
	switch {
	case errors.As(err, &missing):
		http.Error(w, missing.Error(), http.StatusBadRequest)
	case errors.Is(err, port.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		h.logger.Error("ledger error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

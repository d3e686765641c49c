package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	service "github.com/okian/gacha/internal/app"
	"github.com/okian/gacha/internal/domain/collection"
	"github.com/okian/gacha/internal/domain/model"
)

// CollectionDependencies defines the per-collector operations.
type CollectionDependencies interface {
	Draw(ctx context.Context, collector string) (service.DrawResult, error)
	Collection(ctx context.Context, collector string) (service.CollectionView, error)
	OwnedCards(ctx context.Context, collector string) ([]model.Card, error)
	ResetCollection(ctx context.Context, collector string) error
	Challenges(ctx context.Context, collector string) ([]collection.Progress, error)
}

// CollectionHandler serves draws and collection state.
type CollectionHandler struct {
	deps CollectionDependencies
}

// NewCollectionHandler creates a new collection handler.
func NewCollectionHandler(deps CollectionDependencies) *CollectionHandler {
	return &CollectionHandler{deps: deps}
}

// HandleDraw handles POST /collections/{collector}/draw.
func (h *CollectionHandler) HandleDraw(w http.ResponseWriter, r *http.Request) {
	const op = "api.draw"
	res, err := h.deps.Draw(r.Context(), chi.URLParam(r, "collector"))
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleGetCollection handles GET /collections/{collector}.
func (h *CollectionHandler) HandleGetCollection(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_collection"
	view, err := h.deps.Collection(r.Context(), chi.URLParam(r, "collector"))
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleOwnedCards handles GET /collections/{collector}/cards.
func (h *CollectionHandler) HandleOwnedCards(w http.ResponseWriter, r *http.Request) {
	const op = "api.owned_cards"
	cards, err := h.deps.OwnedCards(r.Context(), chi.URLParam(r, "collector"))
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

// HandleResetCollection handles DELETE /collections/{collector}.
func (h *CollectionHandler) HandleResetCollection(w http.ResponseWriter, r *http.Request) {
	const op = "api.reset_collection"
	if err := h.deps.ResetCollection(r.Context(), chi.URLParam(r, "collector")); err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleChallenges handles GET /collections/{collector}/challenges.
func (h *CollectionHandler) HandleChallenges(w http.ResponseWriter, r *http.Request) {
	const op = "api.challenges"
	progress, err := h.deps.Challenges(r.Context(), chi.URLParam(r, "collector"))
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

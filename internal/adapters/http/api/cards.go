package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	service "github.com/okian/gacha/internal/app"
	"github.com/okian/gacha/internal/domain/model"
)

// CardsDependencies defines the dataset read operations.
type CardsDependencies interface {
	Metadata(ctx context.Context) (model.Metadata, error)
	Cards(ctx context.Context, f service.CardFilter) ([]model.Card, error)
	Card(ctx context.Context, id string) (model.Card, error)
	PlayerCards(ctx context.Context, playerID string) ([]model.Card, error)
	Careers(ctx context.Context, limit int) ([]model.Career, error)
	Career(ctx context.Context, playerID string) (model.Career, error)
}

// CardsHandler serves cards, careers and dataset metadata.
type CardsHandler struct {
	deps CardsDependencies
}

// NewCardsHandler creates a new cards handler.
func NewCardsHandler(deps CardsDependencies) *CardsHandler {
	return &CardsHandler{deps: deps}
}

// HandleMetadata handles GET /metadata.
func (h *CardsHandler) HandleMetadata(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_metadata"
	md, err := h.deps.Metadata(r.Context())
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, md)
}

// HandleListCards handles GET /cards?position=&grade=&limit=.
func (h *CardsHandler) HandleListCards(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_cards"
	q := r.URL.Query()

	var (
		f   service.CardFilter
		err error
	)
	if v := q.Get("position"); v != "" {
		if f.Position, err = model.ParsePosition(v); err != nil {
			fail(w, r, WrapKind(op, ErrBadRequest, err))
			return
		}
	}
	if v := q.Get("grade"); v != "" {
		if f.Grade, err = model.ParseGrade(v); err != nil {
			fail(w, r, WrapKind(op, ErrBadRequest, err))
			return
		}
	}
	if f.Limit, err = parseLimit(q.Get("limit")); err != nil {
		fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}

	cards, err := h.deps.Cards(r.Context(), f)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

// HandleGetCard handles GET /cards/{id}.
func (h *CardsHandler) HandleGetCard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_card"
	card, err := h.deps.Card(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// HandlePlayerCards handles GET /players/{playerId}/cards.
func (h *CardsHandler) HandlePlayerCards(w http.ResponseWriter, r *http.Request) {
	const op = "api.player_cards"
	cards, err := h.deps.PlayerCards(r.Context(), chi.URLParam(r, "playerId"))
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

// HandleListCareers handles GET /careers?limit=.
func (h *CardsHandler) HandleListCareers(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_careers"
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	careers, err := h.deps.Careers(r.Context(), limit)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, careers)
}

// HandleGetCareer handles GET /careers/{playerId}.
func (h *CardsHandler) HandleGetCareer(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_career"
	career, err := h.deps.Career(r.Context(), chi.URLParam(r, "playerId"))
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, career)
}

// parseLimit returns 0 for an absent limit, which means the server default.
func parseLimit(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("limit must be a positive integer, got %q", s)
	}
	return n, nil
}

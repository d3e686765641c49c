package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	service "github.com/okian/gacha/internal/app"
)

var validate = validator.New() //nolint:gochecknoglobals // validators cache struct metadata

// BattleDependencies defines the battle operation.
type BattleDependencies interface {
	Battle(ctx context.Context, ids []string) (service.BattleResult, error)
}

// BattleHandler runs battles against a drawn opponent.
type BattleHandler struct {
	deps BattleDependencies
}

// NewBattleHandler creates a new battle handler.
func NewBattleHandler(deps BattleDependencies) *BattleHandler {
	return &BattleHandler{deps: deps}
}

// battleRequest is the POST /battle body. An empty body or team draws the
// challenger's team too.
type battleRequest struct {
	Team []string `json:"team" validate:"omitempty,len=5,unique,dive,required,max=64"`
}

const maxBattleBody = 4 << 10

// HandleBattle handles POST /battle.
func (h *BattleHandler) HandleBattle(w http.ResponseWriter, r *http.Request) {
	const op = "api.battle"

	var req battleRequest
	err := json.NewDecoder(io.LimitReader(r.Body, maxBattleBody)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Battle(r.Context(), req.Team)
	if errors.Is(err, service.ErrUnknownCard) {
		fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

package dataset

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/okian/gacha/internal/domain/model"
)

// Encode writes the dataset document as indented JSON.
func Encode(w io.Writer, ds *model.Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return nil
}

// Decode reads a dataset document and validates it.
func Decode(r io.Reader) (*model.Dataset, error) {
	var ds model.Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if err := Validate(&ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Validate checks the invariants the runtime relies on: unique ids, known
// enums and at least one card in every position.
func Validate(ds *model.Dataset) error {
	if len(ds.Players) == 0 {
		return ErrNoCards
	}
	ids := make(map[string]struct{}, len(ds.Players))
	perPosition := make(map[model.Position]int, model.PositionCount)
	for _, c := range ds.Players {
		if c.ID == "" || !c.Position.Valid() || !c.Grade.Valid() || !c.Result.Valid() || c.Score < 0 {
			return fmt.Errorf("%w: %q", ErrInvalidCard, c.ID)
		}
		if _, dup := ids[c.ID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateCard, c.ID)
		}
		ids[c.ID] = struct{}{}
		perPosition[c.Position]++
	}
	for _, p := range model.Positions() {
		if perPosition[p] == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyPosition, p)
		}
	}
	return nil
}

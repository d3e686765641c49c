package dataset

import "github.com/okian/gacha/internal/domain/model"

// PositionIndex resolves a player name to a roster position. Keys are
// normalized names.
type PositionIndex map[string]model.Position

// NewPositionIndex builds an index from name/position pairs. Later pairs
// win on conflict.
func NewPositionIndex(pairs map[string]model.Position) PositionIndex {
	idx := make(PositionIndex, len(pairs))
	for name, pos := range pairs {
		idx.Add(name, pos)
	}
	return idx
}

// PositionIndexFromDataset bootstraps the index from a previously built
// dataset, one entry per card name.
func PositionIndexFromDataset(ds *model.Dataset) PositionIndex {
	idx := make(PositionIndex)
	if ds == nil {
		return idx
	}
	for _, c := range ds.Players {
		idx.Add(c.Name, c.Position)
	}
	return idx
}

// Add records a position for name. Invalid positions are ignored.
func (idx PositionIndex) Add(name string, pos model.Position) {
	if !pos.Valid() {
		return
	}
	idx[NormalizeName(name)] = pos
}

// Lookup resolves a raw player name.
func (idx PositionIndex) Lookup(name string) (model.Position, bool) {
	pos, ok := idx[NormalizeName(name)]
	return pos, ok
}

package draw

import (
	"fmt"

	"github.com/okian/gacha/internal/domain/model"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithRandomSource injects the generator used for grade rolls and picks.
func WithRandomSource(rng RandomSource) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithDistribution overrides the grade probabilities. NewEngine validates it.
func WithDistribution(d Distribution) Option {
	return func(e *Engine) {
		if d != nil {
			e.dist = d.Clone()
		}
	}
}

// WithWeightFunc overrides the candidate weighting.
func WithWeightFunc(fn WeightFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.weight = fn
		}
	}
}

// Slot is one drawn position: the grade the roll asked for and the card
// actually delivered. They differ when the rolled grade had no cards.
type Slot struct {
	Position model.Position `json:"position"`
	Rolled   model.Grade    `json:"rolled"`
	Card     model.Card     `json:"card"`
}

// Fallback reports whether the delivered grade differs from the roll.
func (s Slot) Fallback() bool { return s.Card.Grade != s.Rolled }

// Pull is a drawn team together with its per-slot roll details.
type Pull struct {
	Team  model.Team
	Slots [model.PositionCount]Slot
}

// Engine draws teams from an immutable dataset. It never mutates the
// dataset and holds no per-draw state, so one Engine serves concurrent
// callers as long as its RandomSource does.
type Engine struct {
	rng    RandomSource
	dist   Distribution
	weight WeightFunc

	// pools[position][grade] keeps dataset order.
	pools map[model.Position]map[model.Grade][]model.Card
	all   map[model.Position][]model.Card
}

// NewEngine indexes ds by position and grade.
func NewEngine(ds *model.Dataset, opts ...Option) (*Engine, error) {
	e := &Engine{
		rng:    DefaultSource(),
		dist:   UniformDistribution(),
		weight: Weight,
		pools:  make(map[model.Position]map[model.Grade][]model.Card, model.PositionCount),
		all:    make(map[model.Position][]model.Card, model.PositionCount),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.dist.Validate(); err != nil {
		return nil, err
	}

	for _, p := range model.Positions() {
		e.pools[p] = make(map[model.Grade][]model.Card)
	}
	if ds != nil {
		for _, c := range ds.Players {
			byGrade, ok := e.pools[c.Position]
			if !ok {
				continue
			}
			byGrade[c.Grade] = append(byGrade[c.Grade], c)
			e.all[c.Position] = append(e.all[c.Position], c)
		}
	}
	return e, nil
}

// Distribution returns a copy of the grade probabilities in use.
func (e *Engine) Distribution() Distribution { return e.dist.Clone() }

// Candidates returns the cards eligible for a roll of target at pos: the
// first non-empty grade in SearchOrder, or the whole position pool if no
// grade has cards.
func (e *Engine) Candidates(pos model.Position, target model.Grade) ([]model.Card, error) {
	byGrade := e.pools[pos]
	for _, g := range SearchOrder(target) {
		if cards := byGrade[g]; len(cards) > 0 {
			return cards, nil
		}
	}
	if cards := e.all[pos]; len(cards) > 0 {
		return cards, nil
	}
	return nil, fmt.Errorf("%w: position %s", ErrEmptyPool, pos)
}

// DrawSlot rolls a grade and picks one card for pos.
func (e *Engine) DrawSlot(pos model.Position) (Slot, error) {
	rolled := RollGrade(e.rng.Float64(), e.dist)
	candidates, err := e.Candidates(pos, rolled)
	if err != nil {
		return Slot{}, err
	}
	card := PickWeighted(e.rng.Float64(), candidates, e.weight)
	return Slot{Position: pos, Rolled: rolled, Card: card}, nil
}

// Pull draws every position independently, in slot order.
func (e *Engine) Pull() (Pull, error) {
	var out Pull
	for i, pos := range model.Positions() {
		slot, err := e.DrawSlot(pos)
		if err != nil {
			return Pull{}, err
		}
		out.Slots[i] = slot
		out.Team[i] = slot.Card
	}
	return out, nil
}

// DrawTeam returns one card per position in slot order.
func (e *Engine) DrawTeam() (model.Team, error) {
	p, err := e.Pull()
	if err != nil {
		return model.Team{}, err
	}
	return p.Team, nil
}

package battle

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/okian/gacha/internal/domain/draw"
	"github.com/okian/gacha/internal/domain/model"
)

// Side identifies a battle participant, or a draw.
type Side string

// Battle sides.
const (
	SideA Side = "A"
	SideB Side = "B"
	Draw  Side = "draw"
)

// RandomSource is the jitter generator; draws and battles share one type so
// a service can back both with the same source.
type RandomSource = draw.RandomSource

// Round is one slot's matchup.
type Round struct {
	Position model.Position `json:"position"`
	CardA    string         `json:"cardA"`
	CardB    string         `json:"cardB"`
	PowerA   int            `json:"powerA"`
	PowerB   int            `json:"powerB"`
	Winner   Side           `json:"winner"`
}

// Outcome is the result of one battle.
type Outcome struct {
	ID     string  `json:"id"`
	Winner Side    `json:"winner"`
	ScoreA int     `json:"scoreA"`
	ScoreB int     `json:"scoreB"`
	WinsA  int     `json:"winsA"`
	WinsB  int     `json:"winsB"`
	Rounds []Round `json:"rounds"`
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithRandomSource injects the jitter generator.
func WithRandomSource(rng RandomSource) Option {
	return func(r *Resolver) {
		if rng != nil {
			r.rng = rng
		}
	}
}

// WithIDGenerator overrides how outcome ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(r *Resolver) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// Resolver runs battles. Every call re-rolls jitter, so repeating a battle
// between the same teams can change its outcome.
type Resolver struct {
	rng   RandomSource
	newID func() string
}

// NewResolver creates a resolver on the process-global generator.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{rng: draw.DefaultSource(), newID: uuid.NewString}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve plays a against b slot by slot. Both teams must be non-empty,
// the same size and in matching position order.
func (r *Resolver) Resolve(a, b []model.Card) (Outcome, error) {
	if len(a) == 0 || len(a) != len(b) {
		return Outcome{}, fmt.Errorf("%w: sizes %d and %d", ErrInvalidTeam, len(a), len(b))
	}
	for i := range a {
		if a[i].Position != b[i].Position {
			return Outcome{}, fmt.Errorf("%w: slot %d pairs %s with %s", ErrInvalidTeam, i, a[i].Position, b[i].Position)
		}
	}

	out := Outcome{ID: r.newID(), Rounds: make([]Round, 0, len(a))}
	for i := range a {
		round := Round{
			Position: a[i].Position,
			CardA:    a[i].ID,
			CardB:    b[i].ID,
			PowerA:   SlotPower(a[i], r.rng.Float64()),
			PowerB:   SlotPower(b[i], r.rng.Float64()),
		}
		round.Winner = compare(round.PowerA, round.PowerB)
		switch round.Winner {
		case SideA:
			out.WinsA++
		case SideB:
			out.WinsB++
		case Draw:
		}
		out.ScoreA += round.PowerA
		out.ScoreB += round.PowerB
		out.Rounds = append(out.Rounds, round)
	}

	out.Winner = compare(out.WinsA, out.WinsB)
	if out.Winner == Draw {
		out.Winner = compare(out.ScoreA, out.ScoreB)
	}
	return out, nil
}

// ResolveTeams is Resolve for full five-slot teams.
func (r *Resolver) ResolveTeams(a, b model.Team) (Outcome, error) {
	return r.Resolve(a.Cards(), b.Cards())
}

func compare(a, b int) Side {
	switch {
	case a > b:
		return SideA
	case b > a:
		return SideB
	default:
		return Draw
	}
}

package battle_test

import (
	"errors"
	"testing"

	"github.com/okian/gacha/internal/domain/battle"
	"github.com/okian/gacha/internal/domain/draw"
	"github.com/okian/gacha/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// sequence replays fixed values, cycling when exhausted.
type sequence struct {
	values []float64
	next   int
}

func (s *sequence) Float64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func legend(pos model.Position) model.Card {
	return model.Card{ID: "faker-2024", Position: pos, Grade: model.GradeLegendary, Result: model.ResultChampion, Year: 2024, Score: 163}
}

func TestTeamPower(t *testing.T) {
	Convey("Given cards with scores", t, func() {
		cards := []model.Card{{Score: 10}, {Score: 20}, {Score: 30}}

		Convey("Then team power is their sum", func() {
			So(battle.TeamPower(cards), ShouldEqual, 60)
			So(battle.TeamPower(nil), ShouldEqual, 0)
		})
	})
}

func TestSlotPower(t *testing.T) {
	Convey("Given a Legendary 2024 champion", t, func() {
		c := legend(model.PositionMid)

		Convey("Then power is base plus bonuses plus jitter", func() {
			So(battle.SlotPower(c, 0.5), ShouldEqual, 110)
			So(battle.SlotPower(c, 0), ShouldEqual, 100)
			So(battle.SlotPower(c, 0.75), ShouldEqual, 115)
		})
	})

	Convey("Given the bonus tables", t, func() {
		So(battle.BasePower(model.GradeDemonKing), ShouldBeGreaterThan, battle.BasePower(model.GradeLegendary))
		So(battle.BasePower(model.GradeCommon), ShouldEqual, 35)
		So(battle.ResultBonus(model.ResultGroupStage), ShouldEqual, 0)
		So(battle.ResultBonus(model.ResultRunnerUp), ShouldEqual, 6)
		So(battle.RecencyBonus(2022), ShouldEqual, 5)
		So(battle.RecencyBonus(2019), ShouldEqual, 2)
		So(battle.RecencyBonus(2018), ShouldEqual, 0)

		common := model.Card{Grade: model.GradeCommon, Result: model.ResultGroupStage, Year: 2010}
		So(battle.SlotPower(common, 0.5), ShouldEqual, 35)
	})
}

func TestResolve(t *testing.T) {
	Convey("Given two identical single-card teams", t, func() {
		a := []model.Card{legend(model.PositionMid)}
		b := []model.Card{legend(model.PositionMid)}

		Convey("When jitter favours A", func() {
			r := battle.NewResolver(battle.WithRandomSource(&sequence{values: []float64{0.9, 0.1}}))
			out, err := r.Resolve(a, b)

			Convey("Then A wins the slot and the match", func() {
				So(err, ShouldBeNil)
				So(out.Rounds, ShouldHaveLength, 1)
				So(out.Rounds[0].Winner, ShouldEqual, battle.SideA)
				So(out.WinsA, ShouldEqual, 1)
				So(out.Winner, ShouldEqual, battle.SideA)
			})
		})

		Convey("When jitter is equal", func() {
			r := battle.NewResolver(battle.WithRandomSource(&sequence{values: []float64{0.5}}))
			out, err := r.Resolve(a, b)

			Convey("Then the match is a draw", func() {
				So(err, ShouldBeNil)
				So(out.Rounds[0].Winner, ShouldEqual, battle.Draw)
				So(out.ScoreA, ShouldEqual, out.ScoreB)
				So(out.Winner, ShouldEqual, battle.Draw)
			})
		})

		Convey("When resolved many times with real randomness", func() {
			r := battle.NewResolver(battle.WithRandomSource(draw.NewSeededSource(3)))
			for i := 0; i < 500; i++ {
				out, err := r.Resolve(a, b)
				So(err, ShouldBeNil)
				So(out.Winner, ShouldBeIn, []battle.Side{battle.SideA, battle.SideB, battle.Draw})
			}
		})

		Convey("When the resolver shares the draw package's default source", func() {
			var shared battle.RandomSource = draw.DefaultSource()
			for _, r := range []*battle.Resolver{battle.NewResolver(), battle.NewResolver(battle.WithRandomSource(shared))} {
				out, err := r.Resolve(a, b)
				So(err, ShouldBeNil)
				So(out.ID, ShouldNotBeEmpty)
				So(out.Rounds[0].PowerA, ShouldBeBetweenOrEqual, 100, 120)
			}
		})
	})

	Convey("Given slot wins that tie", t, func() {
		a := []model.Card{legend(model.PositionTop), legend(model.PositionMid)}
		b := []model.Card{legend(model.PositionTop), legend(model.PositionMid)}
		// slot 1: A 115, B 110. slot 2: A 110, B 111.
		r := battle.NewResolver(battle.WithRandomSource(&sequence{values: []float64{0.75, 0.5, 0.5, 0.55}}))
		out, err := r.Resolve(a, b)

		Convey("Then total power decides", func() {
			So(err, ShouldBeNil)
			So(out.WinsA, ShouldEqual, 1)
			So(out.WinsB, ShouldEqual, 1)
			So(out.ScoreA, ShouldEqual, 225)
			So(out.ScoreB, ShouldEqual, 221)
			So(out.Winner, ShouldEqual, battle.SideA)
		})
	})

	Convey("Given full teams", t, func() {
		var a, b model.Team
		for i, pos := range model.Positions() {
			a[i] = legend(pos)
			b[i] = model.Card{ID: "rookie", Position: pos, Grade: model.GradeCommon, Result: model.ResultGroupStage, Year: 2012}
		}
		r := battle.NewResolver(
			battle.WithRandomSource(draw.NewSeededSource(11)),
			battle.WithIDGenerator(func() string { return "battle-1" }),
		)
		out, err := r.ResolveTeams(a, b)

		Convey("Then every slot is reported in order", func() {
			So(err, ShouldBeNil)
			So(out.ID, ShouldEqual, "battle-1")
			So(out.Rounds, ShouldHaveLength, model.PositionCount)
			for i, pos := range model.Positions() {
				So(out.Rounds[i].Position, ShouldEqual, pos)
				So(out.Rounds[i].CardA, ShouldEqual, "faker-2024")
			}
			// 100..120 against 25..45 never loses.
			So(out.WinsA, ShouldEqual, model.PositionCount)
			So(out.Winner, ShouldEqual, battle.SideA)
		})
	})

	Convey("Given teams that cannot be paired", t, func() {
		r := battle.NewResolver()

		_, err := r.Resolve(nil, nil)
		So(errors.Is(err, battle.ErrInvalidTeam), ShouldBeTrue)

		_, err = r.Resolve([]model.Card{legend(model.PositionMid)}, nil)
		So(errors.Is(err, battle.ErrInvalidTeam), ShouldBeTrue)

		_, err = r.Resolve([]model.Card{legend(model.PositionMid)}, []model.Card{legend(model.PositionTop)})
		So(errors.Is(err, battle.ErrInvalidTeam), ShouldBeTrue)
	})
}

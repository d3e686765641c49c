package scoring_test

import (
	"testing"

	"github.com/okian/gacha/internal/domain/model"
	scoring "github.com/okian/gacha/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDeriveScore(t *testing.T) {
	Convey("Given the default score tables", t, func() {
		Convey("When an LCK team wins in the modern era", func() {
			score := scoring.DeriveScore(model.ResultChampion, 2024, "T1")

			Convey("Then the score is round(100 * 1.25 * 1.3)", func() {
				So(score, ShouldEqual, 163)
			})

			Convey("And it grades as LEGENDARY", func() {
				So(scoring.ClassifyGrade(score), ShouldEqual, model.GradeLegendary)
			})
		})

		Convey("When the team is outside the top region", func() {
			So(scoring.DeriveScore(model.ResultChampion, 2024, "JD Gaming"), ShouldEqual, 130)
			So(scoring.DeriveScore(model.ResultRunnerUp, 2020, "Fnatic"), ShouldEqual, 66)
		})

		Convey("When the year falls in each temporal band", func() {
			So(scoring.DeriveScore(model.ResultChampion, 2022, "Cloud9"), ShouldEqual, 130)
			So(scoring.DeriveScore(model.ResultChampion, 2021, "Cloud9"), ShouldEqual, 110)
			So(scoring.DeriveScore(model.ResultChampion, 2019, "Cloud9"), ShouldEqual, 110)
			So(scoring.DeriveScore(model.ResultChampion, 2017, "Cloud9"), ShouldEqual, 100)
			So(scoring.DeriveScore(model.ResultChampion, 2016, "Cloud9"), ShouldEqual, 100)
			So(scoring.DeriveScore(model.ResultChampion, 2015, "Cloud9"), ShouldEqual, 90)
			So(scoring.DeriveScore(model.ResultChampion, 2011, "Fnatic"), ShouldEqual, 90)
		})

		Convey("When rounding lands on a half", func() {
			// 35 * 1.25 * 1.1 = 48.125; 10 * 1.25 * 0.9 = 11.25; 20 * 1.25 * 1.3 = 32.5
			So(scoring.DeriveScore(model.ResultSemifinals, 2020, "DRX"), ShouldEqual, 48)
			So(scoring.DeriveScore(model.ResultGroupStage, 2013, "Samsung Ozone"), ShouldEqual, 11)
			So(scoring.DeriveScore(model.ResultQuarterfinals, 2023, "KT Rolster"), ShouldEqual, 33)
		})

		Convey("When called repeatedly with the same input", func() {
			for _, r := range model.Results() {
				first := scoring.DeriveScore(r, 2018, "Gen.G Esports")
				for i := 0; i < 5; i++ {
					So(scoring.DeriveScore(r, 2018, "Gen.G Esports"), ShouldEqual, first)
				}
				So(first, ShouldBeGreaterThanOrEqualTo, 0)
			}
		})

		Convey("When the result is unknown", func() {
			So(scoring.DeriveScore(model.Result("Finals"), 2024, "T1"), ShouldEqual, 0)
		})
	})
}

func TestClassifyGrade(t *testing.T) {
	Convey("Given the 100/70/45/25 thresholds", t, func() {
		cases := []struct {
			score int
			grade model.Grade
		}{
			{1000, model.GradeLegendary},
			{100, model.GradeLegendary},
			{99, model.GradeEpic},
			{70, model.GradeEpic},
			{69, model.GradeRare},
			{45, model.GradeRare},
			{44, model.GradeUncommon},
			{25, model.GradeUncommon},
			{24, model.GradeCommon},
			{0, model.GradeCommon},
			{-5, model.GradeCommon},
		}
		for _, c := range cases {
			So(scoring.ClassifyGrade(c.score), ShouldEqual, c.grade)
		}
	})
}

func TestTableScorerOptions(t *testing.T) {
	Convey("Given a scorer with custom options", t, func() {
		s := scoring.NewTableScorer(
			scoring.WithTopRegion(model.RegionLPL),
			scoring.WithThresholds(scoring.Thresholds{Legendary: 150, Epic: 100, Rare: 50, Uncommon: 20}),
		)

		Convey("Then the regional bonus follows the configured region", func() {
			So(s.Score(scoring.Input{Result: model.ResultChampion, Year: 2018, Team: "Invictus Gaming"}), ShouldEqual, 125)
			So(s.Score(scoring.Input{Result: model.ResultChampion, Year: 2018, Team: "T1"}), ShouldEqual, 100)
		})

		Convey("And grades follow the configured thresholds", func() {
			So(s.Grade(149), ShouldEqual, model.GradeEpic)
			So(s.Grade(150), ShouldEqual, model.GradeLegendary)
			So(s.Grade(19), ShouldEqual, model.GradeCommon)
		})
	})

	Convey("Given thresholds that are not descending", t, func() {
		s := scoring.NewTableScorer(scoring.WithThresholds(scoring.Thresholds{Legendary: 10, Epic: 20, Rare: 30, Uncommon: 40}))

		Convey("Then the defaults are kept", func() {
			So(s.Grade(100), ShouldEqual, model.GradeLegendary)
			So(s.Grade(99), ShouldEqual, model.GradeEpic)
		})
	})

	Convey("Given no score threshold reaches DEMON_KING", t, func() {
		s := scoring.NewTableScorer()
		So(s.Grade(1<<30), ShouldEqual, model.GradeLegendary)
	})
}

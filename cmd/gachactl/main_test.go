package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/gacha/internal/adapters/datasetfile"
	"github.com/okian/gacha/internal/domain/dataset"
	"github.com/okian/gacha/internal/domain/model"
)

const rows = `year,team,player,result
2024,T1,Faker,Champion
2024,T1,Zeus,Champion
2024,T1,Oner,Champion
2024,T1,Gumayusi,Champion
2024,T1,Keria,Champion
2023,T1,Faker,Champion
2023,Nowhere,Nobody,Group Stage
2022,T1
`

func writePositions(t *testing.T, dir string) string {
	t.Helper()
	ds := &model.Dataset{}
	for name, pos := range map[string]model.Position{
		"Faker": model.PositionMid, "Zeus": model.PositionTop, "Oner": model.PositionJungle,
		"Gumayusi": model.PositionADC, "Keria": model.PositionSupport,
	} {
		ds.Players = append(ds.Players, model.Card{
			ID: dataset.PlayerID(name) + "-2020", PlayerID: dataset.PlayerID(name), Name: name,
			Year: 2020, Position: pos, Grade: model.GradeCommon, Result: model.ResultGroupStage,
		})
	}
	ds.Metadata = dataset.Summarize(ds, time.Now())
	path := filepath.Join(dir, "old.json")
	if err := datasetfile.Save(path, ds); err != nil {
		t.Fatalf("save positions: %v", err)
	}
	return path
}

func run(args ...string) (string, error) {
	app := newApp()
	var buf bytes.Buffer
	app.Writer = &buf
	app.ErrWriter = &buf
	err := app.Run(append([]string{"gachactl"}, args...))
	return buf.String(), err
}

func TestGachactl(t *testing.T) {
	convey.Convey("Given raw rows and a positions dataset", t, func() {
		dir := t.TempDir()
		csvPath := filepath.Join(dir, "rows.csv")
		convey.So(os.WriteFile(csvPath, []byte(rows), 0o600), convey.ShouldBeNil)
		positions := writePositions(t, dir)
		out := filepath.Join(dir, "players.json")

		convey.Convey("When building", func() {
			text, err := run("build", "--csv", csvPath, "--positions", positions, "--out", out)

			convey.Convey("Then the dataset is written and summarized", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(text, convey.ShouldContainSubstring, "cards: 6  players: 5  years: 2023-2024")
				convey.So(text, convey.ShouldContainSubstring, "1 malformed")
				convey.So(text, convey.ShouldContainSubstring, "Nobody (2023)")

				ds, err := datasetfile.Load(out)
				convey.So(err, convey.ShouldBeNil)
				convey.So(ds.Players, convey.ShouldHaveLength, 6)
			})

			convey.Convey("Then a player can be inspected", func() {
				text, err := run("inspect", "--dataset", out, "--player", "Faker")
				convey.So(err, convey.ShouldBeNil)
				convey.So(text, convey.ShouldContainSubstring, "faker-2024")
				convey.So(text, convey.ShouldContainSubstring, "faker-2023")
				convey.So(text, convey.ShouldContainSubstring, "2 appearances, 2 titles")

				_, err = run("inspect", "--dataset", out, "--player", "Bengi")
				convey.So(err, convey.ShouldNotBeNil)
			})

			convey.Convey("Then the summary can be inspected", func() {
				text, err := run("inspect", "--dataset", out)
				convey.So(err, convey.ShouldBeNil)
				convey.So(text, convey.ShouldContainSubstring, "cards: 6")
			})

			convey.Convey("Then draws can be simulated", func() {
				text, err := run("simulate", "--dataset", out, "--n", "200", "--seed", "3")
				convey.So(err, convey.ShouldBeNil)
				convey.So(text, convey.ShouldContainSubstring, "teams: 200  slots: 1000")
				convey.So(text, convey.ShouldContainSubstring, "LEGENDARY")
			})
		})

		convey.Convey("When a position ends up without cards", func() {
			partial := filepath.Join(dir, "partial.csv")
			convey.So(os.WriteFile(partial, []byte("year,team,player,result\n2024,T1,Faker,Champion\n2023,Nowhere,Nobody,Group Stage\n"), 0o600), convey.ShouldBeNil)
			text, err := run("build", "--csv", partial, "--positions", positions, "--out", out)

			convey.Convey("Then the build fails but still reports the skipped rows", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(text, convey.ShouldContainSubstring, "rows: 2 read, 0 malformed, 0 duplicates, 1 unresolved")
				convey.So(text, convey.ShouldContainSubstring, "line 3: Nobody (2023)")
				_, statErr := os.Stat(out)
				convey.So(os.IsNotExist(statErr), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the csv is missing", func() {
			_, err := run("build", "--csv", filepath.Join(dir, "nope.csv"), "--positions", positions, "--out", out)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

package datasetfile_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/gacha/internal/adapters/datasetfile"
	"github.com/okian/gacha/internal/domain/dataset"
	"github.com/okian/gacha/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sample() *model.Dataset {
	ds := &model.Dataset{}
	for i, pos := range model.Positions() {
		ds.Players = append(ds.Players, model.Card{
			ID:       string(pos) + "-2024",
			PlayerID: string(pos),
			Name:     string(pos),
			Year:     2024,
			Team:     "T1",
			Position: pos,
			Grade:    model.GradeEpic,
			Score:    80 - i,
			Result:   model.ResultChampion,
		})
	}
	ds.Metadata = dataset.Summarize(ds, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	return ds
}

func TestSaveAndLoad(t *testing.T) {
	Convey("Given a dataset written to disk", t, func() {
		path := filepath.Join(t.TempDir(), "data", "players.json")
		So(datasetfile.Save(path, sample()), ShouldBeNil)

		Convey("Then it loads back", func() {
			ds, err := datasetfile.Load(path)
			So(err, ShouldBeNil)
			So(ds.Players, ShouldResemble, sample().Players)
			So(ds.Metadata.TotalCards, ShouldEqual, model.PositionCount)
		})

		Convey("Then no temp files are left behind", func() {
			entries, err := os.ReadDir(filepath.Dir(path))
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 1)
		})
	})

	Convey("Given a missing file", t, func() {
		_, err := datasetfile.Load(filepath.Join(t.TempDir(), "nope.json"))
		So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
	})

	Convey("Given a corrupt file", t, func() {
		path := filepath.Join(t.TempDir(), "players.json")
		So(os.WriteFile(path, []byte("{oops"), 0o600), ShouldBeNil)
		_, err := datasetfile.Load(path)
		So(errors.Is(err, dataset.ErrDecode), ShouldBeTrue)
	})
}

func TestWatcher(t *testing.T) {
	Convey("Given a watcher on a dataset path", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "players.json")
		So(datasetfile.Save(path, sample()), ShouldBeNil)

		changed := make(chan struct{}, 4)
		w := datasetfile.NewWatcher(path, func(context.Context) { changed <- struct{}{} },
			datasetfile.WithDebounce(20*time.Millisecond))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- w.Run(ctx) }()
		// give the watcher time to register
		time.Sleep(100 * time.Millisecond)

		Convey("When the file is replaced", func() {
			So(datasetfile.Save(path, sample()), ShouldBeNil)

			Convey("Then onChange fires", func() {
				select {
				case <-changed:
				case <-time.After(3 * time.Second):
					t.Fatal("onChange not called")
				}
				cancel()
				So(<-done, ShouldBeNil)
			})
		})

		Convey("When an unrelated file changes", func() {
			So(os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600), ShouldBeNil)

			Convey("Then onChange does not fire", func() {
				select {
				case <-changed:
					t.Fatal("unexpected onChange")
				case <-time.After(200 * time.Millisecond):
				}
				cancel()
				So(<-done, ShouldBeNil)
			})
		})
	})
}

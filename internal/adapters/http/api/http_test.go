package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/gacha/internal/adapters/http/api"
	service "github.com/okian/gacha/internal/app"
	"github.com/okian/gacha/internal/domain/collection"
	"github.com/okian/gacha/internal/domain/dataset"
	"github.com/okian/gacha/internal/domain/draw"
	"github.com/okian/gacha/internal/domain/model"
	"github.com/okian/gacha/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func fixture() *model.Dataset {
	ds := &model.Dataset{}
	for _, pos := range model.Positions() {
		for i, g := range model.Grades() {
			playerID := fmt.Sprintf("%s-%d", strings.ToLower(string(pos)), i)
			ds.Players = append(ds.Players, model.Card{
				ID:       playerID + "-2024",
				PlayerID: playerID,
				Name:     playerID,
				Year:     2024,
				Team:     "T1",
				Position: pos,
				Grade:    g,
				Score:    150 - 20*i,
				Result:   model.ResultChampion,
			})
			ds.Careers = append(ds.Careers, model.Career{
				PlayerID:      playerID,
				Name:          playerID,
				Appearances:   1,
				Championships: 1,
				BestResult:    model.ResultChampion,
				Teams:         []string{"T1"},
				Years:         []int{2024},
			})
		}
	}
	ds.Metadata = dataset.Summarize(ds, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	return ds
}

func newTestServer(opts ...api.Option) (http.Handler, *service.Service) {
	svc := service.New(
		service.WithDataset(fixture()),
		service.WithRandomSource(draw.NewSeededSource(11)),
		service.WithLogger(logger.Nop()),
	)
	So(svc.Start(context.Background()), ShouldBeNil)
	return api.NewServer(svc, opts...).Routes(), svc
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder, v any) {
	So(json.Unmarshal(w.Body.Bytes(), v), ShouldBeNil)
}

type recordingLogger struct {
	errors []string
}

func (l *recordingLogger) Info(context.Context, string, ...logger.Field)  {}
func (l *recordingLogger) Debug(context.Context, string, ...logger.Field) {}
func (l *recordingLogger) Warn(context.Context, string, ...logger.Field)  {}
func (l *recordingLogger) Fatal(context.Context, string, ...logger.Field) {}
func (l *recordingLogger) Named(string) logger.Logger                     { return l }
func (l *recordingLogger) Error(_ context.Context, msg string, _ ...logger.Field) {
	l.errors = append(l.errors, msg)
}

func TestServer_Health(t *testing.T) {
	Convey("Given a server whose service has no dataset", t, func() {
		svc := service.New(service.WithLogger(logger.Nop()))
		h := api.NewServer(svc).Routes()

		Convey("Then health reports unavailable", func() {
			w := do(h, "GET", "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("Then dataset reads answer 503", func() {
			w := do(h, "GET", "/metadata", "")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			var resp map[string]string
			decode(w, &resp)
			So(resp["code"], ShouldEqual, "unavailable")
		})

		Convey("Then draws answer 503", func() {
			So(do(h, "POST", "/collections/alice/draw", "").Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("Then server errors go to the server's logger", func() {
			rec := &recordingLogger{}
			logged := api.NewServer(svc, api.WithLogger(rec)).Routes()
			So(do(logged, "GET", "/metadata", "").Code, ShouldEqual, http.StatusServiceUnavailable)
			So(rec.errors, ShouldResemble, []string{"request failed"})
			So(do(logged, "GET", "/cards?limit=x", "").Code, ShouldEqual, http.StatusBadRequest)
			So(rec.errors, ShouldHaveLength, 1)
		})
	})

	Convey("Given a running server", t, func() {
		h, svc := newTestServer()
		defer svc.Stop()

		Convey("Then health reports the card count", func() {
			w := do(h, "GET", "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var resp struct {
				Status string `json:"status"`
				Cards  int    `json:"cards"`
			}
			decode(w, &resp)
			So(resp.Status, ShouldEqual, "ok")
			So(resp.Cards, ShouldEqual, 30)
		})

		Convey("Then a request id is echoed", func() {
			req := httptest.NewRequest("GET", "/healthz", http.NoBody)
			req.Header.Set("X-Request-ID", "req-42")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			So(w.Header().Get("X-Request-ID"), ShouldEqual, "req-42")
			So(do(h, "GET", "/healthz", "").Header().Get("X-Request-ID"), ShouldNotBeEmpty)
		})

		Convey("Then stats are served", func() {
			w := do(h, "GET", "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var stats map[string]any
			decode(w, &stats)
			So(stats["started"], ShouldEqual, true)
		})

		Convey("Then metrics are exposed", func() {
			_ = do(h, "GET", "/healthz", "")
			w := do(h, "GET", "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "gacha_worlds_http_requests_total")
		})

		Convey("Then the API reference is served", func() {
			So(do(h, "GET", "/openapi.yaml", "").Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestServer_Cards(t *testing.T) {
	Convey("Given a running server", t, func() {
		h, svc := newTestServer()
		defer svc.Stop()

		Convey("When listing cards by position and grade", func() {
			w := do(h, "GET", "/cards?position=mid&grade=epic", "")

			Convey("Then only matching cards are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var cards []model.Card
				decode(w, &cards)
				So(cards, ShouldHaveLength, 1)
				So(cards[0].ID, ShouldEqual, "mid-2-2024")
			})
		})

		Convey("When listing with a limit", func() {
			var cards []model.Card
			decode(do(h, "GET", "/cards?limit=3", ""), &cards)
			So(cards, ShouldHaveLength, 3)
		})

		Convey("When the query is malformed", func() {
			So(do(h, "GET", "/cards?position=CARRY", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(h, "GET", "/cards?grade=MYTHIC", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(h, "GET", "/cards?limit=0", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(h, "GET", "/careers?limit=x", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When fetching single items", func() {
			So(do(h, "GET", "/cards/top-0-2024", "").Code, ShouldEqual, http.StatusOK)
			So(do(h, "GET", "/cards/faker-2013", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(h, "GET", "/players/sup-1/cards", "").Code, ShouldEqual, http.StatusOK)
			So(do(h, "GET", "/players/faker/cards", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(h, "GET", "/careers/jgl-3", "").Code, ShouldEqual, http.StatusOK)
			So(do(h, "GET", "/careers/faker", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When fetching metadata and careers", func() {
			var md model.Metadata
			decode(do(h, "GET", "/metadata", ""), &md)
			So(md.TotalCards, ShouldEqual, 30)

			var careers []model.Career
			decode(do(h, "GET", "/careers?limit=2", ""), &careers)
			So(careers, ShouldHaveLength, 2)
		})
	})
}

func TestServer_Collections(t *testing.T) {
	Convey("Given a running server", t, func() {
		h, svc := newTestServer()
		defer svc.Stop()

		Convey("When a collector draws", func() {
			w := do(h, "POST", "/collections/alice/draw", "")

			Convey("Then five new cards are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var res service.DrawResult
				decode(w, &res)
				So(res.Cards, ShouldHaveLength, model.PositionCount)
				So(res.NewIDs, ShouldHaveLength, model.PositionCount)
				So(res.PullCount, ShouldEqual, 1)
			})

			Convey("Then the collection reflects it", func() {
				var view service.CollectionView
				decode(do(h, "GET", "/collections/alice", ""), &view)
				So(view.State.PullCount, ShouldEqual, 1)
				So(view.Stats.Collected, ShouldEqual, model.PositionCount)

				var owned []model.Card
				decode(do(h, "GET", "/collections/alice/cards", ""), &owned)
				So(owned, ShouldHaveLength, model.PositionCount)
			})

			Convey("Then challenges are reported", func() {
				var progress []collection.Progress
				decode(do(h, "GET", "/collections/alice/challenges", ""), &progress)
				So(progress, ShouldHaveLength, 8)
			})

			Convey("Then it can be reset once", func() {
				So(do(h, "DELETE", "/collections/alice", "").Code, ShouldEqual, http.StatusNoContent)
				So(do(h, "DELETE", "/collections/alice", "").Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the collector id is invalid", func() {
			So(do(h, "GET", "/collections/a%20b", "").Code, ShouldEqual, http.StatusBadRequest)
		})
	})

	Convey("Given a server with a tight rate limit", t, func() {
		h, svc := newTestServer(api.WithRateLimit(0.001, 2))
		defer svc.Stop()

		Convey("Then draws beyond the burst are rejected", func() {
			So(do(h, "POST", "/collections/bob/draw", "").Code, ShouldEqual, http.StatusOK)
			So(do(h, "POST", "/collections/bob/draw", "").Code, ShouldEqual, http.StatusOK)
			w := do(h, "POST", "/collections/bob/draw", "")
			So(w.Code, ShouldEqual, http.StatusTooManyRequests)

			Convey("And reads are not limited", func() {
				So(do(h, "GET", "/collections/bob", "").Code, ShouldEqual, http.StatusOK)
			})
		})
	})

	Convey("Given a server with rate limiting disabled", t, func() {
		h, svc := newTestServer(api.WithRateLimit(0, 0))
		defer svc.Stop()

		Convey("Then every draw goes through", func() {
			for i := 0; i < 5; i++ {
				So(do(h, "POST", "/collections/carol/draw", "").Code, ShouldEqual, http.StatusOK)
			}
		})
	})
}

func TestServer_Battle(t *testing.T) {
	Convey("Given a running server", t, func() {
		h, svc := newTestServer()
		defer svc.Stop()

		Convey("When battling without a body", func() {
			w := do(h, "POST", "/battle", "")

			Convey("Then both teams are drawn", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var res service.BattleResult
				decode(w, &res)
				So(res.TeamA, ShouldHaveLength, model.PositionCount)
				So(res.TeamB, ShouldHaveLength, model.PositionCount)
				So(res.Outcome.Rounds, ShouldHaveLength, model.PositionCount)
			})
		})

		Convey("When battling with a chosen team", func() {
			body := `{"team":["top-0-2024","jgl-0-2024","mid-0-2024","adc-0-2024","sup-0-2024"]}`
			w := do(h, "POST", "/battle", body)
			So(w.Code, ShouldEqual, http.StatusOK)
			var res service.BattleResult
			decode(w, &res)
			So(res.PowerA, ShouldEqual, 750)
		})

		Convey("When the body is invalid", func() {
			So(do(h, "POST", "/battle", `{"team":`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(h, "POST", "/battle", `{"team":["top-0-2024"]}`).Code, ShouldEqual, http.StatusBadRequest)
			dup := `{"team":["top-0-2024","top-0-2024","mid-0-2024","adc-0-2024","sup-0-2024"]}`
			So(do(h, "POST", "/battle", dup).Code, ShouldEqual, http.StatusBadRequest)
			unknown := `{"team":["top-0-2024","jgl-0-2024","mid-0-2024","adc-0-2024","faker-2013"]}`
			So(do(h, "POST", "/battle", unknown).Code, ShouldEqual, http.StatusBadRequest)
			twoTops := `{"team":["top-0-2024","top-1-2024","mid-0-2024","adc-0-2024","sup-0-2024"]}`
			So(do(h, "POST", "/battle", twoTops).Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

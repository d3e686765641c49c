package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/okian/gacha/internal/adapters/repository"
	service "github.com/okian/gacha/internal/app"
	"github.com/smartystreets/goconvey/convey"
)

func TestClassify(t *testing.T) {
	convey.Convey("Given API errors", t, func() {
		convey.Convey("Then kinds and domain sentinels map to statuses", func() {
			cases := []struct {
				err    error
				status int
			}{
				{NewKind("op", ErrBadRequest), http.StatusBadRequest},
				{NewKind("op", ErrRateLimited), http.StatusTooManyRequests},
				{Wrap("op", service.ErrUnknownCard), http.StatusNotFound},
				{Wrap("op", repository.ErrNotFound), http.StatusNotFound},
				{Wrap("op", repository.ErrInvalidCollector), http.StatusBadRequest},
				{Wrap("op", service.ErrNoDataset), http.StatusServiceUnavailable},
				{WrapKind("op", ErrBadRequest, service.ErrUnknownCard), http.StatusBadRequest},
				{Wrap("op", errors.New("disk on fire")), http.StatusInternalServerError},
			}
			for _, c := range cases {
				status, _ := classify(c.err)
				convey.So(status, convey.ShouldEqual, c.status)
			}
		})

		convey.Convey("Then messages carry op, kind and cause", func() {
			err := WrapKind("api.battle", ErrBadRequest, errors.New("boom"))
			convey.So(err.Error(), convey.ShouldEqual, "api.battle: bad request: boom")
			convey.So(NewKind("api.x", ErrNotFound).Error(), convey.ShouldEqual, "api.x: not found")
			convey.So(errors.Is(err, ErrBadRequest), convey.ShouldBeTrue)
		})
	})
}

package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/gacha/internal/adapters/repository"
	"github.com/okian/gacha/internal/config"
	"github.com/okian/gacha/internal/domain/collection"
	"github.com/okian/gacha/pkg/logger"
)

func TestOpenStore(t *testing.T) {
	convey.Convey("Given the default configuration", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)

		convey.Convey("Then a cached memory store is opened", func() {
			store, err := openStore(ctx, cfg, logger.Nop())
			convey.So(err, convey.ShouldBeNil)
			defer store.Close()
			_, cached := store.(*repository.CachedStore)
			convey.So(cached, convey.ShouldBeTrue)
		})

		convey.Convey("When the cache is disabled and sqlite selected", func() {
			cfg.CollectionCacheSize = 0
			cfg.StoreDriver = config.StoreSQLite
			cfg.SQLitePath = filepath.Join(t.TempDir(), "collections.db")

			store, err := openStore(ctx, cfg, logger.Nop())
			convey.So(err, convey.ShouldBeNil)
			defer store.Close()

			convey.Convey("Then the sqlite store is used directly", func() {
				_, ok := store.(*repository.SQLiteStore)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(store.Save(ctx, "alice", collection.State{PullCount: 1}), convey.ShouldBeNil)
			})
		})
	})
}

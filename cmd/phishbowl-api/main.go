// @title         Phishbowl API
// @version       0.1.0
// @description   Message analysis, curated examples and scan history

package main

import (
	"context"

	"phishbowl/internal/modkit"
	"phishbowl/internal/modkit/module"
	"phishbowl/internal/platform/config"
	"phishbowl/internal/platform/logger"
	phttp "phishbowl/internal/platform/net/http"
	"phishbowl/internal/platform/store"

	"phishbowl/internal/services/api"
	feedsmod "phishbowl/internal/services/feeds/module"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")      // pgCfg lives under SERVICE_PGSQL_*
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // chCfg lives under SERVICE_CLICKHOUSE_*
	// bring up logging early
	l := logger.Get()

	// open the platform store (postgres + optional CH adapter)
	chURL := chCfg.MayString("DBURL", "")
	st, err := store.Open(
		context.Background(),
		store.Config{
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
			CH: store.CHConfig{
				Enabled: chURL != "",
				URL:     chURL,
				Role:    "api",
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	opts := api.Options{
		Config:         apiCfg,
		Store:          st,
		Logger:         l,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", true),
	}

	// live denylist snapshot, refreshed in the background off the feeds tables
	if apiCfg.MayBool("DENYLIST_ENABLED", true) {
		fm := feedsmod.New(modkit.Deps{Cfg: root, PG: st.PG, Log: *l}, feedsmod.Options{})
		fports := module.MustPortsOf[feedsmod.Ports](fm)
		if err := fports.Lookup.Reload(context.Background()); err != nil {
			l.Warn().Err(err).Msg("initial denylist load failed; serving without it")
		} else {
			opts.Denylist = fports.Lookup.Contains
			go func() {
				if err := fports.Lookup.RunSnapshotReload(context.Background()); err != nil {
					l.Error().Err(err).Msg("denylist reload loop stopped")
				}
			}()
		}
	}

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	if err := api.Mount(srv.Router(), opts); err != nil {
		l.Panic().Err(err).Msg("api mount failed")
	}

	// run
	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"phishbowl/internal/modkit"
	"phishbowl/internal/modkit/module"
	"phishbowl/internal/platform/config"
	"phishbowl/internal/platform/logger"
	"phishbowl/internal/platform/store"

	feedsmod "phishbowl/internal/services/feeds/module"
)

func mustSetEnv(key, val string) {
	if val != "" {
		_ = os.Setenv(key, val)
	}
}

func main() {
	root := config.New()
	dbCfg := root.Prefix("SERVICE_PGSQL_")

	l := logger.Get()

	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         dbCfg.MustString("DBURL"),
			MaxConns:    int32(dbCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: dbCfg.MayInt("SLOW_MS", 500),
			LogSQL:      dbCfg.MayBool("LOG_SQL", false),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// Flags
	var (
		fMode     = flag.String("mode", "worker", "feeds mode: worker | once")
		fURL      = flag.String("url", "", "feed URL (overrides CORE_FEEDS_URL)")
		fInterval = flag.Duration("interval", 0, "refresh interval in worker mode (overrides CORE_FEEDS_INTERVAL)")
		fRetain   = flag.Int("retain-days", 0, "prune hosts unseen for this many days (overrides CORE_FEEDS_RETAIN_DAYS)")
	)
	flag.Parse()

	// Shared deps
	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		Log: *l,
	}

	// Export a few knobs as env so the module can read via FromConfig if desired
	mustSetEnv("CORE_FEEDS_URL", *fURL)
	if *fInterval > 0 {
		mustSetEnv("CORE_FEEDS_INTERVAL", fInterval.String())
	}
	if *fRetain > 0 {
		mustSetEnv("CORE_FEEDS_RETAIN_DAYS", fmt.Sprintf("%d", *fRetain))
	}

	fm := feedsmod.New(
		deps,
		feedsmod.Options{
			FeedURL:    *fURL,
			Interval:   *fInterval,
			RetainDays: *fRetain,
		},
	)

	module.Register(fm.Name(), fm.Ports())

	ports := module.MustPortsOf[feedsmod.Ports](fm)

	ctx := context.Background()

	switch *fMode {
	case "worker":
		// Run forever (until ctx cancel) refreshing on the interval
		if err := ports.Refresher.Run(ctx); err != nil {
			l.Fatal().Err(err).Msg("feeds worker failed")
		}

	case "once":
		// One refresh pass, then exit
		started := time.Now()
		stats, err := ports.Refresher.RefreshOnce(ctx)
		if err != nil {
			l.Fatal().Err(err).Msg("feeds refresh failed")
		}
		l.Info().
			Int("fetched", stats.Fetched).
			Int("hosts", stats.Hosts).
			Int("upserted", stats.Upserted).
			Int64("pruned", stats.Pruned).
			Bool("not_modified", stats.NotModified).
			Dur("took", time.Since(started)).
			Msg("feeds refresh complete")

	default:
		l.Panic().Str("mode", *fMode).Msg("feeds unknown -mode (expected: worker | once)")
	}
}

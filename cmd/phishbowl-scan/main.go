package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	"phishbowl/internal/modkit"
	"phishbowl/internal/modkit/module"
	"phishbowl/internal/platform/config"
	"phishbowl/internal/platform/logger"
	"phishbowl/internal/platform/store"

	feedsmod "phishbowl/internal/services/feeds/module"
	msgmod "phishbowl/internal/services/messages/module"
	scanmod "phishbowl/internal/services/scan/module"
	scansvc "phishbowl/internal/services/scan/service"
)

func mustSetEnv(k, v string) {
	if v != "" {
		_ = os.Setenv(k, v)
	}
}

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	l := logger.Get()

	chURL := chCfg.MayString("DBURL", "")
	st, err := store.Open(context.Background(), store.Config{
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
			Role:    "scan",
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

	var (
		startStr = flag.String("start", "", "inclusive hour, e.g. 2025-08-01T00")
		endStr   = flag.String("end", "", "exclusive hour, e.g. 2025-08-01T03")
		ver      = flag.Int("ver", 1, "scan version to stamp")
		workers  = flag.Int("workers", 2, "concurrency (>=1)")
		page     = flag.Int("page", 5000, "page size (rows)")
		dryRun   = flag.Bool("dry-run", false, "compute but do not write analyses")
		denylist = flag.Bool("denylist", true, "load the domain denylist from postgres")
	)
	flag.Parse()

	if *startStr == "" || *endStr == "" {
		log.Fatal("start/end are required (hour resolution)")
	}
	start, err := time.Parse("2006-01-02T15", *startStr)
	if err != nil {
		log.Fatalf("bad -start: %v", err)
	}
	end, err := time.Parse("2006-01-02T15", *endStr)
	if err != nil {
		log.Fatalf("bad -end: %v", err)
	}
	if !start.Before(end) {
		log.Fatal("start must be < end")
	}

	// Pass CLI flags into CORE_SCAN_* so the module can read its own config
	mustSetEnv("CORE_SCAN_VERSION", strconv.Itoa(*ver))
	mustSetEnv("CORE_SCAN_WORKERS", strconv.Itoa(*workers))
	mustSetEnv("CORE_SCAN_PAGE_SIZE", strconv.Itoa(*page))
	mustSetEnv("CORE_SCAN_DRY_RUN", map[bool]string{true: "1", false: "0"}[*dryRun])

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		Log: *l,
	}

	// Build dependency modules first
	msgs := msgmod.New(deps)
	msgPorts := module.MustPortsOf[msgmod.Ports](msgs)

	wired := scanmod.Deps{
		Messages: msgPorts.Reader,
		Marker:   msgPorts.Writer,
	}

	if *denylist {
		fm := feedsmod.New(deps, feedsmod.Options{})
		lookup := module.MustPortsOf[feedsmod.Ports](fm).Lookup
		if err := lookup.Reload(context.Background()); err != nil {
			l.Warn().Err(err).Msg("denylist load failed; scanning without it")
		} else {
			wired.Denylist = lookup.Contains
		}
	}

	if st.CH != nil {
		wired.Events = scansvc.NewCHEventSink(st.CH, "")
	}

	sm := scanmod.New(deps, wired, scanmod.Options{
		Version:  *ver,
		Workers:  *workers,
		PageSize: *page,
		DryRun:   *dryRun,
	})

	// Register ports
	module.Register(msgs.Name(), msgs.Ports())
	module.Register(sm.Name(), sm.Ports())

	// Kick the runner
	ports := sm.Ports().(scanmod.Ports)
	if err := ports.Runner.RunRange(context.Background(), start.UTC(), end.UTC()); err != nil {
		l.Fatal().Err(err).Msg("scan failed")
	}
}

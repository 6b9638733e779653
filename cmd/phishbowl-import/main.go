package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"time"

	"github.com/google/uuid"

	"phishbowl/internal/adapters/ingest/exportfile"
	"phishbowl/internal/modkit"
	"phishbowl/internal/modkit/module"
	"phishbowl/internal/platform/config"
	"phishbowl/internal/platform/logger"
	"phishbowl/internal/platform/store"

	msgdom "phishbowl/internal/services/messages/domain"
	msgmod "phishbowl/internal/services/messages/module"
)

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")

	l := logger.Get()
	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", true),
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
		fFile  = flag.String("file", "", "JSONL export to import (plain or gzip)")
		fBatch = flag.Int("batch", 500, "rows per insert batch")
	)
	flag.Parse()

	if *fFile == "" {
		l.Panic().Msg("-file is required")
	}
	if *fBatch < 1 {
		*fBatch = 1
	}

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		Log: *l,
	}

	msgs := msgmod.New(deps)
	module.Register(msgs.Name(), msgs.Ports())
	writer := module.MustPortsOf[msgmod.Ports](msgs).Writer

	rd, err := exportfile.Open(*fFile)
	if err != nil {
		l.Panic().Err(err).Str("file", *fFile).Msg("open export failed")
	}
	defer func() { _ = rd.Close() }()

	ctx := context.Background()
	started := time.Now()
	runID := uuid.NewString()

	var (
		batch    []msgdom.WriteInput
		inserted int
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := writer.InsertBatch(ctx, batch)
		if err != nil {
			return err
		}
		inserted += n
		batch = batch[:0]
		return nil
	}

	for {
		m, err := rd.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			l.Fatal().Err(err).Msg("read export failed")
		}
		batch = append(batch, msgdom.WriteInput{
			CreatedAt: m.CreatedAt,
			Sender:    m.Sender,
			Subject:   m.Subject,
			Body:      m.Body,
		})
		if len(batch) >= *fBatch {
			if err := flush(); err != nil {
				l.Fatal().Err(err).Msg("insert batch failed")
			}
		}
	}
	if err := flush(); err != nil {
		l.Fatal().Err(err).Msg("insert batch failed")
	}

	read, skipped := rd.Stats()
	l.Info().
		Str("run_id", runID).
		Int("read", read).
		Int("skipped", skipped).
		Int("inserted", inserted).
		Int("duplicates", read-inserted).
		Dur("took", time.Since(started)).
		Msg("import complete")
}

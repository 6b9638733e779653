package service

import (
	"context"

	"phishbowl/internal/modkit/repokit"
	"phishbowl/internal/platform/store"
	dom "phishbowl/internal/services/scan/domain"
	"phishbowl/internal/services/scan/repo"
)

// PGWriter persists analysis rows through the store seam
type PGWriter struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
}

// NewPGWriter constructs the analyses writer
func NewPGWriter(db repokit.TxRunner, b repokit.Binder[repo.Storage]) *PGWriter {
	return &PGWriter{db: db, binder: b}
}

// WriteBatch implements domain.WriterPort
func (w *PGWriter) WriteBatch(ctx context.Context, xs []dom.AnalysisWrite) error {
	if len(xs) == 0 {
		return nil
	}
	return w.db.Tx(ctx, func(q repokit.Queryer) error {
		return w.binder.Bind(q).WriteBatch(ctx, xs)
	})
}

// CHEventSink appends flat analysis events to ClickHouse for offline
// analytics. Insert order matches the analysis_events column order
type CHEventSink struct {
	ch    store.Clickhouse
	table string
}

// NewCHEventSink constructs the sink; table defaults to
// phishbowl.analysis_events
func NewCHEventSink(ch store.Clickhouse, table string) *CHEventSink {
	if table == "" {
		table = "phishbowl.analysis_events"
	}
	return &CHEventSink{ch: ch, table: table}
}

// AppendEvents implements domain.EventSink
func (s *CHEventSink) AppendEvents(ctx context.Context, xs []dom.AnalysisWrite) error {
	if s == nil || s.ch == nil || len(xs) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(xs))
	for _, a := range xs {
		rows = append(rows, []any{
			a.MessageID, a.CreatedAt, a.Digest, a.Score, a.Tier, a.RawSum,
			uint32(a.ThreatHits), uint32(a.AuthHits), uint32(a.FinHits), uint32(a.ImpersHits),
			uint32(a.ContextHits), uint32(a.StatHits), uint32(a.URLCount),
			a.LangCode, uint32(a.ScanVersion), a.RunID,
		})
	}
	return s.ch.Insert(ctx, s.table, rows)
}

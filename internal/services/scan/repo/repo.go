// Package repo provides the analyses repository implementation
package repo

import (
	"context"
	"fmt"
	"strings"

	"phishbowl/internal/modkit/repokit"
	"phishbowl/internal/services/scan/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the analyses repository
type Storage interface {
	WriteBatch(ctx context.Context, xs []domain.AnalysisWrite) error
}

// WriteBatch implements Storage
func (s *pg) WriteBatch(ctx context.Context, xs []domain.AnalysisWrite) error {
	if len(xs) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO analyses
		(message_id, created_at, digest, excerpt, score, tier, raw_sum,
		threat_hits, auth_hits, financial_hits, impersonation_hits,
		context_hits, statistic_hits, url_count, lang_code, scan_version, run_id) VALUES `)

	args := make([]any, 0, len(xs)*17)
	for i, a := range xs {
		if i > 0 {
			sb.WriteByte(',')
		}
		base := i*17 + 1
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base, base+1, base+2, base+3, base+4, base+5, base+6, base+7,
			base+8, base+9, base+10, base+11, base+12, base+13, base+14, base+15, base+16)

		args = append(args,
			a.MessageID, a.CreatedAt, a.Digest, a.Excerpt, a.Score, a.Tier, a.RawSum,
			a.ThreatHits, a.AuthHits, a.FinHits, a.ImpersHits,
			a.ContextHits, a.StatHits, a.URLCount, a.LangCode, a.ScanVersion, a.RunID,
		)
	}
	// Idempotent for same scan_version so reruns are safe
	sb.WriteString(` ON CONFLICT (message_id, scan_version) DO NOTHING`)
	_, err := s.q.Exec(ctx, sb.String(), args...)
	return err
}

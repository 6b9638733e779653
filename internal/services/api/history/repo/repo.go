// Package repo provides postgres access for analysis history
package repo

import (
	"context"
	"time"

	"phishbowl/internal/modkit/repokit"
	"phishbowl/internal/services/api/history/domain"
)

// Repo is the minimal persistence surface for history
type Repo interface {
	Insert(ctx context.Context, in domain.RecordInput) error
	Recent(ctx context.Context, limit int) ([]RowSummary, error)
	TierStats(ctx context.Context, since time.Time) (total int64, avg float64, tiers map[string]int64, err error)
	CategoryStats(ctx context.Context, since time.Time) ([]RowCategory, error)
	Purge(ctx context.Context, before time.Time) (int64, error)
}

// RowSummary is one stored summary row
type RowSummary struct {
	ID        string
	CreatedAt time.Time
	Digest    string
	Excerpt   string
	Score     float64
	Tier      string
	URLCount  int
	Hits      int
	LangCode  string
}

// RowCategory is one category aggregate row
type RowCategory struct {
	Category string
	Hits     int64
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) Insert(ctx context.Context, in domain.RecordInput) error {
	const sql = `
insert into analysis_history
(digest, excerpt, score, tier, raw_sum,
 threat_hits, auth_hits, financial_hits, impersonation_hits,
 context_hits, statistic_hits, url_count, lang_code)
values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
`
	_, err := r.q.Exec(ctx, sql,
		in.Digest, in.Excerpt, in.Score, in.Tier, in.RawSum,
		in.ThreatHits, in.AuthHits, in.FinHits, in.ImpersHits,
		in.ContextHits, in.StatHits, in.URLCount, in.LangCode,
	)
	return err
}

func (r *queries) Recent(ctx context.Context, limit int) ([]RowSummary, error) {
	const sql = `
select id::text, created_at, digest, excerpt, score, tier, url_count,
threat_hits + auth_hits + financial_hits + impersonation_hits + context_hits + statistic_hits as hits,
coalesce(lang_code, '')
from analysis_history
order by created_at desc, id desc
limit $1
`
	rows, err := r.q.Query(ctx, sql, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RowSummary
	for rows.Next() {
		var rr RowSummary
		if err := rows.Scan(
			&rr.ID, &rr.CreatedAt, &rr.Digest, &rr.Excerpt,
			&rr.Score, &rr.Tier, &rr.URLCount, &rr.Hits, &rr.LangCode,
		); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

func (r *queries) TierStats(ctx context.Context, since time.Time) (int64, float64, map[string]int64, error) {
	const sql = `
select tier, count(1), coalesce(avg(score), 0)
from analysis_history
where created_at >= $1
group by tier
`
	rows, err := r.q.Query(ctx, sql, since)
	if err != nil {
		return 0, 0, nil, err
	}
	defer rows.Close()

	tiers := map[string]int64{}
	var total int64
	var weighted float64
	for rows.Next() {
		var tier string
		var n int64
		var avg float64
		if err := rows.Scan(&tier, &n, &avg); err != nil {
			return 0, 0, nil, err
		}
		tiers[tier] = n
		total += n
		weighted += avg * float64(n)
	}
	if err := rows.Err(); err != nil {
		return 0, 0, nil, err
	}
	var avg float64
	if total > 0 {
		avg = weighted / float64(total)
	}
	return total, avg, tiers, nil
}

func (r *queries) CategoryStats(ctx context.Context, since time.Time) ([]RowCategory, error) {
	const sql = `
select category, hits from (
	select 'threat' as category, sum(threat_hits) as hits from analysis_history where created_at >= $1
	union all
	select 'authentication', sum(auth_hits) from analysis_history where created_at >= $1
	union all
	select 'financial', sum(financial_hits) from analysis_history where created_at >= $1
	union all
	select 'impersonation', sum(impersonation_hits) from analysis_history where created_at >= $1
	union all
	select 'context', sum(context_hits) from analysis_history where created_at >= $1
	union all
	select 'statistic', sum(statistic_hits) from analysis_history where created_at >= $1
) t
where hits > 0
order by hits desc, category asc
`
	rows, err := r.q.Query(ctx, sql, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RowCategory
	for rows.Next() {
		var rr RowCategory
		if err := rows.Scan(&rr.Category, &rr.Hits); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

func (r *queries) Purge(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `delete from analysis_history where created_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

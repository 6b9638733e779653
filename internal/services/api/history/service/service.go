// Package service contains history workflows
package service

import (
	"context"
	"math"
	"time"

	"phishbowl/internal/modkit/repokit"
	perr "phishbowl/internal/platform/errors"
	"phishbowl/internal/services/api/history/domain"
	"phishbowl/internal/services/api/history/repo"
)

// Service defines the history service contract
type Service interface {
	domain.ServicePort
	domain.RecorderPort
}

// Svc implements the history service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
}

// New constructs a history service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo]) *Svc {
	if db == nil {
		panic("history.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("history.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db}
}

// Record stores one analysis summary
func (s *Svc) Record(ctx context.Context, in domain.RecordInput) error {
	if in.Digest == "" {
		return perr.InvalidArgf("history record requires a digest")
	}
	return s.Repo.Insert(ctx, in)
}

// Recent returns the latest analysis summaries, newest first
func (s *Svc) Recent(ctx context.Context, limit int) ([]domain.SummaryRow, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	rows, err := s.Repo.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.SummaryRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.SummaryRow{
			ID:        r.ID,
			CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
			Digest:    r.Digest,
			Excerpt:   r.Excerpt,
			Score:     r.Score,
			Tier:      r.Tier,
			URLCount:  r.URLCount,
			Hits:      r.Hits,
			LangCode:  r.LangCode,
		})
	}
	return out, nil
}

// Stats aggregates tier counts, the average score and the top
// contributing categories over the last N days
func (s *Svc) Stats(ctx context.Context, days int) (domain.StatsOut, error) {
	if days <= 0 {
		days = 7
	}
	if days > 90 {
		days = 90
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	total, avg, tiers, err := s.Repo.TierStats(ctx, since)
	if err != nil {
		return domain.StatsOut{}, err
	}
	cats, err := s.Repo.CategoryStats(ctx, since)
	if err != nil {
		return domain.StatsOut{}, err
	}

	out := domain.StatsOut{
		Days:     days,
		Total:    total,
		AvgScore: math.Round(avg*10) / 10,
		Tiers:    tiers,
	}
	for _, c := range cats {
		out.TopCategories = append(out.TopCategories, domain.CategoryCount{
			Category: c.Category, Hits: c.Hits,
		})
	}
	return out, nil
}

// Purge removes summaries older than the cutoff
func (s *Svc) Purge(ctx context.Context, before time.Time) (domain.PurgeOut, error) {
	if before.IsZero() {
		return domain.PurgeOut{}, perr.InvalidArgf("purge requires a cutoff time")
	}
	n, err := s.Repo.Purge(ctx, before)
	if err != nil {
		return domain.PurgeOut{}, err
	}
	return domain.PurgeOut{Deleted: n, Before: before.UTC()}, nil
}

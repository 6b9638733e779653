// Package service contains the denylist feed workflows: a refresher
// that reconciles deny_domains against the upstream feed, and a
// snapshot lookup the analyzer consults with zero I/O
package service

import (
	"context"
	"math/rand"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/net/idna"

	"phishbowl/internal/adapters/ingest/feedpull"
	"phishbowl/internal/modkit/repokit"
	"phishbowl/internal/platform/logger"
	"phishbowl/internal/services/feeds/domain"
	"phishbowl/internal/services/feeds/repo"
)

// Config for the feeds service
type Config struct {
	FeedURL        string
	Interval       time.Duration // refresh cadence; <=0 means 1h
	Jitter         time.Duration // random startup/loop jitter bound
	RetainDays     int           // prune entries not seen for N days; <=0 means 7
	ReloadInterval time.Duration // snapshot reload cadence; <=0 means 5m
}

// Service implements domain.RefresherPort and domain.LookupPort
type Service struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
	client *feedpull.Client
	cfg    Config
	log    logger.Logger

	etag     string
	snapshot atomic.Pointer[map[string]struct{}]
}

// New constructs the feeds service
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage], client *feedpull.Client, cfg Config) *Service {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.RetainDays <= 0 {
		cfg.RetainDays = 7
	}
	if cfg.ReloadInterval <= 0 {
		cfg.ReloadInterval = 5 * time.Minute
	}
	s := &Service{
		db:     db,
		binder: b,
		client: client,
		cfg:    cfg,
		log:    *logger.Named("feeds"),
	}
	empty := map[string]struct{}{}
	s.snapshot.Store(&empty)
	return s
}

// RefreshOnce implements domain.RefresherPort
func (s *Service) RefreshOnce(ctx context.Context) (domain.RefreshStats, error) {
	res, err := s.client.Fetch(ctx, s.cfg.FeedURL, s.etag)
	if err != nil {
		return domain.RefreshStats{}, err
	}
	if res.NotModified {
		return domain.RefreshStats{NotModified: true}, nil
	}
	s.etag = res.ETag

	hosts := normalizeHosts(res.Lines)
	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, -s.cfg.RetainDays)

	stats := domain.RefreshStats{Fetched: len(res.Lines), Hosts: len(hosts)}
	err = s.db.Tx(ctx, func(q repokit.Queryer) error {
		st := s.binder.Bind(q)
		n, err := st.UpsertHosts(ctx, hosts, now)
		if err != nil {
			return err
		}
		stats.Upserted = n
		pruned, err := st.Prune(ctx, cutoff)
		if err != nil {
			return err
		}
		stats.Pruned = pruned
		return nil
	})
	if err != nil {
		return domain.RefreshStats{}, err
	}

	// Fresh data just landed; refresh the lookup side too
	if err := s.Reload(ctx); err != nil {
		return stats, err
	}
	return stats, nil
}

// Run implements domain.RefresherPort
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Jitter > 0 {
		d := time.Duration(rand.Int63n(int64(s.cfg.Jitter)))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
		}
	}

	t := time.NewTicker(s.cfg.Interval)
	defer t.Stop()

	for {
		stats, err := s.RefreshOnce(ctx)
		if err != nil {
			// Transient feed trouble should not kill the loop
			s.log.Error().Err(err).Msg("feed refresh failed")
		} else if !stats.NotModified {
			s.log.Info().
				Int("hosts", stats.Hosts).
				Int("upserted", stats.Upserted).
				Int64("pruned", stats.Pruned).
				Msg("denylist refreshed")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

// Contains implements domain.LookupPort. Signature matches
// urlscan.Lookup so it can be passed to the analyzer directly
func (s *Service) Contains(host string) bool {
	m := s.snapshot.Load()
	if m == nil {
		return false
	}
	_, ok := (*m)[strings.ToLower(host)]
	return ok
}

// Reload implements domain.LookupPort
func (s *Service) Reload(ctx context.Context) error {
	var hosts []string
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		hosts, err = s.binder.Bind(q).AllHosts(ctx)
		return err
	})
	if err != nil {
		return err
	}
	m := make(map[string]struct{}, len(hosts))
	for _, h := range hosts {
		m[h] = struct{}{}
	}
	s.snapshot.Store(&m)
	return nil
}

// RunSnapshotReload keeps the lookup snapshot fresh for long-lived
// consumers that never call RefreshOnce themselves (the API server)
func (s *Service) RunSnapshotReload(ctx context.Context) error {
	t := time.NewTicker(s.cfg.ReloadInterval)
	defer t.Stop()
	for {
		if err := s.Reload(ctx); err != nil {
			s.log.Error().Err(err).Msg("denylist snapshot reload failed")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

// normalizeHosts maps feed lines (URLs or bare domains) onto lowercase
// ASCII hosts, dropping ports, paths and anything that fails IDNA
func normalizeHosts(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		h := hostOf(line)
		if h == "" {
			continue
		}
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	return out
}

func hostOf(line string) string {
	line = strings.TrimSpace(strings.ToLower(line))
	if line == "" {
		return ""
	}
	if strings.Contains(line, "://") {
		u, err := url.Parse(line)
		if err != nil || u.Hostname() == "" {
			return ""
		}
		line = u.Hostname()
	} else {
		// Bare domain, possibly with a path or port glued on
		if i := strings.IndexAny(line, "/?"); i >= 0 {
			line = line[:i]
		}
		if i := strings.LastIndex(line, ":"); i >= 0 && !strings.Contains(line, "]") {
			line = line[:i]
		}
	}
	line = strings.TrimSuffix(line, ".")
	if line == "" || !strings.Contains(line, ".") {
		return ""
	}
	mapped, err := idna.Lookup.ToASCII(line)
	if err != nil || mapped == "" {
		return ""
	}
	return mapped
}

// Package repo provides postgres access for the denylist feeds
package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"phishbowl/internal/modkit/repokit"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the deny_domains repository
type Storage interface {
	UpsertHosts(ctx context.Context, hosts []string, seenAt time.Time) (int, error)
	Prune(ctx context.Context, notSeenSince time.Time) (int64, error)
	AllHosts(ctx context.Context) ([]string, error)
}

// UpsertHosts inserts new hosts and bumps last_seen on known ones
func (s *pg) UpsertHosts(ctx context.Context, hosts []string, seenAt time.Time) (int, error) {
	if len(hosts) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO deny_domains (host, first_seen, last_seen) VALUES `)

	args := make([]any, 0, len(hosts)*2+1)
	args = append(args, seenAt)
	for i, h := range hosts {
		if i > 0 {
			sb.WriteByte(',')
		}
		args = append(args, h)
		fmt.Fprintf(&sb, "($%d,$1,$1)", len(args))
	}
	sb.WriteString(` ON CONFLICT (host) DO UPDATE SET last_seen = EXCLUDED.last_seen`)

	tag, err := s.q.Exec(ctx, sb.String(), args...)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// Prune removes hosts the feed has stopped listing
func (s *pg) Prune(ctx context.Context, notSeenSince time.Time) (int64, error) {
	tag, err := s.q.Exec(ctx, `DELETE FROM deny_domains WHERE last_seen < $1`, notSeenSince)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// AllHosts returns every denylisted host for the in-memory snapshot
func (s *pg) AllHosts(ctx context.Context) ([]string, error) {
	rows, err := s.q.Query(ctx, `SELECT host FROM deny_domains`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

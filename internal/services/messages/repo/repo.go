// Package repo provides repository implementations for stored messages
package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"phishbowl/internal/modkit/repokit"
	"phishbowl/internal/services/messages/domain"
)

type binder struct{}

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the messages repository
type Storage interface {
	List(ctx context.Context, in domain.ListInput, hardLimit int) ([]domain.Row, domain.AfterKey, error)
	InsertBatch(ctx context.Context, xs []domain.WriteInput) (int, error)
	MarkScanned(ctx context.Context, ids []string, version int, at time.Time) error
}

type pg struct{ q repokit.Queryer }

// List implements Storage
func (s *pg) List(ctx context.Context, in domain.ListInput, hardLimit int) ([]domain.Row, domain.AfterKey, error) {
	// Dynamic WHERE with numbered args
	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	sb.WriteString(`
		SELECT
			m.id::text,
			m.created_at,
			m.sender,
			m.subject,
			m.body,
			m.digest,
			m.scan_version
		FROM messages m
		WHERE m.created_at >= ` + arg(in.Since) + ` AND m.created_at < ` + arg(in.Until) + `
	`)

	// Keyset only when AfterKey is set (avoid ""::uuid on first page)
	if in.After.ID != "" {
		sb.WriteString("  AND (m.created_at, m.id) > (" + arg(in.After.CreatedAt) + ", " + arg(in.After.ID) + "::uuid)\n")
	}
	if in.UnscannedBelow > 0 {
		sb.WriteString("  AND m.scan_version < " + arg(in.UnscannedBelow) + "\n")
	}

	sb.WriteString("ORDER BY m.created_at, m.id\nLIMIT " + arg(hardLimit))

	rows, err := s.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, domain.AfterKey{}, err
	}
	defer rows.Close()

	out := make([]domain.Row, 0, hardLimit)
	var last domain.AfterKey
	for rows.Next() {
		var r domain.Row
		if err := rows.Scan(
			&r.ID, &r.CreatedAt, &r.Sender, &r.Subject, &r.Body, &r.Digest, &r.ScanVersion,
		); err != nil {
			return nil, domain.AfterKey{}, err
		}
		out = append(out, r)
		last = domain.AfterKey{CreatedAt: r.CreatedAt, ID: r.ID}
	}
	return out, last, rows.Err()
}

// InsertBatch implements Storage
func (s *pg) InsertBatch(ctx context.Context, xs []domain.WriteInput) (int, error) {
	if len(xs) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO messages (created_at, sender, subject, body, digest) VALUES `)

	args := make([]any, 0, len(xs)*5)
	for i, m := range xs {
		if i > 0 {
			sb.WriteByte(',')
		}
		base := i*5 + 1
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d)", base, base+1, base+2, base+3, base+4)
		args = append(args, m.CreatedAt, m.Sender, m.Subject, m.Body, m.Digest)
	}
	// Idempotent on content digest so re-imports are safe
	sb.WriteString(` ON CONFLICT (digest) DO NOTHING`)

	tag, err := s.q.Exec(ctx, sb.String(), args...)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// MarkScanned implements Storage
func (s *pg) MarkScanned(ctx context.Context, ids []string, version int, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	const sql = `
UPDATE messages
SET scan_version = $1, scanned_at = $2
WHERE id = ANY($3::uuid[]) AND scan_version < $1
`
	_, err := s.q.Exec(ctx, sql, version, at, ids)
	return err
}

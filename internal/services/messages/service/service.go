// Package service provides the messages service implementation
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"phishbowl/internal/modkit/repokit"
	"phishbowl/internal/services/messages/domain"
	"phishbowl/internal/services/messages/repo"
)

// Config for the messages service
type Config struct {
	// HardLimit is the maximum allowed limit per List call; defaults to 5000 if <=0
	HardLimit int
}

// Service implements domain.ReaderPort and domain.WriterPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]
	Cfg    Config
}

// New constructs a new messages service
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage], cfg Config) *Service {
	if cfg.HardLimit <= 0 {
		cfg.HardLimit = 5000
	}
	return &Service{DB: db, Binder: b, Cfg: cfg}
}

// List implements domain.ReaderPort
func (s *Service) List(ctx context.Context, in domain.ListInput) ([]domain.Row, domain.AfterKey, error) {
	limit := in.Limit
	if limit <= 0 || limit > s.Cfg.HardLimit {
		limit = s.Cfg.HardLimit
	}

	var rows []domain.Row
	var next domain.AfterKey
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		rows, next, err = s.Binder.Bind(q).List(ctx, in, limit)
		return err
	})
	if err != nil {
		return nil, domain.AfterKey{}, err
	}
	return rows, next, nil
}

// InsertBatch implements domain.WriterPort. Rows with empty bodies are
// dropped; missing digests are computed here so every stored message
// carries one
func (s *Service) InsertBatch(ctx context.Context, xs []domain.WriteInput) (int, error) {
	clean := make([]domain.WriteInput, 0, len(xs))
	seen := make(map[string]struct{}, len(xs))
	for _, m := range xs {
		if strings.TrimSpace(m.Body) == "" {
			continue
		}
		if m.Digest == "" {
			m.Digest = Digest(m.Body)
		}
		// Dedupe within the batch; ON CONFLICT handles cross-batch dupes
		if _, dup := seen[m.Digest]; dup {
			continue
		}
		seen[m.Digest] = struct{}{}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now().UTC()
		}
		clean = append(clean, m)
	}
	if len(clean) == 0 {
		return 0, nil
	}

	var n int
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		n, err = s.Binder.Bind(q).InsertBatch(ctx, clean)
		return err
	})
	return n, err
}

// MarkScanned implements domain.WriterPort
func (s *Service) MarkScanned(ctx context.Context, ids []string, version int, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return s.Binder.Bind(q).MarkScanned(ctx, ids, version, at)
	})
}

// Digest returns the sha256 hex digest of a message body
func Digest(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}

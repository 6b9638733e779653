// Package service implements the scan service: it pages stored
// messages out of Postgres, runs the analysis pipeline over them with a
// bounded worker pool, and persists the outcomes
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"phishbowl/internal/core/analyzer"
	"phishbowl/internal/core/feature"
	str "phishbowl/internal/platform/strings"
	msgdom "phishbowl/internal/services/messages/domain"
	msgsvc "phishbowl/internal/services/messages/service"
	dom "phishbowl/internal/services/scan/domain"
)

// Config for the scan service
type Config struct {
	Version       int // scan_version stamped into analyses
	Workers       int
	PageSize      int
	MaxRangeHours int // 0 = unlimited
	ExcerptRunes  int
	DryRun        bool
}

// Service implements domain.RunnerPort
type Service struct {
	Msgs   msgdom.ReaderPort
	Marker msgdom.WriterPort
	Writer dom.WriterPort
	Events dom.EventSink // nil disables the analytics double-write
	An     *analyzer.Analyzer
	Cfg    Config
}

// New constructs a new scan service
func New(msgs msgdom.ReaderPort, marker msgdom.WriterPort, w dom.WriterPort, ev dom.EventSink,
	an *analyzer.Analyzer, cfg Config,
) *Service {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 5000
	}
	if cfg.ExcerptRunes <= 0 {
		cfg.ExcerptRunes = 140
	}
	if cfg.Version <= 0 {
		cfg.Version = 1
	}
	return &Service{Msgs: msgs, Marker: marker, Writer: w, Events: ev, An: an, Cfg: cfg}
}

// RunRange analyzes messages in the given time range and persists one
// analysis row per message, idempotent on (message_id, scan_version)
func (s *Service) RunRange(ctx context.Context, start, end time.Time) error {
	start = start.Truncate(time.Hour).UTC()
	end = end.Truncate(time.Hour).UTC()
	if end.Before(start) {
		return errors.New("end before start")
	}
	if s.Cfg.MaxRangeHours > 0 && int(end.Sub(start).Hours()) > s.Cfg.MaxRangeHours {
		return errors.New("range exceeds MaxRangeHours")
	}

	runID := uuid.NewString()

	after := msgdom.AfterKey{}
	for {
		rows, next, err := s.Msgs.List(ctx, msgdom.ListInput{
			Since: start, Until: end,
			After: after, Limit: s.Cfg.PageSize,
			UnscannedBelow: s.Cfg.Version,
		})
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		out := make([]dom.AnalysisWrite, len(rows))

		sem := make(chan struct{}, s.Cfg.Workers)
		wg := sync.WaitGroup{}

		for i := range rows {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int) {
				defer func() { <-sem; wg.Done() }()
				m := rows[i]
				out[i] = s.analyzeOne(m, runID)
			}(i)
		}
		wg.Wait()

		if !s.Cfg.DryRun {
			flat := make([]dom.AnalysisWrite, 0, len(out))
			ids := make([]string, 0, len(out))
			for i := range out {
				if out[i].MessageID == "" {
					continue
				}
				flat = append(flat, out[i])
				ids = append(ids, out[i].MessageID)
			}
			if len(flat) > 0 {
				if err := s.Writer.WriteBatch(ctx, flat); err != nil {
					return err
				}
				if s.Events != nil {
					if err := s.Events.AppendEvents(ctx, flat); err != nil {
						return err
					}
				}
				if err := s.Marker.MarkScanned(ctx, ids, s.Cfg.Version, time.Now().UTC()); err != nil {
					return err
				}
			}
		}

		after = next
	}
}

// analyzeOne runs the pipeline over a single stored message
func (s *Service) analyzeOne(m msgdom.Row, runID string) dom.AnalysisWrite {
	rep := s.An.Analyze(m.Body)

	counts := map[feature.Category]int{}
	for _, h := range rep.Hits {
		counts[h.Category]++
	}

	digest := m.Digest
	if digest == "" {
		digest = msgsvc.Digest(m.Body)
	}

	lang := ""
	if rep.Lang != nil {
		lang = rep.Lang.Lang
	}

	return dom.AnalysisWrite{
		MessageID:   m.ID,
		CreatedAt:   m.CreatedAt,
		Digest:      digest,
		Excerpt:     str.Excerpt(m.Body, s.Cfg.ExcerptRunes),
		Score:       rep.Score,
		Tier:        string(rep.Tier),
		RawSum:      rep.Breakdown.RawSum,
		ThreatHits:  counts[feature.Threat],
		AuthHits:    counts[feature.Authentication],
		FinHits:     counts[feature.Financial],
		ImpersHits:  counts[feature.Impersonation],
		ContextHits: counts[feature.Context],
		StatHits:    counts[feature.Statistic],
		URLCount:    len(rep.URLs),
		LangCode:    lang,
		ScanVersion: s.Cfg.Version,
		RunID:       runID,
	}
}

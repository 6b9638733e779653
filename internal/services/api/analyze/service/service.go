// Package service contains the analyze workflow: run the pipeline,
// record a history summary, return the report
package service

import (
	"context"

	"phishbowl/internal/core/analyzer"
	"phishbowl/internal/core/feature"
	perr "phishbowl/internal/platform/errors"
	"phishbowl/internal/platform/logger"
	str "phishbowl/internal/platform/strings"
	"phishbowl/internal/services/api/analyze/domain"
	historydom "phishbowl/internal/services/api/history/domain"
	msgsvc "phishbowl/internal/services/messages/service"
)

// Options for the analyze service
type Options struct {
	// MaxBytes rejects oversized bodies at the boundary; <=0 means 64 KiB
	MaxBytes int
	// ExcerptRunes bounds the recorded excerpt; <=0 means 140
	ExcerptRunes int
}

// Service defines the analyze service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the analyze service
type Svc struct {
	an       *analyzer.Analyzer
	recorder historydom.RecorderPort // nil disables history recording
	opts     Options
	log      logger.Logger
}

// New constructs an analyze service
func New(an *analyzer.Analyzer, recorder historydom.RecorderPort, opts Options) *Svc {
	if an == nil {
		panic("analyze.Service requires a non nil Analyzer")
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 64 * 1024
	}
	if opts.ExcerptRunes <= 0 {
		opts.ExcerptRunes = 140
	}
	return &Svc{an: an, recorder: recorder, opts: opts, log: *logger.Named("analyze")}
}

// Analyze runs the pipeline over one message. The pipeline itself is
// total; only boundary policy (missing or oversized body) rejects
func (s *Svc) Analyze(ctx context.Context, in domain.AnalyzeInput) (domain.AnalyzeOut, error) {
	if in.Message == "" {
		return domain.AnalyzeOut{}, perr.InvalidArgf("message is required")
	}
	if len(in.Message) > s.opts.MaxBytes {
		return domain.AnalyzeOut{}, perr.InvalidArgf("message exceeds %d bytes", s.opts.MaxBytes)
	}

	rep := s.an.Analyze(in.Message)
	digest := msgsvc.Digest(in.Message)

	if s.recorder != nil {
		counts := map[feature.Category]int{}
		for _, h := range rep.Hits {
			counts[h.Category]++
		}
		lang := ""
		if rep.Lang != nil {
			lang = rep.Lang.Lang
		}
		rec := historydom.RecordInput{
			Digest:      digest,
			Excerpt:     str.Excerpt(in.Message, s.opts.ExcerptRunes),
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
		}
		// History is telemetry; a write failure must not fail the analysis
		if err := s.recorder.Record(ctx, rec); err != nil {
			s.log.Error().Err(err).Msg("history record failed")
		}
	}

	return domain.AnalyzeOut{Report: rep, Digest: digest}, nil
}

// Examples returns the curated demonstration messages with their
// expected tiers
func (s *Svc) Examples() []domain.Example {
	out := make([]domain.Example, len(examples))
	copy(out, examples)
	return out
}

var examples = []domain.Example{
	{
		Title: "Banking Phishing",
		Text: "URGENT: Your bank account has been SUSPENDED due to suspicious activity. " +
			"Click http://bit.ly/secure-bank-login to VERIFY your identity immediately " +
			"or your account will be TERMINATED within 24 hours!",
		Type:         "phishing",
		ExpectedTier: "high",
	},
	{
		Title: "PayPal Impersonation",
		Text: "IMPORTANT SECURITY ALERT: Unusual login detected on your PayPal account from new device. " +
			"Confirm your credentials NOW: https://paypal-secure-verify.xyz/login to prevent account " +
			"LOCKOUT. OTP required for verification.",
		Type:         "phishing",
		ExpectedTier: "high",
	},
	{
		Title: "Suspicious Microsoft Alert",
		Text: "Dear User, Your Microsoft account needs verification. Please update your security " +
			"information: http://tinyurl.com/microsoft-account-update. Failure to do so may result " +
			"in limited access.",
		Type:         "suspicious",
		ExpectedTier: "medium",
	},
	{
		Title: "Netflix Account Update",
		Text: "Hello, We're updating our security systems. Please confirm your billing information " +
			"to continue your Netflix service without interruption.",
		Type:         "moderate",
		ExpectedTier: "low",
	},
	{
		Title: "Safe Meeting Reminder",
		Text: "Hi John, just confirming our meeting tomorrow at 2:00 PM in Conference Room B. " +
			"Please bring the quarterly reports.",
		Type:         "safe",
		ExpectedTier: "safe",
	},
	{
		Title: "IRS Tax Scam",
		Text: "FINAL NOTICE: The IRS has filed a lawsuit against you for tax evasion. Call " +
			"IMMEDIATELY at 1-800-XXX-XXXX to settle or face legal action. This is your LAST CHANCE!",
		Type:         "phishing",
		ExpectedTier: "high",
	},
}

// Package analyzer composes the full pipeline behind a single call:
// normalize, match keywords, evaluate context and statistic rules, scan
// URLs, score, classify and assemble the report. An Analyzer is built
// once and is safe for unlimited concurrent use; given the same
// denylist snapshot, Analyze is a pure function of its input.
package analyzer

import (
	"phishbowl/internal/core/detector"
	"phishbowl/internal/core/langhint"
	"phishbowl/internal/core/lexicon"
	"phishbowl/internal/core/normalize"
	"phishbowl/internal/core/report"
	"phishbowl/internal/core/score"
	"phishbowl/internal/core/signal"
	"phishbowl/internal/core/urlscan"
	"phishbowl/internal/core/verdict"
)

// Options configures optional pipeline stages
type Options struct {
	// Denylist is consulted per extracted host; nil disables the check
	Denylist urlscan.Lookup
	// LangHint adds language metadata to reports
	LangHint bool
	// MaxHits caps keyword hits per message (0 = no cap)
	MaxHits int
}

// Analyzer runs the pipeline over one message at a time
type Analyzer struct {
	pack     *lexicon.Pack
	norm     *normalize.Normalizer
	keywords *detector.Detector
	signals  *signal.Detector
	urls     *urlscan.Scanner
	scorer   *score.Scorer
	classify *verdict.Classifier
	reports  *report.Builder
	opts     Options
}

// New loads the embedded pack and builds the pipeline
func New(opts Options) (*Analyzer, error) {
	p, err := lexicon.Load()
	if err != nil {
		return nil, err
	}
	return NewWithPack(p, opts), nil
}

// NewWithPack builds the pipeline over an already-loaded pack
func NewWithPack(p *lexicon.Pack, opts Options) *Analyzer {
	return &Analyzer{
		pack:     p,
		norm:     normalize.New(),
		keywords: detector.NewWithOptions(p, detector.Options{MaxTotalHits: opts.MaxHits}),
		signals:  signal.New(p),
		urls:     urlscan.NewWithDenylist(p, opts.Denylist),
		scorer:   score.New(p),
		classify: verdict.New(p),
		reports:  report.New(p),
		opts:     opts,
	}
}

// Pack exposes the loaded pack for callers that render its metadata
func (a *Analyzer) Pack() *lexicon.Pack {
	return a.pack
}

// Analyze runs the full pipeline. It is total: any string, including
// empty or hostile input, yields a well-formed report
func (a *Analyzer) Analyze(text string) report.Report {
	t := a.norm.Normalize(text)

	hits := a.keywords.Scan(t)
	hits = append(hits, a.signals.Scan(t)...)
	urls := a.urls.Scan(t)

	bd := a.scorer.Score(hits, urls)
	tier := a.classify.Classify(bd.Score)

	var hint langhint.Hint
	if a.opts.LangHint && !t.Empty {
		hint = langhint.Detect(t.Canon)
	}

	return a.reports.Build(report.Input{
		Text:      t,
		Hits:      hits,
		URLs:      urls,
		Breakdown: bd,
		Tier:      tier,
		Hint:      hint,
	})
}

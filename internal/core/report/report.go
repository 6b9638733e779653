// Package report assembles the final analysis report: ordered hits,
// URL findings, the score breakdown, and the deterministic advice the
// pack ships. Identical input always yields a byte-identical report.
package report

import (
	"sort"

	"phishbowl/internal/core/feature"
	"phishbowl/internal/core/langhint"
	"phishbowl/internal/core/lexicon"
	"phishbowl/internal/core/normalize"
	"phishbowl/internal/core/score"
	"phishbowl/internal/core/urlscan"
	"phishbowl/internal/core/verdict"
)

// Input carries everything one analysis produced
type Input struct {
	Text      normalize.Text
	Hits      []feature.Hit
	URLs      []urlscan.Finding
	Breakdown score.Breakdown
	Tier      verdict.Tier
	Hint      langhint.Hint
}

// Report is the complete result for one analyzed message
type Report struct {
	Score      float64      `json:"score"`
	Tier       verdict.Tier `json:"tier"`
	Label      string       `json:"label"`
	Confidence string       `json:"confidence"`
	Advice     string       `json:"advice"`

	Hits    []feature.Hit     `json:"hits,omitempty"`
	URLs    []urlscan.Finding `json:"urls,omitempty"`
	Signals []string          `json:"signals,omitempty"` // fired rules, fixed table order

	Breakdown       score.Breakdown `json:"breakdown"`
	Recommendations []string        `json:"recommendations"`
	Lang            *langhint.Hint  `json:"lang,omitempty"`
	Empty           bool            `json:"empty,omitempty"`
}

// Builder renders reports from the pack's advice tables
type Builder struct {
	p *lexicon.Pack
}

// New creates a Builder over the pack
func New(p *lexicon.Pack) *Builder {
	return &Builder{p: p}
}

// Build assembles the report. Hits come back in category order with
// each category's occurrence order preserved; URL findings stay in
// extraction order
func (b *Builder) Build(in Input) Report {
	tier := string(in.Tier)
	r := Report{
		Score:      in.Breakdown.Score,
		Tier:       in.Tier,
		Label:      in.Tier.Label(),
		Confidence: in.Tier.Confidence(),
		Advice:     b.p.Advice.Tiers[tier],
		URLs:       in.URLs,
		Breakdown:  in.Breakdown,
		Empty:      in.Text.Empty,
	}

	if len(in.Hits) > 0 {
		hits := make([]feature.Hit, len(in.Hits))
		copy(hits, in.Hits)
		sort.SliceStable(hits, func(i, j int) bool {
			if hits[i].Category != hits[j].Category {
				return hits[i].Category.Rank() < hits[j].Category.Rank()
			}
			return hits[i].Index < hits[j].Index
		})
		r.Hits = hits
	}

	r.Signals = b.signals(r.Hits, in.URLs)

	recs := b.p.Advice.Recommendations[tier]
	r.Recommendations = make([]string, len(recs))
	copy(r.Recommendations, recs)

	if !in.Hint.Zero() {
		h := in.Hint
		r.Lang = &h
	}

	return r
}

// signals renders the fired-rule explanation lines in the pack's fixed
// table order
func (b *Builder) signals(hits []feature.Hit, urls []urlscan.Finding) []string {
	fired := map[string]bool{}
	for _, h := range hits {
		if h.Category.Keyword() {
			fired[string(h.Category)] = true
			continue
		}
		fired[h.Term] = true
	}
	if len(urls) > 0 {
		fired["url_presence"] = true
	}
	for _, f := range urls {
		if f.IsShortener {
			fired["shortener"] = true
		}
		if f.HasSuspiciousTLD {
			fired["suspicious_tld"] = true
		}
		if f.IsRawIP {
			fired["raw_ip"] = true
		}
		if f.HasLoginPath {
			fired["login_path"] = true
		}
		if f.IsLookalike {
			fired["lookalike"] = true
		}
		if f.IsDenylisted {
			fired["denylisted"] = true
		}
	}

	var out []string
	for _, s := range b.p.Advice.Signals {
		if fired[s.Key] {
			out = append(out, s.Text)
		}
	}
	return out
}

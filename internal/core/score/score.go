// Package score folds feature hits and URL findings into the bounded
// risk score: per-category tapered subtotals, category multipliers, the
// corroboration penalty, then a logistic rescale onto [0,10].
package score

import (
	"math"

	"phishbowl/internal/core/feature"
	"phishbowl/internal/core/lexicon"
	"phishbowl/internal/core/urlscan"
)

// CategoryScore is one category's contribution to the raw sum
type CategoryScore struct {
	Category   feature.Category `json:"category"`
	Hits       int              `json:"hits"`
	Subtotal   float64          `json:"subtotal"` // post-taper, pre-multiplier
	Multiplier float64          `json:"multiplier"`
	Weighted   float64          `json:"weighted"`
}

// Breakdown shows every step from hits to the final score
type Breakdown struct {
	Categories  []CategoryScore `json:"categories"` // scoring categories only, report order
	URLSubtotal float64         `json:"url_subtotal"`
	Penalty     float64         `json:"penalty"`
	RawSum      float64         `json:"raw_sum"`
	Score       float64         `json:"score"` // rounded to one decimal, clamped to [0,10]
}

// Scorer applies the pack's scoring table. Stateless beyond the pack
type Scorer struct {
	p *lexicon.Pack
}

// New creates a Scorer over the pack's scoring constants
func New(p *lexicon.Pack) *Scorer {
	return &Scorer{p: p}
}

// Score computes the breakdown for one analyzed message. Zero evidence
// lands at the logistic intercept, not at zero
func (s *Scorer) Score(hits []feature.Hit, urls []urlscan.Finding) Breakdown {
	var b Breakdown

	subtotal := map[feature.Category]float64{}
	count := map[feature.Category]int{}
	for _, h := range hits {
		w := h.Weight
		if h.Category.Keyword() {
			w *= s.p.TaperAt(h.Index)
		}
		subtotal[h.Category] += w
		count[h.Category]++
	}

	distinct := 0
	for _, cat := range feature.Order() {
		if cat == feature.URL {
			continue
		}
		if count[cat] == 0 {
			continue
		}
		distinct++
		mult := s.p.Scoring.Multipliers[cat]
		cs := CategoryScore{
			Category:   cat,
			Hits:       count[cat],
			Subtotal:   subtotal[cat],
			Multiplier: mult,
			Weighted:   subtotal[cat] * mult,
		}
		b.Categories = append(b.Categories, cs)
		b.RawSum += cs.Weighted
	}

	for _, f := range urls {
		b.URLSubtotal += f.Contribution
	}
	if b.URLSubtotal > 0 {
		distinct++
		b.RawSum += b.URLSubtotal
	}

	// Independent evidence channels corroborate each other
	if distinct >= s.p.Scoring.PenaltyMinCategories {
		b.Penalty = s.p.Scoring.PenaltyBonus
		b.RawSum += b.Penalty
	}

	b.Score = s.rescale(b.RawSum)
	return b
}

// rescale maps the unbounded raw sum onto [0,10], rounds to one decimal
// and clamps. The tier is classified from this rounded value so the
// reported number and tier can never disagree
func (s *Scorer) rescale(raw float64) float64 {
	k := s.p.Scoring.LogisticSlope
	mid := s.p.Scoring.LogisticMidpoint
	v := 10 / (1 + math.Exp(-k*(raw-mid)))
	v = math.Round(v*10) / 10
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

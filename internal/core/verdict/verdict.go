// Package verdict classifies a rounded risk score into its tier
package verdict

import "phishbowl/internal/core/lexicon"

// Tier is the four-level classification of one analyzed message
type Tier string

// Tier values, lowest to highest risk
const (
	Safe   Tier = "safe"
	Low    Tier = "low"
	Medium Tier = "medium"
	High   Tier = "high"
)

// Label returns the display form
func (t Tier) Label() string {
	switch t {
	case Safe:
		return "Safe"
	case Low:
		return "Low Risk"
	case Medium:
		return "Medium Risk"
	case High:
		return "High Risk"
	}
	return string(t)
}

// Confidence is the qualitative certainty the original tiering carried:
// extreme scores are easy calls, the middle bands less so
func (t Tier) Confidence() string {
	switch t {
	case High:
		return "very high"
	case Medium:
		return "medium-high"
	case Low:
		return "medium"
	case Safe:
		return "high"
	}
	return ""
}

// Classifier maps scores onto the pack's contiguous bands. Bands are
// lower-inclusive, upper-exclusive; the top band is closed
type Classifier struct {
	bands []lexicon.TierBand
}

// New creates a Classifier from the pack's validated bands
func New(p *lexicon.Pack) *Classifier {
	return &Classifier{bands: p.Tiers}
}

// Classify expects the rounded, clamped score the scorer emits, so the
// reported number always agrees with its tier
func (c *Classifier) Classify(score float64) Tier {
	last := len(c.bands) - 1
	for i, b := range c.bands {
		if score < b.Min {
			continue
		}
		if score < b.Max || (i == last && score == b.Max) {
			return Tier(b.Name)
		}
	}
	if score < c.bands[0].Min {
		return Tier(c.bands[0].Name)
	}
	return Tier(c.bands[last].Name)
}

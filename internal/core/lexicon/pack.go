// Package lexicon loads and validates the embedded detection pack: the
// keyword tables, URL sets, context rules, scoring constants, tier
// bands and advice text every pipeline stage reads. The pack is static
// configuration; it is parsed and checked once at startup and never
// mutated afterwards.
package lexicon

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"phishbowl/internal/core/feature"

	"github.com/go-playground/validator/v10"
)

//go:embed pack.json
var embedded []byte

// raw mirrors pack.json. Field validation runs before compilation so a
// broken pack fails loudly at process start, never per request.
type rawPack struct {
	Version int            `json:"version" validate:"eq=1"`
	Meta    map[string]any `json:"meta"`

	Keywords map[string]map[string]float64 `json:"keywords" validate:"required,dive,required,dive,gt=0"`

	URLs struct {
		Shorteners     []string `json:"shorteners" validate:"min=20,dive,required"`
		SuspiciousTLDs []string `json:"suspicious_tlds" validate:"min=1,dive,required"`
		LoginTokens    []string `json:"login_tokens" validate:"min=1,dive,required"`
		Brands         []string `json:"brands" validate:"dive,required"`
		Weights        struct {
			Presence      float64 `json:"presence" validate:"gt=0"`
			Shortener     float64 `json:"shortener" validate:"gt=0"`
			SuspiciousTLD float64 `json:"suspicious_tld" validate:"gt=0"`
			RawIP         float64 `json:"raw_ip" validate:"gt=0"`
			LoginPath     float64 `json:"login_path" validate:"gt=0"`
			Lookalike     float64 `json:"lookalike" validate:"gt=0"`
			Denylisted    float64 `json:"denylisted" validate:"gt=0"`
		} `json:"weights"`
	} `json:"urls"`

	Context struct {
		Greetings        []string `json:"greetings" validate:"min=1,dive,required"`
		GenericGreetings []string `json:"generic_greetings" validate:"min=1,dive,required"`
		UrgencyPatterns  []string `json:"urgency_patterns" validate:"min=1,dive,required"`
		Weights          struct {
			MissingGreeting float64 `json:"missing_greeting" validate:"gt=0"`
			GenericGreeting float64 `json:"generic_greeting" validate:"gt=0"`
			Urgency         float64 `json:"urgency" validate:"gt=0"`
		} `json:"weights"`
	} `json:"context"`

	Stats struct {
		CapsRatio    rawStatRule `json:"caps_ratio"`
		DigitRatio   rawStatRule `json:"digit_ratio"`
		SpecialRatio rawStatRule `json:"special_ratio"`
		PunctRun     struct {
			Cutoff int     `json:"cutoff" validate:"gt=0"`
			Weight float64 `json:"weight" validate:"gt=0"`
		} `json:"punct_run"`
	} `json:"stats"`

	Scoring struct {
		Multipliers map[string]float64 `json:"multipliers" validate:"required,dive,gt=0"`
		Taper       []float64          `json:"taper" validate:"min=2"`
		Penalty     struct {
			MinCategories int     `json:"min_categories" validate:"gt=1"`
			Bonus         float64 `json:"bonus" validate:"gt=0"`
		} `json:"penalty"`
		Logistic struct {
			Slope    float64 `json:"slope" validate:"gt=0"`
			Midpoint float64 `json:"midpoint" validate:"gt=0"`
		} `json:"logistic"`
	} `json:"scoring"`

	Tiers []struct {
		Name string  `json:"name" validate:"required"`
		Min  float64 `json:"min" validate:"gte=0"`
		Max  float64 `json:"max" validate:"gt=0"`
	} `json:"tiers" validate:"len=4"`

	Advice struct {
		Tiers           map[string]string   `json:"tiers" validate:"required"`
		Signals         []rawSignalAdvice   `json:"signals" validate:"min=1"`
		Recommendations map[string][]string `json:"recommendations" validate:"required"`
	} `json:"advice"`
}

type rawStatRule struct {
	Cutoff float64 `json:"cutoff" validate:"gt=0"`
	Weight float64 `json:"weight" validate:"gt=0"`
}

type rawSignalAdvice struct {
	Key  string `json:"key" validate:"required"`
	Text string `json:"text" validate:"required"`
}

// Keyword is one term of the four keyword categories
type Keyword struct {
	Term     string
	Category feature.Category
	Weight   float64
}

// StatRule pairs a cutoff with the fixed weight emitted when crossed
type StatRule struct {
	Cutoff float64
	Weight float64
}

// URLWeights are the per-condition contributions of one URL finding
type URLWeights struct {
	Presence      float64
	Shortener     float64
	SuspiciousTLD float64
	RawIP         float64
	LoginPath     float64
	Lookalike     float64
	Denylisted    float64
}

// ContextWeights are the fixed weights of the boolean context rules
type ContextWeights struct {
	MissingGreeting float64
	GenericGreeting float64
	Urgency         float64
}

// Scoring carries every constant the scorer needs
type Scoring struct {
	Multipliers          map[feature.Category]float64
	Taper                []float64 // per-occurrence multipliers; last repeats
	PenaltyMinCategories int
	PenaltyBonus         float64
	LogisticSlope        float64
	LogisticMidpoint     float64
}

// TierBand is one classification band. Lower edge inclusive; upper edge
// exclusive except the top band, which is closed.
type TierBand struct {
	Name string
	Min  float64
	Max  float64
}

// SignalAdvice is one advice line keyed by the signal that fired
type SignalAdvice struct {
	Key  string
	Text string
}

// Advice bundles the deterministic explanation tables
type Advice struct {
	Tiers           map[string]string
	Signals         []SignalAdvice // fixed order drives report ordering
	Recommendations map[string][]string
}

// Pack is the compiled, validated configuration
type Pack struct {
	Version int
	Meta    map[string]any

	Keywords     []Keyword // sorted by category then term
	KeywordCount int

	Shorteners     map[string]struct{}
	SuspiciousTLDs map[string]struct{} // stored without the leading dot
	LoginTokens    []string
	Brands         []string

	Greetings        []string
	GenericGreetings []string
	Urgency          []*regexp.Regexp
	UrgencySources   []string // pattern text, 1:1 with Urgency

	CapsRatio    StatRule
	DigitRatio   StatRule
	SpecialRatio StatRule
	PunctRunCut  int
	PunctRunW    float64

	ContextWeights ContextWeights
	URLWeights     URLWeights
	Scoring        Scoring
	Tiers          []TierBand
	Advice         Advice
}

var packValidate = validator.New(validator.WithRequiredStructEnabled())

// Load parses, validates and compiles the embedded pack
func Load() (*Pack, error) {
	return load(embedded)
}

// LoadBytes parses, validates and compiles an external pack document.
// The lint tool uses it to vet candidate packs before they are embedded
func LoadBytes(data []byte) (*Pack, error) {
	return load(data)
}

func load(data []byte) (*Pack, error) {
	var rp rawPack
	if err := json.Unmarshal(data, &rp); err != nil {
		return nil, fmt.Errorf("lexicon: parse pack.json: %w", err)
	}
	if err := packValidate.Struct(&rp); err != nil {
		return nil, fmt.Errorf("lexicon: validate pack.json: %w", err)
	}

	p := &Pack{
		Version:        rp.Version,
		Meta:           rp.Meta,
		Shorteners:     make(map[string]struct{}, len(rp.URLs.Shorteners)),
		SuspiciousTLDs: make(map[string]struct{}, len(rp.URLs.SuspiciousTLDs)),
	}

	// Keyword tables: lowercased, deduped per category
	for cat, terms := range rp.Keywords {
		fc, ok := parseCategory(cat)
		if !ok || !fc.Keyword() {
			return nil, fmt.Errorf("lexicon: unknown keyword category %q", cat)
		}
		seen := make(map[string]struct{}, len(terms))
		for term, w := range terms {
			term = strings.ToLower(strings.TrimSpace(term))
			if term == "" {
				return nil, fmt.Errorf("lexicon: empty term in category %q", cat)
			}
			if _, dup := seen[term]; dup {
				return nil, fmt.Errorf("lexicon: duplicate term %q in category %q", term, cat)
			}
			seen[term] = struct{}{}
			p.Keywords = append(p.Keywords, Keyword{Term: term, Category: fc, Weight: w})
		}
	}
	if len(p.Keywords) < 200 {
		return nil, fmt.Errorf("lexicon: keyword table too small: %d entries", len(p.Keywords))
	}
	sort.Slice(p.Keywords, func(i, j int) bool {
		if p.Keywords[i].Category != p.Keywords[j].Category {
			return p.Keywords[i].Category < p.Keywords[j].Category
		}
		return p.Keywords[i].Term < p.Keywords[j].Term
	})
	p.KeywordCount = len(p.Keywords)

	for _, s := range rp.URLs.Shorteners {
		p.Shorteners[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	for _, tld := range rp.URLs.SuspiciousTLDs {
		p.SuspiciousTLDs[strings.TrimPrefix(strings.ToLower(strings.TrimSpace(tld)), ".")] = struct{}{}
	}
	p.LoginTokens = lowerAll(rp.URLs.LoginTokens)
	p.Brands = lowerAll(rp.URLs.Brands)
	p.URLWeights = URLWeights(rp.URLs.Weights)

	p.Greetings = lowerAll(rp.Context.Greetings)
	p.GenericGreetings = lowerAll(rp.Context.GenericGreetings)
	for _, pat := range rp.Context.UrgencyPatterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("lexicon: compile urgency pattern %q: %w", pat, err)
		}
		p.Urgency = append(p.Urgency, re)
		p.UrgencySources = append(p.UrgencySources, pat)
	}
	p.ContextWeights = ContextWeights(rp.Context.Weights)

	p.CapsRatio = StatRule(rp.Stats.CapsRatio)
	p.DigitRatio = StatRule(rp.Stats.DigitRatio)
	p.SpecialRatio = StatRule(rp.Stats.SpecialRatio)
	p.PunctRunCut = rp.Stats.PunctRun.Cutoff
	p.PunctRunW = rp.Stats.PunctRun.Weight

	sc := Scoring{
		Multipliers:          make(map[feature.Category]float64, len(rp.Scoring.Multipliers)),
		Taper:                rp.Scoring.Taper,
		PenaltyMinCategories: rp.Scoring.Penalty.MinCategories,
		PenaltyBonus:         rp.Scoring.Penalty.Bonus,
		LogisticSlope:        rp.Scoring.Logistic.Slope,
		LogisticMidpoint:     rp.Scoring.Logistic.Midpoint,
	}
	for cat, m := range rp.Scoring.Multipliers {
		fc, ok := parseCategory(cat)
		if !ok {
			return nil, fmt.Errorf("lexicon: unknown multiplier category %q", cat)
		}
		sc.Multipliers[fc] = m
	}
	for _, fc := range feature.Order() {
		if fc == feature.URL {
			continue // URL contributions are summed unmultiplied
		}
		if _, ok := sc.Multipliers[fc]; !ok {
			return nil, fmt.Errorf("lexicon: missing multiplier for category %q", fc)
		}
	}
	// Taper must shrink monotonically within (0,1] so repeats never gain value
	for i, m := range sc.Taper {
		if m <= 0 || m > 1 {
			return nil, fmt.Errorf("lexicon: taper[%d]=%v outside (0,1]", i, m)
		}
		if i > 0 && m >= sc.Taper[i-1] {
			return nil, fmt.Errorf("lexicon: taper not strictly decreasing at [%d]", i)
		}
	}
	p.Scoring = sc

	// Tier bands must use the fixed tier names and cover [0,10] contiguously
	for _, t := range rp.Tiers {
		switch t.Name {
		case "safe", "low", "medium", "high":
		default:
			return nil, fmt.Errorf("lexicon: unknown tier name %q", t.Name)
		}
		p.Tiers = append(p.Tiers, TierBand{Name: t.Name, Min: t.Min, Max: t.Max})
	}
	sort.Slice(p.Tiers, func(i, j int) bool { return p.Tiers[i].Min < p.Tiers[j].Min })
	if p.Tiers[0].Min != 0 || p.Tiers[len(p.Tiers)-1].Max != 10 {
		return nil, fmt.Errorf("lexicon: tier bands must span [0,10]")
	}
	for i := range p.Tiers {
		if p.Tiers[i].Min >= p.Tiers[i].Max {
			return nil, fmt.Errorf("lexicon: tier band %q is empty", p.Tiers[i].Name)
		}
		if i > 0 && p.Tiers[i].Min != p.Tiers[i-1].Max {
			return nil, fmt.Errorf("lexicon: gap between tier bands %q and %q",
				p.Tiers[i-1].Name, p.Tiers[i].Name)
		}
	}

	p.Advice = Advice{
		Tiers:           rp.Advice.Tiers,
		Recommendations: rp.Advice.Recommendations,
	}
	for _, s := range rp.Advice.Signals {
		p.Advice.Signals = append(p.Advice.Signals, SignalAdvice(s))
	}
	for _, t := range p.Tiers {
		if _, ok := p.Advice.Tiers[t.Name]; !ok {
			return nil, fmt.Errorf("lexicon: missing tier advice for %q", t.Name)
		}
		if _, ok := p.Advice.Recommendations[t.Name]; !ok {
			return nil, fmt.Errorf("lexicon: missing recommendations for %q", t.Name)
		}
	}

	return p, nil
}

// TaperAt returns the multiplier for the n-th occurrence (1-based) in a
// keyword category. Past the end of the table the last entry repeats,
// so late repeats keep a nonzero marginal value.
func (p *Pack) TaperAt(n int) float64 {
	if n < 1 {
		return 0
	}
	if n > len(p.Scoring.Taper) {
		return p.Scoring.Taper[len(p.Scoring.Taper)-1]
	}
	return p.Scoring.Taper[n-1]
}

func parseCategory(s string) (feature.Category, bool) {
	for _, c := range feature.Order() {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

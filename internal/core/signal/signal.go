// Package signal derives context and statistic hits from normalized
// text: greeting checks, urgency phrasing, and the raw-text ratio
// rules. Each rule is boolean; crossing it emits one fixed-weight hit
// carrying the measured value for the report.
package signal

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"phishbowl/internal/core/feature"
	"phishbowl/internal/core/lexicon"
	"phishbowl/internal/core/normalize"
)

const (
	greetingWindow = 50  // runes of canonical text scanned for a greeting
	genericWindow  = 100 // runes scanned for a generic greeting
)

// Rule keys, shared with the pack's signal advice table
const (
	RuleMissingGreeting = "missing_greeting"
	RuleGenericGreeting = "generic_greeting"
	RuleUrgency         = "urgency"
	RuleCapsRatio       = "caps_ratio"
	RuleDigitRatio      = "digit_ratio"
	RuleSpecialRatio    = "special_ratio"
	RulePunctRun        = "punct_run"
)

// Detector evaluates the pack's context and statistic rules
type Detector struct {
	p *lexicon.Pack
}

// New creates a Detector over the pack's rule tables
func New(p *lexicon.Pack) *Detector {
	return &Detector{p: p}
}

// Scan returns context hits followed by statistic hits, each indexed
// 1-based within its category in fixed rule order. Empty input yields
// nothing
func (d *Detector) Scan(t normalize.Text) []feature.Hit {
	if t.Empty {
		return nil
	}
	hits := d.context(t, nil)
	return d.stats(t, hits)
}

// context checks greetings against the leading window of the canonical
// text and the urgency patterns against all of it
func (d *Detector) context(t normalize.Text, hits []feature.Hit) []feature.Hit {
	idx := 0
	emit := func(term string, w float64, start, end int) {
		idx++
		hits = append(hits, feature.Hit{
			Category: feature.Context,
			Term:     term,
			Weight:   w,
			Index:    idx,
			Start:    start,
			End:      end,
		})
	}

	head := runePrefix(t.Canon, greetingWindow)
	greeted := false
	for _, g := range d.p.Greetings {
		if _, _, ok := tokenIndex(head, g); ok {
			greeted = true
			break
		}
	}
	if !greeted {
		emit(RuleMissingGreeting, d.p.ContextWeights.MissingGreeting, -1, -1)
	}

	genericHead := runePrefix(t.Canon, genericWindow)
	for _, g := range d.p.GenericGreetings {
		if start, end, ok := tokenIndex(genericHead, g); ok {
			emit(RuleGenericGreeting, d.p.ContextWeights.GenericGreeting, start, end)
			break
		}
	}

	for _, re := range d.p.Urgency {
		if loc := re.FindStringIndex(t.Canon); loc != nil {
			emit(RuleUrgency, d.p.ContextWeights.Urgency, loc[0], loc[1])
			break
		}
	}

	return hits
}

// stats turns raw-text measurements into threshold hits. The continuous
// value rides along so the report can show what was measured
func (d *Detector) stats(t normalize.Text, hits []feature.Hit) []feature.Hit {
	idx := 0
	emit := func(term string, w, value float64) {
		idx++
		hits = append(hits, feature.Hit{
			Category: feature.Statistic,
			Term:     term,
			Weight:   w,
			Index:    idx,
			Start:    -1,
			End:      -1,
			Value:    value,
		})
	}

	s := t.Stats
	if s.CapsRatio > d.p.CapsRatio.Cutoff {
		emit(RuleCapsRatio, d.p.CapsRatio.Weight, s.CapsRatio)
	}
	if s.DigitRatio > d.p.DigitRatio.Cutoff {
		emit(RuleDigitRatio, d.p.DigitRatio.Weight, s.DigitRatio)
	}
	if s.SpecialRatio > d.p.SpecialRatio.Cutoff {
		emit(RuleSpecialRatio, d.p.SpecialRatio.Weight, s.SpecialRatio)
	}
	if s.MaxPunctRun > d.p.PunctRunCut {
		emit(RulePunctRun, d.p.PunctRunW, float64(s.MaxPunctRun))
	}

	return hits
}

// runePrefix returns the first n runes of s
func runePrefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// tokenIndex finds needle in hay as a whole token (non-word characters
// or string edges on both sides) and returns its byte span
func tokenIndex(hay, needle string) (int, int, bool) {
	if needle == "" {
		return 0, 0, false
	}
	from := 0
	for from+len(needle) <= len(hay) {
		i := strings.Index(hay[from:], needle)
		if i < 0 {
			break
		}
		i += from
		end := i + len(needle)
		if boundary(hay, i, end) {
			return i, end, true
		}
		from = i + 1
	}
	return 0, 0, false
}

func boundary(s string, start, end int) bool {
	var prev, next rune
	if start > 0 {
		prev, _ = utf8.DecodeLastRuneInString(s[:start])
	}
	if end < len(s) {
		next, _ = utf8.DecodeRuneInString(s[end:])
	}
	return !wordRune(prev) && !wordRune(next)
}

func wordRune(r rune) bool {
	if r == 0 || r == utf8.RuneError {
		return false
	}
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

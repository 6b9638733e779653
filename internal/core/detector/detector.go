// Package detector implements keyword detection over normalized text
package detector

import (
	"sort"
	"unicode/utf8"

	"phishbowl/internal/core/feature"
	"phishbowl/internal/core/lexicon"
	"phishbowl/internal/core/normalize"
)

// Options controls detector behavior
type Options struct {
	// MaxTotalHits is the hard cap on total emitted hits (0 = no cap)
	MaxTotalHits int
}

// Detector matches the pack's keyword tables against canonical text and
// its confusable-folded shadow. Built once per pack; safe for unlimited
// concurrent Scan calls
type Detector struct {
	p    *lexicon.Pack
	opts Options

	ac       *acAutomaton
	terms    []lexicon.Keyword // pattern ID -> keyword row
	termLens []int
}

// New creates a Detector with default options
func New(p *lexicon.Pack) *Detector {
	return NewWithOptions(p, Options{})
}

// NewWithOptions creates a Detector with custom options
func NewWithOptions(p *lexicon.Pack, opts Options) *Detector {
	d := &Detector{p: p, opts: opts}

	// One automaton pattern per keyword entry. A term shared by two
	// categories registers twice; both IDs surface at the same end node
	ac := newAutomaton()
	d.terms = p.Keywords
	d.termLens = make([]int, len(p.Keywords))
	for i, kw := range p.Keywords {
		ac.AddPattern([]byte(kw.Term), i)
		d.termLens[i] = len(kw.Term)
	}
	ac.Build()
	d.ac = ac

	return d
}

type spanKey struct {
	start int
	term  int
}

type rawMatch struct {
	start, end int
	term       int
}

// Scan returns one Hit per keyword match. Matches are found on both the
// canonical text and the folded shadow (same byte offsets); a term
// matching the same span in both counts once. Hits come back in
// category order, text order within a category, with the 1-based
// occurrence index the scorer's taper consumes
func (d *Detector) Scan(t normalize.Text) []feature.Hit {
	if t.Empty || t.Canon == "" {
		return nil
	}

	seen := make(map[spanKey]struct{}, 16)
	matches := d.matchInto(t.Canon, nil, seen)
	if t.Shadow != t.Canon {
		matches = d.matchInto(t.Shadow, matches, seen)
	}
	if len(matches) == 0 {
		return nil
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := d.terms[matches[i].term], d.terms[matches[j].term]
		if a.Category != b.Category {
			return a.Category.Rank() < b.Category.Rank()
		}
		if matches[i].start != matches[j].start {
			return matches[i].start < matches[j].start
		}
		return a.Term < b.Term
	})

	hits := make([]feature.Hit, 0, len(matches))
	counts := make(map[feature.Category]int, 4)
	for _, m := range matches {
		kw := d.terms[m.term]
		counts[kw.Category]++
		hits = append(hits, feature.Hit{
			Category: kw.Category,
			Term:     kw.Term,
			Weight:   kw.Weight,
			Index:    counts[kw.Category],
			Start:    m.start,
			End:      m.end,
		})
		if d.opts.MaxTotalHits > 0 && len(hits) >= d.opts.MaxTotalHits {
			break
		}
	}
	return hits
}

// matchInto appends boundary-checked automaton matches over text to acc.
// Overlaps resolve leftmost-longest, so a phrase beats both its own
// leading word and any term starting inside it. Spans never overlap in
// the result, with one exception: a term owned by two categories emits
// once per category at the identical span
func (d *Detector) matchInto(text string, acc []rawMatch, seen map[spanKey]struct{}) []rawMatch {
	var cands []rawMatch
	d.ac.FindAll([]byte(text), func(end, id int) bool {
		start := end - d.termLens[id]
		if d.boundaryOK(text, start, end) {
			cands = append(cands, rawMatch{start: start, end: end, term: id})
		}
		return true
	})
	if len(cands) == 0 {
		return acc
	}

	sort.Slice(cands, func(i, j int) bool {
		if cands[i].start != cands[j].start {
			return cands[i].start < cands[j].start
		}
		if cands[i].end != cands[j].end {
			return cands[i].end > cands[j].end
		}
		return cands[i].term < cands[j].term
	})

	lastStart, lastEnd := -1, -1
	for _, m := range cands {
		sameSpan := m.start == lastStart && m.end == lastEnd
		if m.start < lastEnd && !sameSpan {
			continue
		}
		k := spanKey{start: m.start, term: m.term}
		if _, dup := seen[k]; !dup {
			seen[k] = struct{}{}
			acc = append(acc, m)
		}
		lastStart, lastEnd = m.start, m.end
	}
	return acc
}

func (d *Detector) boundaryOK(s string, start, end int) bool {
	var prev, next rune
	if start > 0 {
		prev, _ = utf8.DecodeLastRuneInString(s[:start])
	}
	if end < len(s) {
		next, _ = utf8.DecodeRuneInString(s[end:])
	}
	return !isWord(prev) && !isWord(next)
}

// Package normalize turns raw message text into the canonical form every
// detector scans. Pipeline order
// 1 capture raw-text statistics (casing, digits, punctuation runs)
// 2 percent-decode URL-encoded sequences
// 3 sanitize control bytes and repair UTF-8
// 4 Unicode NFKC, case fold, strip combining and format marks, width fold
// 5 collapse repeated terminal punctuation
// 6 collapse whitespace runs and trim
// 7 build the confusable-folded shadow
//
// Statistics are taken on the raw input, before case folding. Scoring is
// therefore not fully case-insensitive: a message typed in all caps gains
// the caps-ratio contribution that its lowercased twin lacks, though the
// difference stays well inside one tier band.
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Text is the canonical view of one message. Built once per request,
// read-only downstream, discarded after the report is assembled.
type Text struct {
	Canon    string // canonical lowercase form the detectors scan
	Shadow   string // confusable-folded projection of Canon, same byte length
	RawLen   int    // rune count of the raw input
	Empty    bool   // raw input was empty or whitespace-only
	NonASCII bool   // canonical form still carries non-ASCII runes
	Stats    Stats  // measured on the raw input, before any folding
}

// Normalizer is stateless; one instance serves any number of goroutines
type Normalizer struct{}

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),                       // unicode case folding
			runes.Remove(runes.In(unicode.Mn)), // strip combining marks
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
			width.Fold,                         // map fullwidth forms to ASCII
		)
	},
}

// New constructs a Normalizer
func New() *Normalizer { return &Normalizer{} }

// Normalize runs the full pipeline. Total over any string, including
// empty, non-UTF-8 and arbitrarily long input.
func (n *Normalizer) Normalize(raw string) Text {
	t := Text{Stats: measure(raw)}
	t.RawLen = t.Stats.Runes

	if strings.TrimSpace(raw) == "" {
		t.Empty = true
		return t
	}

	s := percentDecode(raw)
	s = Sanitize(s)
	s = strings.ToValidUTF8(s, "")

	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	ns = collapsePunct(ns)
	ns = collapseSpaces(ns)

	if ns == "" {
		t.Empty = true
		return t
	}

	t.Canon = ns
	t.NonASCII = hasNonASCII(ns)
	t.Shadow = foldConfusables(ns)
	return t
}

// percentDecode resolves %XX escapes in a single pass. Invalid escapes
// are kept verbatim; '+' is not treated as a space.
func percentDecode(s string) string {
	if !strings.ContainsRune(s, '%') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == '%' && i+2 < len(s) {
			hi, ok1 := unhex(s[i+1])
			lo, ok2 := unhex(s[i+2])
			if ok1 && ok2 {
				b.WriteByte(hi<<4 | lo)
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// collapsePunct squashes runs of terminal punctuation ('!', '?', '.')
// longer than one to the first mark of the run. The original run length
// is already captured in Stats, so nothing is lost for scoring.
func collapsePunct(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for _, r := range s {
		if r == '!' || r == '?' || r == '.' {
			if !inRun {
				b.WriteRune(r)
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return b.String()
}

// collapseSpaces converts whitespace runs to a single ASCII space and trims
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}

func hasNonASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return true
		}
	}
	return false
}

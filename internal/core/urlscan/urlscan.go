// Package urlscan extracts URLs from canonical text and evaluates each
// against the pack's URL rules. Everything here is string work on the
// already-normalized input; there is no network I/O and no resolution.
package urlscan

import (
	"net/netip"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"phishbowl/internal/core/lexicon"
	"phishbowl/internal/core/normalize"

	"github.com/agnivade/levenshtein"
	"golang.org/x/net/idna"
)

// Finding is the evaluation of one extracted URL
type Finding struct {
	Raw   string `json:"raw"`
	Host  string `json:"host"`
	Start int    `json:"start"` // byte span on the canonical text
	End   int    `json:"end"`

	IsShortener      bool   `json:"is_shortener"`
	HasSuspiciousTLD bool   `json:"has_suspicious_tld"`
	IsRawIP          bool   `json:"is_raw_ip"`
	HasLoginPath     bool   `json:"has_login_path"`
	IsLookalike      bool   `json:"is_lookalike"`
	LookalikeBrand   string `json:"lookalike_brand,omitempty"`
	IsDenylisted     bool   `json:"is_denylisted"`

	Contribution float64 `json:"contribution"`
}

// Lookup reports whether a host is on the active denylist snapshot.
// Implementations must be pure lookups; the scanner calls them inline
type Lookup func(host string) bool

// Scanner extracts and evaluates URLs. Built once per pack; safe for
// concurrent use
type Scanner struct {
	p    *lexicon.Pack
	deny Lookup
	re   *regexp.Regexp
}

// New creates a Scanner without a denylist
func New(p *lexicon.Pack) *Scanner {
	return NewWithDenylist(p, nil)
}

// NewWithDenylist creates a Scanner consulting deny for each host.
// A nil deny means no host is denylisted
func NewWithDenylist(p *lexicon.Pack, deny Lookup) *Scanner {
	return &Scanner{p: p, deny: deny, re: buildExtractor(p)}
}

// buildExtractor compiles the extraction pattern: explicit schemes,
// www-prefixed hosts, and scheme-less paths on any known shortener
func buildExtractor(p *lexicon.Pack) *regexp.Regexp {
	shorts := make([]string, 0, len(p.Shorteners))
	for s := range p.Shorteners {
		shorts = append(shorts, regexp.QuoteMeta(s))
	}
	sort.Strings(shorts) // deterministic alternation order
	pat := `https?://\S+|www\.\S+`
	if len(shorts) > 0 {
		pat += `|(?:` + strings.Join(shorts, "|") + `)/\S+`
	}
	return regexp.MustCompile(pat)
}

const trimCutset = `.,;:()[]{}"'`

// Scan returns one Finding per extracted URL, in extraction order
func (s *Scanner) Scan(t normalize.Text) []Finding {
	if t.Empty || t.Canon == "" {
		return nil
	}
	locs := s.re.FindAllStringIndex(t.Canon, -1)
	if len(locs) == 0 {
		return nil
	}

	findings := make([]Finding, 0, len(locs))
	for _, loc := range locs {
		raw := t.Canon[loc[0]:loc[1]]
		trimmed := strings.Trim(raw, trimCutset)
		if trimmed == "" {
			continue
		}
		start := loc[0] + strings.Index(raw, trimmed)
		findings = append(findings, s.evaluate(trimmed, start, start+len(trimmed)))
	}
	return findings
}

// evaluate runs every URL rule against one extracted span. A URL that
// fails to parse keeps its presence weight with no conditions set
func (s *Scanner) evaluate(raw string, start, end int) Finding {
	f := Finding{Raw: raw, Start: start, End: end, Contribution: s.p.URLWeights.Presence}

	target := raw
	if !strings.Contains(target, "://") {
		target = "http://" + target
	}
	u, err := url.Parse(target)
	if err != nil || u.Hostname() == "" {
		return f
	}

	host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	if mapped, merr := idna.Lookup.ToASCII(host); merr == nil && mapped != "" {
		host = mapped
	}
	f.Host = host

	if _, perr := netip.ParseAddr(host); perr == nil {
		f.IsRawIP = true
		f.Contribution += s.p.URLWeights.RawIP
	}

	if s.isShortener(host) {
		f.IsShortener = true
		f.Contribution += s.p.URLWeights.Shortener
	}

	if !f.IsRawIP {
		if tld := lastLabel(host); tld != "" {
			if _, bad := s.p.SuspiciousTLDs[tld]; bad {
				f.HasSuspiciousTLD = true
				f.Contribution += s.p.URLWeights.SuspiciousTLD
			}
		}
		if brand, ok := s.lookalike(host); ok {
			f.IsLookalike = true
			f.LookalikeBrand = brand
			f.Contribution += s.p.URLWeights.Lookalike
		}
	}

	pathq := strings.ToLower(u.EscapedPath())
	if u.RawQuery != "" {
		pathq += "?" + strings.ToLower(u.RawQuery)
	}
	for _, tok := range s.p.LoginTokens {
		if strings.Contains(pathq, tok) {
			f.HasLoginPath = true
			f.Contribution += s.p.URLWeights.LoginPath
			break
		}
	}

	if s.deny != nil && (s.deny(host) || s.deny(registrable(host))) {
		f.IsDenylisted = true
		f.Contribution += s.p.URLWeights.Denylisted
	}

	return f
}

// isShortener matches the host or any subdomain of a known shortener
func (s *Scanner) isShortener(host string) bool {
	if _, ok := s.p.Shorteners[host]; ok {
		return true
	}
	for short := range s.p.Shorteners {
		if strings.HasSuffix(host, "."+short) {
			return true
		}
	}
	return false
}

// lookalike reports whether any host label imitates a brand domain's
// leading label. Exact label reuse on a foreign domain always counts;
// fuzzy matches (edit distance 1-2) only apply to brand labels of five
// or more characters so short brands like irs or ups cannot trigger on
// everyday words
func (s *Scanner) lookalike(host string) (string, bool) {
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return "", false
	}
	reg := registrable(host)

	var segs []string
	for _, lb := range labels[:len(labels)-1] {
		segs = append(segs, lb)
		if strings.Contains(lb, "-") {
			segs = append(segs, strings.Split(lb, "-")...)
		}
	}

	for _, brand := range s.p.Brands {
		if reg == brand {
			return "", false // the genuine domain
		}
		blabel, _, found := strings.Cut(brand, ".")
		if !found || blabel == "" {
			continue
		}
		for _, seg := range segs {
			if seg == blabel {
				return brand, true
			}
			if len(blabel) >= 5 && len(seg) >= 3 {
				if d := levenshtein.ComputeDistance(seg, blabel); d >= 1 && d <= 2 {
					return brand, true
				}
			}
		}
	}
	return "", false
}

// registrable approximates the registrable domain as the last two labels
func registrable(host string) string {
	labels := strings.Split(host, ".")
	if len(labels) <= 2 {
		return host
	}
	return strings.Join(labels[len(labels)-2:], ".")
}

func lastLabel(host string) string {
	if i := strings.LastIndexByte(host, '.'); i >= 0 && i+1 < len(host) {
		return host[i+1:]
	}
	return ""
}

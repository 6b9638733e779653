// internal/core/analyzer/analyzer_test.go
package analyzer

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"

	"phishbowl/internal/core/feature"
	"phishbowl/internal/core/verdict"
)

func newAnalyzer(t *testing.T, opts Options) *Analyzer {
	t.Helper()
	a, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func TestAnalyze_ScoreAlwaysBounded(t *testing.T) {
	a := newAnalyzer(t, Options{})
	inputs := []string{
		"",
		"   \t\n ",
		"hello",
		"URGENT verify your paypal account password NOW http://bit.ly/x",
		strings.Repeat("suspended locked blocked terminated ", 200),
		"\xff\xfe broken utf8 \x80 verify",
		"пароль срочно подтвердите счет",
	}
	for _, in := range inputs {
		r := a.Analyze(in)
		if r.Score < 0 || r.Score > 10 {
			t.Fatalf("%.30q: score out of range: %v", in, r.Score)
		}
		switch r.Tier {
		case verdict.Safe, verdict.Low, verdict.Medium, verdict.High:
		default:
			t.Fatalf("%.30q: unexpected tier %q", in, r.Tier)
		}
	}
}

func TestAnalyze_EmptyInput(t *testing.T) {
	a := newAnalyzer(t, Options{})
	r := a.Analyze("")

	if !r.Empty {
		t.Fatalf("expected empty flag: %+v", r)
	}
	if len(r.Hits) != 0 || len(r.URLs) != 0 {
		t.Fatalf("empty input must yield no hits or findings: %+v", r)
	}
	if r.Score != 0.3 || r.Tier != verdict.Safe {
		t.Fatalf("score/tier = %v/%q, want 0.3/safe", r.Score, r.Tier)
	}
	if r.Advice != "Message appears safe, but remain vigilant." {
		t.Fatalf("advice = %q", r.Advice)
	}
	if len(r.Recommendations) == 0 {
		t.Fatalf("recommendations missing")
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	a := newAnalyzer(t, Options{})
	in := "URGENT: verify your account at http://paypa1-secure.xyz/login within 24 hours"
	first := a.Analyze(in)
	second := a.Analyze(in)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated analysis differs:\n%+v\n%+v", first, second)
	}
}

func TestAnalyze_TaperRepeatedKeyword(t *testing.T) {
	a := newAnalyzer(t, Options{})
	r := a.Analyze("urgent urgent urgent urgent urgent")

	var threat []feature.Hit
	for _, h := range r.Hits {
		if h.Category == feature.Threat {
			threat = append(threat, h)
		}
	}
	if len(threat) != 5 {
		t.Fatalf("expected 5 threat hits, got %d", len(threat))
	}
	for i, h := range threat {
		if h.Index != i+1 {
			t.Fatalf("occurrence index wrong at %d: %+v", i, h)
		}
	}

	var sub float64
	for _, c := range r.Breakdown.Categories {
		if c.Category == feature.Threat {
			sub = c.Subtotal
		}
	}
	// 1.5 * (1.0 + 0.7 + 0.5 + 0.3 + 0.3)
	if math.Abs(sub-4.2) > 1e-9 {
		t.Fatalf("tapered subtotal = %v, want 4.2", sub)
	}
	if sub <= 1.5 || sub >= 7.5 {
		t.Fatalf("taper must land strictly between one and five full hits: %v", sub)
	}
}

func TestAnalyze_RawIPExample(t *testing.T) {
	a := newAnalyzer(t, Options{})
	r := a.Analyze("Verify at http://192.168.1.5/login")

	if len(r.URLs) != 1 {
		t.Fatalf("expected 1 URL finding, got %+v", r.URLs)
	}
	f := r.URLs[0]
	if !f.IsRawIP || !f.HasLoginPath {
		t.Fatalf("expected raw-ip + login-path: %+v", f)
	}
	if f.Contribution != 6.0 {
		t.Fatalf("contribution = %v, want 6.0", f.Contribution)
	}
	if r.Tier != verdict.High || r.Score != 10.0 {
		t.Fatalf("score/tier = %v/%q, want 10.0/high", r.Score, r.Tier)
	}
}

func TestAnalyze_ShortenerExample(t *testing.T) {
	a := newAnalyzer(t, Options{})
	r := a.Analyze("Click bit.ly/xyz123 now, urgent, verify your account password")

	if len(r.URLs) != 1 || !r.URLs[0].IsShortener {
		t.Fatalf("expected shortener finding: %+v", r.URLs)
	}
	var sawThreat, sawAuth bool
	for _, h := range r.Hits {
		switch h.Category {
		case feature.Threat:
			sawThreat = true
		case feature.Authentication:
			sawAuth = true
		}
	}
	if !sawThreat || !sawAuth {
		t.Fatalf("expected threat and authentication hits: %+v", r.Hits)
	}
	if r.Breakdown.Penalty != 1.0 {
		t.Fatalf("corroboration penalty missing: %+v", r.Breakdown)
	}
	if r.Score != 9.9 || r.Tier != verdict.High {
		t.Fatalf("score/tier = %v/%q, want 9.9/high", r.Score, r.Tier)
	}
}

func TestAnalyze_BenignExample(t *testing.T) {
	a := newAnalyzer(t, Options{})
	r := a.Analyze("Hi Mom, see you at 6pm for dinner!")

	if len(r.Hits) != 0 || len(r.URLs) != 0 {
		t.Fatalf("benign message produced evidence: %+v", r)
	}
	if r.Score != 0.3 || r.Tier != verdict.Safe {
		t.Fatalf("score/tier = %v/%q, want 0.3/safe", r.Score, r.Tier)
	}
}

func TestAnalyze_CaseAndSpacingInsensitive(t *testing.T) {
	a := newAnalyzer(t, Options{})
	r1 := a.Analyze("URGENT!!!  Verify   Your   PASSWORD")
	r2 := a.Analyze("urgent!!! VERIFY YOUR password")

	if r1.Score != r2.Score {
		t.Fatalf("scores differ: %v vs %v", r1.Score, r2.Score)
	}
	if r1.Tier != r2.Tier {
		t.Fatalf("tiers differ: %q vs %q", r1.Tier, r2.Tier)
	}
	if r1.Score != 8.7 || r1.Tier != verdict.High {
		t.Fatalf("score/tier = %v/%q, want 8.7/high", r1.Score, r1.Tier)
	}
}

func TestAnalyze_DenylistRaisesScore(t *testing.T) {
	plain := newAnalyzer(t, Options{})
	deny := newAnalyzer(t, Options{
		Denylist: func(host string) bool { return host == "evil.test" },
	})

	in := "offer details at http://evil.test/promo"
	rp := plain.Analyze(in)
	rd := deny.Analyze(in)

	if rp.URLs[0].IsDenylisted {
		t.Fatalf("plain analyzer must not see a denylist")
	}
	if !rd.URLs[0].IsDenylisted {
		t.Fatalf("denylist lookup ignored: %+v", rd.URLs[0])
	}
	if rd.Score <= rp.Score {
		t.Fatalf("denylisted host must raise the score: %v <= %v", rd.Score, rp.Score)
	}
}

func TestAnalyze_LangHintOptIn(t *testing.T) {
	a := newAnalyzer(t, Options{LangHint: true})
	r := a.Analyze("Please confirm whether the shipment arrived at the warehouse this morning.")
	if r.Lang == nil {
		t.Fatalf("expected language hint")
	}
	if r.Lang.Lang != "eng" {
		t.Fatalf("lang = %q, want eng", r.Lang.Lang)
	}

	off := newAnalyzer(t, Options{})
	if r := off.Analyze("Please confirm whether the shipment arrived."); r.Lang != nil {
		t.Fatalf("hint must be opt-in: %+v", r.Lang)
	}
}

func TestAnalyze_ReportDeterminism(t *testing.T) {
	in := "Dear Customer, your PayPal account is suspended. Act now: http://paypa1.xyz/login"
	a := newAnalyzer(t, Options{})
	b := newAnalyzer(t, Options{})

	j1, err := json.Marshal(a.Analyze(in))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	j2, err := json.Marshal(b.Analyze(in))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(j1) != string(j2) {
		t.Fatalf("reports not byte-identical:\n%s\n%s", j1, j2)
	}
}

// internal/core/report/report_test.go
package report

import (
	"reflect"
	"testing"

	"phishbowl/internal/core/feature"
	"phishbowl/internal/core/langhint"
	"phishbowl/internal/core/lexicon"
	"phishbowl/internal/core/normalize"
	"phishbowl/internal/core/score"
	"phishbowl/internal/core/urlscan"
	"phishbowl/internal/core/verdict"
)

func mustBuilder(t *testing.T) *Builder {
	t.Helper()
	p, err := lexicon.Load()
	if err != nil {
		t.Fatalf("lexicon.Load: %v", err)
	}
	return New(p)
}

func hit(c feature.Category, term string, idx int) feature.Hit {
	return feature.Hit{Category: c, Term: term, Weight: 1, Index: idx, Start: -1, End: -1}
}

func TestBuild_TierTextAndRecommendations(t *testing.T) {
	b := mustBuilder(t)

	cases := []struct {
		tier   verdict.Tier
		advice string
	}{
		{verdict.High, "DO NOT interact. This is highly likely to be a phishing attempt."},
		{verdict.Medium, "Exercise extreme caution. Verify sender through official channels."},
		{verdict.Low, "Be cautious. Check for unusual elements before taking action."},
		{verdict.Safe, "Message appears safe, but remain vigilant."},
	}
	for _, tc := range cases {
		r := b.Build(Input{Tier: tc.tier})
		if r.Advice != tc.advice {
			t.Fatalf("%s: advice = %q, want %q", tc.tier, r.Advice, tc.advice)
		}
		if len(r.Recommendations) == 0 {
			t.Fatalf("%s: no recommendations", tc.tier)
		}
		if r.Label != tc.tier.Label() || r.Confidence != tc.tier.Confidence() {
			t.Fatalf("%s: label/confidence not mapped: %+v", tc.tier, r)
		}
	}
}

func TestBuild_HitsSortedByCategoryThenIndex(t *testing.T) {
	b := mustBuilder(t)

	in := Input{
		Tier: verdict.Low,
		Hits: []feature.Hit{
			hit(feature.Statistic, "caps_ratio", 1),
			hit(feature.Authentication, "password", 2),
			hit(feature.Threat, "urgent", 1),
			hit(feature.Authentication, "verify", 1),
			hit(feature.Context, "missing_greeting", 1),
		},
	}
	r := b.Build(in)

	var got []string
	for _, h := range r.Hits {
		got = append(got, string(h.Category)+"/"+h.Term)
	}
	want := []string{
		"threat/urgent",
		"authentication/verify",
		"authentication/password",
		"context/missing_greeting",
		"statistic/caps_ratio",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("hit order = %v, want %v", got, want)
	}
	// input order must be left alone
	if in.Hits[0].Category != feature.Statistic {
		t.Fatalf("input slice was reordered")
	}
}

func TestBuild_SignalLinesInTableOrder(t *testing.T) {
	b := mustBuilder(t)

	r := b.Build(Input{
		Tier: verdict.High,
		Hits: []feature.Hit{
			hit(feature.Statistic, "caps_ratio", 1),
			hit(feature.Threat, "suspended", 1),
			hit(feature.Context, "missing_greeting", 1),
		},
		URLs: []urlscan.Finding{{Raw: "bit.ly/x", Host: "bit.ly", IsShortener: true}},
	})

	want := []string{
		"Contains threat or urgency wording",
		"Missing personalized greeting",
		"Excessive use of capital letters",
		"Contains links",
		"Uses a URL shortener that hides the destination",
	}
	if !reflect.DeepEqual(r.Signals, want) {
		t.Fatalf("signals = %v, want %v", r.Signals, want)
	}
}

func TestBuild_RepeatedHitsOneSignalLine(t *testing.T) {
	b := mustBuilder(t)

	r := b.Build(Input{
		Tier: verdict.Medium,
		Hits: []feature.Hit{
			hit(feature.Threat, "urgent", 1),
			hit(feature.Threat, "suspended", 2),
			hit(feature.Threat, "locked", 3),
		},
	})
	if len(r.Signals) != 1 || r.Signals[0] != "Contains threat or urgency wording" {
		t.Fatalf("signals = %v", r.Signals)
	}
}

func TestBuild_LangHint(t *testing.T) {
	b := mustBuilder(t)

	r := b.Build(Input{Tier: verdict.Safe})
	if r.Lang != nil {
		t.Fatalf("zero hint must stay off the report: %+v", r.Lang)
	}

	h := langhint.Hint{Script: "Latin", Lang: "eng", Confidence: 0.9}
	r = b.Build(Input{Tier: verdict.Safe, Hint: h})
	if r.Lang == nil || *r.Lang != h {
		t.Fatalf("lang = %+v, want %+v", r.Lang, h)
	}
}

func TestBuild_CarriesScoreAndEmptyFlag(t *testing.T) {
	b := mustBuilder(t)
	text := normalize.New().Normalize("   ")

	r := b.Build(Input{
		Text:      text,
		Tier:      verdict.Safe,
		Breakdown: score.Breakdown{Score: 0.3},
	})
	if !r.Empty {
		t.Fatalf("empty flag lost")
	}
	if r.Score != 0.3 {
		t.Fatalf("score = %v", r.Score)
	}
	if len(r.Hits) != 0 || len(r.Signals) != 0 {
		t.Fatalf("expected no evidence: %+v", r)
	}
}

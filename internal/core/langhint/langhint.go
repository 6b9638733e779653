// Package langhint provides a best-effort language hint for analyzed
// messages. The hint is report metadata only; the keyword tables are
// English and no score ever depends on it.
package langhint

import (
	"unicode"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"
)

// minRunes gates detection: shorter inputs are too noisy to call
const minRunes = 20

// reliableConfidence is the floor below which the detector's guess is
// dropped rather than reported
const reliableConfidence = 0.25

// Hint is the detected script and language of one message
type Hint struct {
	Script     string  `json:"script,omitempty"`
	Lang       string  `json:"lang,omitempty"` // ISO 639-3
	Confidence float64 `json:"confidence,omitempty"`
}

// Zero reports whether no hint was produced
func (h Hint) Zero() bool {
	return h.Script == "" && h.Lang == ""
}

// Detect returns the hint for text, or a zero Hint for empty or very
// short input
func Detect(text string) Hint {
	if utf8.RuneCountInString(text) < minRunes {
		return Hint{}
	}

	h := Hint{Script: scriptOf(text)}

	info := whatlanggo.Detect(text)
	if info.Confidence >= reliableConfidence {
		h.Lang = info.Lang.Iso6393()
		h.Confidence = info.Confidence
	}
	return h
}

// scriptOf picks the predominant script by letter count; specific
// scripts win ties against Latin
func scriptOf(s string) string {
	var latin, cyrillic, greek, han, hira, kata, hangul, arabic, hebrew, thai int

	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		switch {
		case unicode.In(r, unicode.Hangul):
			hangul++
		case unicode.In(r, unicode.Hiragana):
			hira++
		case unicode.In(r, unicode.Katakana):
			kata++
		case unicode.In(r, unicode.Han):
			han++
		case unicode.In(r, unicode.Arabic):
			arabic++
		case unicode.In(r, unicode.Hebrew):
			hebrew++
		case unicode.In(r, unicode.Thai):
			thai++
		case unicode.In(r, unicode.Greek):
			greek++
		case unicode.In(r, unicode.Cyrillic):
			cyrillic++
		default:
			if unicode.In(r, unicode.Latin) {
				latin++
			}
		}
	}

	type sc struct {
		name string
		cnt  int
	}
	cands := []sc{
		{"Hiragana", hira},
		{"Katakana", kata},
		{"Hangul", hangul},
		{"Han", han},
		{"Arabic", arabic},
		{"Hebrew", hebrew},
		{"Thai", thai},
		{"Greek", greek},
		{"Cyrillic", cyrillic},
		{"Latin", latin},
	}
	var best sc
	for _, c := range cands {
		if c.cnt > best.cnt {
			best = c
		}
	}
	return best.name
}

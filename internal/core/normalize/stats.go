package normalize

import "unicode"

// Stats are raw-input measurements taken before any folding, so casing
// and punctuation signals survive normalization.
type Stats struct {
	Runes       int // total rune count
	Letters     int
	Uppercase   int
	Digits      int
	Specials    int // punctuation and symbol runes
	MaxPunctRun int // longest run of one repeated punctuation mark

	CapsRatio    float64 // Uppercase / Letters, 0 when no letters
	DigitRatio   float64 // Digits / Runes
	SpecialRatio float64 // Specials / Runes
}

// measure walks the raw input once
func measure(raw string) Stats {
	var st Stats
	var prev rune
	run := 0
	for _, r := range raw {
		st.Runes++
		switch {
		case unicode.IsLetter(r):
			st.Letters++
			if unicode.IsUpper(r) {
				st.Uppercase++
			}
		case unicode.IsDigit(r):
			st.Digits++
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			st.Specials++
		}
		if (unicode.IsPunct(r) || unicode.IsSymbol(r)) && r == prev {
			run++
		} else {
			run = 1
		}
		if run > st.MaxPunctRun && (unicode.IsPunct(r) || unicode.IsSymbol(r)) {
			st.MaxPunctRun = run
		}
		prev = r
	}
	if st.Letters > 0 {
		st.CapsRatio = float64(st.Uppercase) / float64(st.Letters)
	}
	if st.Runes > 0 {
		st.DigitRatio = float64(st.Digits) / float64(st.Runes)
		st.SpecialRatio = float64(st.Specials) / float64(st.Runes)
	}
	return st
}

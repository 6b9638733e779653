package module

import "phishbowl/internal/platform/config"

// Options controls analyze request handling
type Options struct {
	// MaxBytes caps the accepted message size
	MaxBytes int
	// ExcerptRunes bounds the excerpt stored with history rows
	ExcerptRunes int
	// LangHint toggles language detection on reports
	LangHint bool
}

// FromConfig reads ANALYZE_* values from the API service view of the
// env, so the knobs live at CORE_API_ANALYZE_*
func FromConfig(cfg config.Conf) Options {
	ac := cfg.Prefix("ANALYZE_")
	return Options{
		MaxBytes:     ac.MayInt("MAX_BYTES", 64*1024),
		ExcerptRunes: ac.MayInt("EXCERPT_RUNES", 140),
		LangHint:     ac.MayBool("LANG_HINT", true),
	}
}

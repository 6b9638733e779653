package module

import "phishbowl/internal/platform/config"

// Options holds configuration settings for the scan module
type Options struct {
	Version       int
	Workers       int
	PageSize      int
	MaxRangeHours int
	ExcerptRunes  int
	LangHint      bool
	DryRun        bool
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	sf := cfg.Prefix("CORE_SCAN_")
	return Options{
		Version:       sf.MayInt("VERSION", 1),
		Workers:       sf.MayInt("WORKERS", 4),
		PageSize:      sf.MayInt("PAGE_SIZE", 5000),
		MaxRangeHours: sf.MayInt("MAX_RANGE_HOURS", 0),
		ExcerptRunes:  sf.MayInt("EXCERPT_RUNES", 140),
		LangHint:      sf.MayBool("LANG_HINT", true),
		DryRun:        sf.MayBool("DRY_RUN", false),
	}
}

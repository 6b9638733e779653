package module

import (
	"time"

	"phishbowl/internal/platform/config"
)

// Options controls feeds behavior. Values may also be read from env
type Options struct {
	FeedURL    string
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	RetryBase  time.Duration

	Interval       time.Duration
	Jitter         time.Duration
	RetainDays     int
	ReloadInterval time.Duration
}

// FromConfig reads options using the CORE_FEEDS_ prefix
func FromConfig(cfg config.Conf) Options {
	ff := cfg.Prefix("CORE_FEEDS_")
	return Options{
		FeedURL:        ff.MayString("URL", ""),
		UserAgent:      ff.MayString("USER_AGENT", "phishbowl-feeds"),
		Timeout:        ff.MayDuration("TIMEOUT", 30*time.Second),
		MaxRetries:     ff.MayInt("MAX_RETRIES", 4),
		RetryBase:      ff.MayDuration("RETRY_BASE", 500*time.Millisecond),
		Interval:       ff.MayDuration("INTERVAL", time.Hour),
		Jitter:         ff.MayDuration("JITTER", 30*time.Second),
		RetainDays:     ff.MayInt("RETAIN_DAYS", 7),
		ReloadInterval: ff.MayDuration("RELOAD_INTERVAL", 5*time.Minute),
	}
}

package module

import "phishbowl/internal/platform/config"

// Options configures the history module
type Options struct {
	// AdminToken guards the purge endpoint; empty disables it entirely
	AdminToken string
}

// FromConfig reads options from the API service view of the env, so
// the token lives at CORE_API_ADMIN_TOKEN
func FromConfig(cfg config.Conf) Options {
	return Options{
		AdminToken: cfg.MayString("ADMIN_TOKEN", ""),
	}
}

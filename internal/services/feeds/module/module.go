// Package module wires the feeds service and exposes its ports
package module

import (
	"net/http"

	"phishbowl/internal/adapters/ingest/feedpull"
	"phishbowl/internal/modkit"
	"phishbowl/internal/modkit/httpkit"
	"phishbowl/internal/modkit/repokit"
	"phishbowl/internal/services/feeds/domain"
	"phishbowl/internal/services/feeds/repo"
	"phishbowl/internal/services/feeds/service"
)

// Ports exposed by the feeds module
type Ports struct {
	Refresher domain.RefresherPort
	Lookup    domain.LookupPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the feeds module with its ports
func New(deps modkit.Deps, overrides Options) *Module {
	opts := FromConfig(deps.Cfg)

	if overrides.FeedURL != "" {
		opts.FeedURL = overrides.FeedURL
	}
	if overrides.Interval != 0 {
		opts.Interval = overrides.Interval
	}
	if overrides.RetainDays != 0 {
		opts.RetainDays = overrides.RetainDays
	}

	client := feedpull.NewClient(feedpull.Options{
		UserAgent:  opts.UserAgent,
		Timeout:    opts.Timeout,
		MaxRetries: opts.MaxRetries,
		RetryBase:  opts.RetryBase,
	})

	svc := service.New(repokit.TxRunner(deps.PG), repo.NewPG(), client, service.Config{
		FeedURL:        opts.FeedURL,
		Interval:       opts.Interval,
		Jitter:         opts.Jitter,
		RetainDays:     opts.RetainDays,
		ReloadInterval: opts.ReloadInterval,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Refresher: svc, Lookup: svc}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return "feeds" }

// Ports returns the module ports (Refresher, Lookup)
func (m *Module) Ports() any { return m.ports }

// Prefix returns the module route prefix (none; feeds is a worker)
func (m *Module) Prefix() string { return "" }

// Middlewares returns no middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return nil }

// MountRoutes mounts nothing; feeds has no HTTP surface
func (m *Module) MountRoutes(_ httpkit.Router) {}

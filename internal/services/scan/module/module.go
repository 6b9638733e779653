// Package module implements the scan module
package module

import (
	"net/http"

	"phishbowl/internal/core/analyzer"
	"phishbowl/internal/core/urlscan"
	"phishbowl/internal/modkit"
	"phishbowl/internal/modkit/httpkit"
	"phishbowl/internal/modkit/repokit"
	msgdom "phishbowl/internal/services/messages/domain"
	"phishbowl/internal/services/scan/domain"
	"phishbowl/internal/services/scan/repo"
	"phishbowl/internal/services/scan/service"
)

// Deps are the ports and seams the scan module needs from its callers
type Deps struct {
	Messages msgdom.ReaderPort
	Marker   msgdom.WriterPort
	Events   domain.EventSink // nil disables the analytics double-write
	Denylist urlscan.Lookup   // nil disables the denylist check
}

// Ports exposed by the scan module
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new scan module
func New(deps modkit.Deps, wired Deps, overrides Options) *Module {
	if wired.Messages == nil || wired.Marker == nil {
		panic("scan module: Deps missing Messages reader or Marker writer")
	}

	// Merge config + overrides
	cfg := FromConfig(deps.Cfg)
	if overrides.Version != 0 {
		cfg.Version = overrides.Version
	}
	if overrides.Workers != 0 {
		cfg.Workers = overrides.Workers
	}
	if overrides.PageSize != 0 {
		cfg.PageSize = overrides.PageSize
	}
	if overrides.MaxRangeHours != 0 {
		cfg.MaxRangeHours = overrides.MaxRangeHours
	}
	// bool override wins (defaults false if caller didn't set)
	cfg.DryRun = overrides.DryRun

	an, err := analyzer.New(analyzer.Options{
		Denylist: wired.Denylist,
		LangHint: cfg.LangHint,
	})
	if err != nil {
		panic(err)
	}

	writer := service.NewPGWriter(repokit.TxRunner(deps.PG), repo.NewPG())

	runner := service.New(
		wired.Messages,
		wired.Marker,
		writer,
		wired.Events,
		an,
		service.Config{
			Version:       cfg.Version,
			Workers:       cfg.Workers,
			PageSize:      cfg.PageSize,
			MaxRangeHours: cfg.MaxRangeHours,
			ExcerptRunes:  cfg.ExcerptRunes,
			DryRun:        cfg.DryRun,
		},
	)

	m := &Module{deps: deps}
	m.ports = Ports{Runner: runner}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "scan" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// Middlewares satisfies modkit.Module
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return nil }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(_ httpkit.Router) {}

// Package module wires analyze into the API using modkit
package module

import (
	"net/http"

	"phishbowl/internal/core/analyzer"
	"phishbowl/internal/core/lexicon"
	"phishbowl/internal/core/urlscan"
	modkit "phishbowl/internal/modkit"
	"phishbowl/internal/modkit/httpkit"
	str "phishbowl/internal/platform/strings"
	analyzehttp "phishbowl/internal/services/api/analyze/http"
	analyzesvc "phishbowl/internal/services/api/analyze/service"
	historydom "phishbowl/internal/services/api/history/domain"
)

// Ports declares the injected dependencies for this API module
type Ports struct {
	// Recorder persists one summary per analysis; nil disables history
	Recorder historydom.RecorderPort
	// Denylist is the feeds snapshot lookup; nil disables the check
	Denylist urlscan.Lookup
	// Pack reuses an already-loaded lexicon; nil loads the embedded one
	Pack *lexicon.Pack
}

// Module implements the analyze module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc analyzesvc.Service
}

// New constructs the analyze module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("analyze"),
		modkit.WithPrefix("/analyze"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}

	cfg := FromConfig(deps.Cfg)

	var an *analyzer.Analyzer
	anOpts := analyzer.Options{
		Denylist: injected.Denylist,
		LangHint: cfg.LangHint,
	}
	if injected.Pack != nil {
		an = analyzer.NewWithPack(injected.Pack, anOpts)
	} else {
		var err error
		an, err = analyzer.New(anOpts)
		if err != nil {
			panic(err)
		}
	}

	svc := analyzesvc.New(an, injected.Recorder, analyzesvc.Options{
		MaxBytes:     cfg.MaxBytes,
		ExcerptRunes: cfg.ExcerptRunes,
	})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	external := b.Register
	m.register = func(r httpkit.Router) {
		analyzehttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Ports returns the module ports; analyze consumes ports but exposes none
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

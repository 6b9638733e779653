// Package module wires history into the API using modkit
package module

import (
	stdhttp "net/http"
	"strings"

	modkit "phishbowl/internal/modkit"
	"phishbowl/internal/modkit/httpkit"
	perr "phishbowl/internal/platform/errors"
	phttp "phishbowl/internal/platform/net/http"
	str "phishbowl/internal/platform/strings"
	historyhttp "phishbowl/internal/services/api/history/http"
	historyrepo "phishbowl/internal/services/api/history/repo"
	historysvc "phishbowl/internal/services/api/history/service"
)

// Module implements the history module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(stdhttp.Handler) stdhttp.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc historysvc.Service
}

// tokenAuth implements middleware.AuthPort over the configured operator
// token. Every valid bearer grants operator rights; there are no
// non-admin tokens
type tokenAuth struct{ token string }

// Parse validates the Authorization header against the operator token
func (a tokenAuth) Parse(r *stdhttp.Request) (string, bool, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false, perr.Unauthorizedf("missing bearer token")
	}
	tok, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || tok != a.token {
		return "", false, perr.Unauthorizedf("invalid bearer token")
	}
	return "operator", true, nil
}

// New constructs the history module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("history"),
		modkit.WithPrefix("/history"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)

	repo := historyrepo.NewPG()
	svc := historysvc.New(deps.PG, repo)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Recorder: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		historyhttp.Register(r, m.svc)

		// Purge surface only exists when an operator token is set
		if cfg.AdminToken != "" {
			httpkit.Protected(r, tokenAuth{token: cfg.AdminToken}, func(pr httpkit.Router) {
				pr.Group(func(gr httpkit.Router) {
					gr.Use(httpkit.RequireAdmin(phttp.JSON))
					historyhttp.RegisterAdmin(gr, m.svc)
				})
			})
		}

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

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(stdhttp.Handler) stdhttp.Handler { return m.mws }

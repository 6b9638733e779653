// Package api provides the HTTP API for the application
package api

import (
	"phishbowl/internal/core/lexicon"
	"phishbowl/internal/core/urlscan"
	"phishbowl/internal/platform/config"
	"phishbowl/internal/platform/logger"
	phttp "phishbowl/internal/platform/net/http"
	"phishbowl/internal/platform/store"

	"phishbowl/internal/modkit"
	"phishbowl/internal/modkit/httpkit"
	"phishbowl/internal/modkit/module"
	"phishbowl/internal/modkit/swaggerkit"

	analyzemod "phishbowl/internal/services/api/analyze/module"
	historymod "phishbowl/internal/services/api/history/module"
	metamod "phishbowl/internal/services/api/meta/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool

	// Denylist is the live feeds snapshot; nil disables the URL denylist check
	Denylist urlscan.Lookup
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) error {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}

	// One pack load shared by analyze (pipeline) and meta (introspection)
	pack, err := lexicon.Load()
	if err != nil {
		return err
	}

	// Construct history first and extract its Recorder port
	historyMod := historymod.New(deps)
	rec := module.MustPortsOf[historymod.Ports](historyMod).Recorder

	// Inject the Recorder (and the live denylist, when present) into analyze
	analyzeMod := analyzemod.New(
		deps,
		modkit.WithPorts(analyzemod.Ports{
			Recorder: rec,
			Denylist: opt.Denylist,
			Pack:     pack,
		}),
	)

	mods := []module.Module{
		metamod.New(deps, modkit.WithPorts(metamod.Ports{Pack: pack})),
		historyMod,
		analyzeMod,
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})

	return nil
}

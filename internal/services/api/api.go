// Package api provides the HTTP API for the application
package api

import (
	"net/http"
	"time"

	"satd/internal/core/detector"
	"satd/internal/platform/config"
	phttp "satd/internal/platform/net/http"
	"satd/internal/platform/net/middleware"
	"satd/internal/platform/store/pg"

	"satd/internal/modkit"
	"satd/internal/modkit/httpkit"
	"satd/internal/modkit/module"
	"satd/internal/modkit/swaggerkit"

	classifymod "satd/internal/services/classify/module"
	metahttp "satd/internal/services/meta/http"
	metamod "satd/internal/services/meta/module"
)

// Options are the API options
type Options struct {
	// Config is the CORE_API_ view
	Config   config.Conf
	Detector *detector.Detector
	// PG is pinged by the readiness probe; nil when vectors come from a file
	PG             *pg.PG
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// modules read their own keys (SATD_*) from the unprefixed view
	deps := modkit.Deps{
		Cfg:      config.New(),
		Detector: opt.Detector,
	}

	mods := []module.Module{
		metamod.New(deps, readiness(opt.PG)),
		classifymod.New(deps, classifymod.Options{}, modkit.WithMiddlewares(classifyStack(opt.Config)...)),
	}

	stack := httpkit.CommonStack(httpkit.StackOptions{
		AllowedOrigins: opt.Config.MayCSV("CORS_ORIGINS", nil),
		MaxInFlight:    opt.Config.MayInt("MAX_IN_FLIGHT", 0),
		SlowRequest:    opt.Config.MayDuration("SLOW_REQUEST", 500*time.Millisecond),
	})

	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name for cross-module lookups
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})
}

// classifyStack is the classify module's own middleware. CLASSIFY_MAX_IN_FLIGHT caps
// concurrent classify requests below the API-wide limit; 0 leaves them unthrottled
func classifyStack(c config.Conf) []func(http.Handler) http.Handler {
	var mw []func(http.Handler) http.Handler
	if n := c.MayInt("CLASSIFY_MAX_IN_FLIGHT", 0); n > 0 {
		mw = append(mw, middleware.Throttle(n))
	}
	return mw
}

// readiness avoids handing the meta module a typed nil
func readiness(db *pg.PG) metahttp.Pinger {
	if db == nil {
		return nil
	}
	return db
}

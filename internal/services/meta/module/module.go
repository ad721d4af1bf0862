// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"net/http"
	"time"

	"satd/internal/modkit"
	"satd/internal/modkit/httpkit"
	"satd/internal/modkit/swaggerkit"
	str "satd/internal/platform/strings"

	metahttp "satd/internal/services/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	deps   metahttp.Deps
}

// New constructs a meta module. pinger may be nil when no database is in use
func New(deps modkit.Deps, pinger metahttp.Pinger, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	md := metahttp.Deps{
		ServiceName: deps.Cfg.MayString("SERVICE_NAME", "satd-api"),
		StartedAt:   time.Now(),
		PG:          pinger,
	}
	if deps.Detector != nil {
		md.Detector = deps.Detector
	}

	return &Module{
		name:   str.MustString(b.Name, "meta module name"),
		prefix: str.MustPrefix(b.Prefix),
		mws:    b.Mw,
		deps:   md,
	}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	swaggerkit.Register(metahttp.Docs("/api/v1" + m.prefix))
	httpkit.MountUnder(r, m.prefix, m.mws, func(rr httpkit.Router) {
		metahttp.Register(rr, m.deps)
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }

// Package module wires the classify service into the API
package module

import (
	"net/http"

	"satd/internal/modkit"
	"satd/internal/modkit/httpkit"
	"satd/internal/modkit/swaggerkit"
	str "satd/internal/platform/strings"

	"satd/internal/services/classify/domain"
	classifyhttp "satd/internal/services/classify/http"
	"satd/internal/services/classify/service"
)

// Ports exposed by the classify module
type Ports struct {
	Classifier domain.ClassifierPort
}

// Module implements modkit.Module
type Module struct {
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	ports  Ports
}

// New constructs the classify module. deps.Detector is required
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("classify"),
		modkit.WithPrefix("/classify"),
	}, opts...)...)

	if deps.Detector == nil {
		panic("classify module: Deps.Detector is required")
	}

	cfg := FromConfig(deps.Cfg)
	if overrides.Workers != 0 {
		cfg.Workers = overrides.Workers
	}

	m := &Module{
		name:   str.MustString(b.Name, "classify module name"),
		prefix: str.MustPrefix(b.Prefix),
		mws:    b.Mw,
	}
	m.ports = Ports{
		Classifier: service.New(deps.Detector, service.Config{Workers: cfg.Workers}),
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	swaggerkit.Register(classifyhttp.Docs("/api/v1" + m.prefix))
	httpkit.MountUnder(r, m.prefix, m.mws, func(rr httpkit.Router) {
		classifyhttp.Register(rr, m.ports.Classifier)
	})
}

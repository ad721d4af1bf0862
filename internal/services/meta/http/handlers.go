// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"satd/internal/core/detector"
	"satd/internal/core/version"
	"satd/internal/modkit/httpkit"
	"satd/internal/modkit/swaggerkit"
)

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// InfoSource reports detector shapes and cache counters
type InfoSource interface {
	Info() detector.Info
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Detector    InfoSource
	// PG is pinged by /ready when vectors come from Postgres; nil is skipped
	PG Pinger
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/detector", h.detector)
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Started string `json:"started"`
	Uptime  int64  `json:"uptime"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // ok fail skipped
	Error  string `json:"error,omitempty"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status"` // ok fail
	Checks []ReadyCheck `json:"checks"`
}

// DetectorResponse reports the loaded pipeline
type DetectorResponse struct {
	detector.Info
	Build version.BuildInfo `json:"build"`
}

// GET /meta/health
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(time.Since(h.deps.StartedAt) / time.Second),
	}, nil
}

// GET /meta/ready
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	det := ReadyCheck{Name: "detector", Status: "ok"}
	if h.deps.Detector == nil {
		det = ReadyCheck{Name: "detector", Status: "fail", Error: "not loaded"}
	}
	pg := ReadyCheck{Name: "pg", Status: "skipped"}
	if h.deps.PG != nil {
		pg.Status = "ok"
		if err := h.deps.PG.Ping(ctx); err != nil {
			pg = ReadyCheck{Name: "pg", Status: "fail", Error: err.Error()}
		}
	}

	overall := "ok"
	if det.Status == "fail" || pg.Status == "fail" {
		overall = "fail"
	}
	return ReadyResponse{Status: overall, Checks: []ReadyCheck{det, pg}}, nil
}

// GET /meta/version
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(h.deps.ServiceName), nil
}

// GET /meta/detector
func (h *handlers) detector(_ *http.Request) (any, error) {
	out := DetectorResponse{Build: version.Info(h.deps.ServiceName)}
	if h.deps.Detector != nil {
		out.Info = h.deps.Detector.Info()
	}
	return out, nil
}

// Docs adds the meta routes under prefix to the OpenAPI document
func Docs(prefix string) swaggerkit.SpecMutator {
	return func(d *swaggerkit.Doc) {
		for path, summary := range map[string]string{
			"/health":   "Liveness and uptime",
			"/ready":    "Readiness with dependency checks",
			"/version":  "Build and version info",
			"/detector": "Sequence length, embedding dimension, labels and cache counters",
		} {
			d.Paths[prefix+path] = swaggerkit.Path{"get": {
				Summary:   summary,
				Tags:      []string{"Meta"},
				Responses: map[string]swaggerkit.Response{"200": {Description: "ok"}},
			}}
		}
	}
}

package httpkit

import (
	"net/http"
	"time"

	"satd/internal/platform/net/middleware"
)

// StackOptions tunes the per-API middleware stack
type StackOptions struct {
	// AllowedOrigins for CORS; empty allows any origin
	AllowedOrigins []string
	// MaxInFlight caps concurrent requests; 0 disables throttling
	MaxInFlight int
	// SlowRequest marks access log lines as warn at or above this duration
	SlowRequest time.Duration
}

// CommonStack returns the API scope middleware: access log, CORS and optional throttle.
// The root mux carries middleware.Defaults
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	out := []func(http.Handler) http.Handler{
		middleware.AccessLog(middleware.AccessLogOptions{Slow: o.SlowRequest}),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.AllowedOrigins}),
	}
	if o.MaxInFlight > 0 {
		out = append(out, middleware.Throttle(o.MaxInFlight))
	}
	return out
}

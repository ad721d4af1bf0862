// Package module defines the minimal contract for a modkit module
package module

import (
	phttp "satd/internal/platform/net/http"
)

// Module is the contract modkit mounts. It lives in its own package so a module can
// export a ports type without import knots
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}

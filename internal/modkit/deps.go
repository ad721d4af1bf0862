// Package modkit provides module wiring and core deps
package modkit

import (
	"satd/internal/core/detector"
	"satd/internal/platform/config"
	"satd/internal/platform/logger"
)

// Deps holds core dependencies passed to modules. Wiring only
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	// Detector is the ready classification pipeline; nil in tests that never classify
	Detector *detector.Detector
}

package module

import (
	"runtime"

	"satd/internal/platform/config"
)

// Options holds configuration settings for the classify module
type Options struct {
	Workers int
}

// FromConfig extracts Options from SATD_* keys
func FromConfig(cfg config.Conf) Options {
	sc := cfg.Prefix("SATD_")
	return Options{
		Workers: sc.MayInt("WORKERS", runtime.NumCPU()),
	}
}

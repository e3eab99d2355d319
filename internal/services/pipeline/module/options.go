package module

import (
	"time"

	"factlens/internal/platform/config"
)

// Options controls the pipeline controller
type Options struct {
	MaxContentChars int
	RequestTimeout  time.Duration
}

// FromConfig reads with CORE_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_")
	return Options{
		MaxContentChars: c.MayIntAtLeast("PIPELINE_MAX_CONTENT_CHARS", 5000, 1),
		RequestTimeout:  c.MayDuration("PIPELINE_REQUEST_TIMEOUT", 0),
	}
}

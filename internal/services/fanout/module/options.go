package module

import (
	"time"

	"factlens/internal/platform/config"
)

// Options controls the fan-out
type Options struct {
	MaxConcurrent int
	WorkerTimeout time.Duration
}

// FromConfig reads with CORE_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_")
	return Options{
		MaxConcurrent: c.MayIntAtLeast("PIPELINE_MAX_CONCURRENT_WORKERS", 3, 1),
		WorkerTimeout: c.MaySeconds("PIPELINE_WORKER_TIMEOUT_SECONDS", 120*time.Second),
	}
}

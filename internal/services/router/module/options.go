package module

import "factlens/internal/platform/config"

// Options controls the router
type Options struct {
	MaxSelected int
	// CacheSize bounds the classification cache; nil leaves the configured size, 0 disables it
	CacheSize *int
}

// FromConfig reads with CORE_ prefix; the selection cap is shared with the pipeline
// the cache is off unless ROUTER_CACHE_SIZE is set, so every request gets its own classification
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_")
	size := c.MayIntAtLeast("ROUTER_CACHE_SIZE", 0, 0)
	return Options{
		MaxSelected: c.MayIntAtLeast("PIPELINE_MAX_SELECTED_WORKERS", 3, 1),
		CacheSize:   &size,
	}
}

package module

import "factlens/internal/platform/config"

// Options controls the worker catalog
type Options struct {
	// CatalogFile replaces the embedded catalog when set
	CatalogFile string
}

// FromConfig reads with WORKERS_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("WORKERS_")
	return Options{
		CatalogFile: c.MayString("CATALOG_FILE", ""),
	}
}

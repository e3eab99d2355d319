// Package modkit provides module wiring and core deps
package modkit

import (
	"factlens/internal/adapters/llm"
	"factlens/internal/platform/config"
	"factlens/internal/platform/logger"
	"factlens/internal/platform/metrics"
)

// Deps holds the shared dependencies every module constructor receives
type Deps struct {
	Log logger.Logger
	Cfg config.Conf

	// LLM serves the router and the workers
	LLM llm.Provider
	// VerdictLLM serves the aggregator; nil falls back to LLM
	VerdictLLM llm.Provider

	// Metrics may be nil, every recorder is nil safe
	Metrics *metrics.Metrics
}

// Verdict returns the provider the aggregator should call
func (d Deps) Verdict() llm.Provider {
	if d.VerdictLLM != nil {
		return d.VerdictLLM
	}
	return d.LLM
}

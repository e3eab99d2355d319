// Package module wires the router classifier and exposes its ports
package module

import (
	"fmt"

	"factlens/internal/modkit"
	"factlens/internal/modkit/httpkit"
	"factlens/internal/services/router/service"
)

// Module defines the router module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the classifier; pass Needs with modkit.WithPorts
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) (*Module, error) {
	o := FromConfig(deps.Cfg)
	if overrides.MaxSelected != 0 {
		o.MaxSelected = overrides.MaxSelected
	}
	if overrides.CacheSize != nil {
		o.CacheSize = overrides.CacheSize
	}

	needs, ok := modkit.Build(opts...).Ports.(Needs)
	if !ok {
		return nil, fmt.Errorf("router: missing workers ports")
	}
	c, err := service.New(deps.LLM, needs.Registry, needs.Catalog, service.Config{
		MaxSelected: o.MaxSelected,
		CacheSize:   *o.CacheSize,
	}, deps.Metrics)
	if err != nil {
		return nil, err
	}
	return &Module{deps: deps, ports: Ports{Classifier: c}}, nil
}

// Ports returns the module ports (Classifier)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "router" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}

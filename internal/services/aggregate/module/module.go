// Package module wires the aggregator and exposes its ports
package module

import (
	"fmt"

	"factlens/internal/core/promptpack"
	"factlens/internal/modkit"
	"factlens/internal/modkit/httpkit"
	dom "factlens/internal/services/aggregate/domain"
	"factlens/internal/services/aggregate/service"
)

// Ports holds the ports exposed by the aggregate module
type Ports struct {
	Synthesizer dom.SynthesizerPort
}

// Module defines the aggregate module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New binds the verdict provider to the catalog passed with modkit.WithPorts[*promptpack.Pack]
func New(deps modkit.Deps, opts ...modkit.Option) (*Module, error) {
	pack, ok := modkit.Build(opts...).Ports.(*promptpack.Pack)
	if !ok || pack == nil {
		return nil, fmt.Errorf("aggregate: missing catalog")
	}
	s, err := service.New(deps.Verdict(), pack, deps.Metrics)
	if err != nil {
		return nil, err
	}
	return &Module{deps: deps, ports: Ports{Synthesizer: s}}, nil
}

// Ports returns the module ports (Synthesizer)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "aggregate" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}

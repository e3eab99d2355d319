// Package module wires the fan-out dispatcher and exposes its ports
package module

import (
	"fmt"

	"factlens/internal/modkit"
	"factlens/internal/modkit/httpkit"
	dom "factlens/internal/services/fanout/domain"
	"factlens/internal/services/fanout/service"
	wdom "factlens/internal/services/workers/domain"
)

// Ports holds the ports exposed by the fan-out module
type Ports struct {
	Dispatcher dom.DispatcherPort
}

// Module defines the fan-out module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the dispatcher; pass the worker registry with modkit.WithPorts
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) (*Module, error) {
	o := FromConfig(deps.Cfg)
	if overrides.MaxConcurrent != 0 {
		o.MaxConcurrent = overrides.MaxConcurrent
	}
	if overrides.WorkerTimeout != 0 {
		o.WorkerTimeout = overrides.WorkerTimeout
	}

	reg, ok := modkit.Build(opts...).Ports.(wdom.RegistryPort)
	if !ok {
		return nil, fmt.Errorf("fanout: missing worker registry")
	}
	d, err := service.New(reg, service.Config{
		MaxConcurrent: o.MaxConcurrent,
		WorkerTimeout: o.WorkerTimeout,
	}, deps.Metrics)
	if err != nil {
		return nil, err
	}
	return &Module{deps: deps, ports: Ports{Dispatcher: d}}, nil
}

// Ports returns the module ports (Dispatcher)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "fanout" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}

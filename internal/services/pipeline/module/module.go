// Package module wires the pipeline controller over the worker, router, fan-out and aggregate modules
package module

import (
	"fmt"

	"factlens/internal/core/promptpack"
	"factlens/internal/modkit"
	"factlens/internal/modkit/httpkit"
	"factlens/internal/modkit/module"
	adom "factlens/internal/services/aggregate/domain"
	aggmod "factlens/internal/services/aggregate/module"
	fdom "factlens/internal/services/fanout/domain"
	fanmod "factlens/internal/services/fanout/module"
	dom "factlens/internal/services/pipeline/domain"
	"factlens/internal/services/pipeline/service"
	rdom "factlens/internal/services/router/domain"
	routermod "factlens/internal/services/router/module"
	wdom "factlens/internal/services/workers/domain"
	workersmod "factlens/internal/services/workers/module"
)

// Ports holds the ports exposed by the pipeline module
type Ports struct {
	Controller dom.ControllerPort
}

// Needs are the stage ports the controller drives
type Needs struct {
	Classifier  rdom.ClassifierPort
	Dispatcher  fdom.DispatcherPort
	Synthesizer adom.SynthesizerPort
}

// Module defines the pipeline module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the controller; pass Needs with modkit.WithPorts
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) (*Module, error) {
	o := FromConfig(deps.Cfg)
	if overrides.MaxContentChars != 0 {
		o.MaxContentChars = overrides.MaxContentChars
	}
	if overrides.RequestTimeout != 0 {
		o.RequestTimeout = overrides.RequestTimeout
	}

	needs, ok := modkit.Build(opts...).Ports.(Needs)
	if !ok {
		return nil, fmt.Errorf("pipeline: missing stage ports")
	}
	c, err := service.New(needs.Classifier, needs.Dispatcher, needs.Synthesizer, service.Config{
		MaxContentChars: o.MaxContentChars,
		RequestTimeout:  o.RequestTimeout,
	}, deps.Metrics)
	if err != nil {
		return nil, err
	}
	return &Module{deps: deps, ports: Ports{Controller: c}}, nil
}

// Ports returns the module ports (Controller)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "pipeline" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}

// Stack is every module a running pipeline needs, in construction order
type Stack struct {
	Workers   *workersmod.Module
	Router    *routermod.Module
	Fanout    *fanmod.Module
	Aggregate *aggmod.Module
	Pipeline  *Module
}

// Modules lists the stack for registration and mounting
func (s *Stack) Modules() []module.Module {
	return []module.Module{s.Workers, s.Router, s.Fanout, s.Aggregate, s.Pipeline}
}

// Controller is the assembled pipeline
func (s *Stack) Controller() dom.ControllerPort { return s.Pipeline.ports.Controller }

// Registry is the assembled worker registry
func (s *Stack) Registry() wdom.RegistryPort {
	return module.MustPortsOf[wdom.RegistryPort](s.Workers)
}

// Assemble builds the whole stack from shared deps
// evidence may be nil, in which case workers run without it
func Assemble(deps modkit.Deps, evidence wdom.EvidencePort) (*Stack, error) {
	var wopts []modkit.Option
	if evidence != nil {
		wopts = append(wopts, modkit.WithPorts(evidence))
	}
	workers, err := workersmod.New(deps, workersmod.Options{}, wopts...)
	if err != nil {
		return nil, err
	}
	wp := workers.Ports().(workersmod.Ports)

	router, err := routermod.New(deps, routermod.Options{}, modkit.WithPorts(routermod.Needs{
		Registry: wp.Registry,
		Catalog:  wp.Catalog,
	}))
	if err != nil {
		return nil, err
	}
	fanout, err := fanmod.New(deps, fanmod.Options{}, modkit.WithPorts(wp.Registry))
	if err != nil {
		return nil, err
	}
	agg, err := aggmod.New(deps, modkit.WithPorts[*promptpack.Pack](wp.Catalog))
	if err != nil {
		return nil, err
	}

	pipe, err := New(deps, Options{}, modkit.WithPorts(Needs{
		Classifier:  module.MustPortsOf[rdom.ClassifierPort](router),
		Dispatcher:  module.MustPortsOf[fdom.DispatcherPort](fanout),
		Synthesizer: module.MustPortsOf[adom.SynthesizerPort](agg),
	}))
	if err != nil {
		return nil, err
	}
	return &Stack{Workers: workers, Router: router, Fanout: fanout, Aggregate: agg, Pipeline: pipe}, nil
}

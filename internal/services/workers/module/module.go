// Package module wires the worker registry and exposes its ports
package module

import (
	"fmt"
	"os"

	"factlens/internal/core/promptpack"
	"factlens/internal/modkit"
	"factlens/internal/modkit/httpkit"
	"factlens/internal/platform/logger"
	dom "factlens/internal/services/workers/domain"
	"factlens/internal/services/workers/service"
)

// Module defines the workers module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New builds the registry from the configured catalog
// an evidence provider may be passed with modkit.WithPorts[dom.EvidencePort]
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) (*Module, error) {
	o := FromConfig(deps.Cfg)
	if overrides.CatalogFile != "" {
		o.CatalogFile = overrides.CatalogFile
	}

	pack, err := loadCatalog(o.CatalogFile)
	if err != nil {
		return nil, err
	}

	evidence, _ := modkit.Build(opts...).Ports.(dom.EvidencePort)
	reg, err := service.FromPack(pack, deps.LLM, evidence)
	if err != nil {
		return nil, err
	}

	logger.Named("workers").Info().Int("workers", len(pack.Workers)).Strs("defaults", pack.Defaults).Bool("evidence", evidence != nil).Msg("worker registry ready")
	return &Module{deps: deps, ports: Ports{Registry: reg, Catalog: pack}}, nil
}

func loadCatalog(path string) (*promptpack.Pack, error) {
	if path == "" {
		return promptpack.Load()
	}
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("workers: read catalog %s: %w", path, err)
	}
	return promptpack.Parse(doc)
}

// Ports returns the module ports (Registry, Catalog)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "workers" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}

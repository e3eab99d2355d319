// Package module wires meta endpoints into the API
package module

import (
	"net/http"
	"time"

	modkit "factlens/internal/modkit"
	"factlens/internal/modkit/httpkit"
	"factlens/internal/modkit/module"
	str "factlens/internal/platform/strings"
	workersmod "factlens/internal/services/workers/module"

	metahttp "factlens/internal/services/api/meta/http"
)

// ServiceName is reported by the health and service endpoints
const ServiceName = "factlens-api"

// Module serves /meta
type Module struct {
	name      string
	prefix    string
	mws       []func(http.Handler) http.Handler
	startedAt time.Time
}

// New constructs a meta module
func New(_ modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)
	return &Module{name: b.Name, prefix: b.Prefix, mws: b.Mw, startedAt: time.Now()}
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.Prefix(), m.mws, func(rr httpkit.Router) {
		metahttp.Register(rr, metahttp.Deps{
			ServiceName: ServiceName,
			StartedAt:   m.startedAt,
			Workers:     workerCount,
		})
	})
}

// workerCount reads the worker registry at request time, after Mount registered it
func workerCount() int {
	p, ok := module.PortsAs[workersmod.Ports]("workers")
	if !ok || p.Registry == nil {
		return 0
	}
	return len(p.Registry.AllNames())
}

// Name implements modkit.Module
func (m *Module) Name() string { return str.MustString(m.name, "meta") }

// Prefix is the mount path
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Ports implements modkit.Module; meta exposes none
func (m *Module) Ports() any { return nil }

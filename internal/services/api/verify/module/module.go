// Package module mounts the verify endpoints over the assembled pipeline
package module

import (
	"fmt"
	"net/http"

	modkit "factlens/internal/modkit"
	"factlens/internal/modkit/httpkit"
	str "factlens/internal/platform/strings"

	verifyhttp "factlens/internal/services/api/verify/http"
)

// Ports is what the verify module consumes; pass it with modkit.WithPorts
type Ports = verifyhttp.Deps

// Module serves /verify
type Module struct {
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	ports  Ports
}

// New constructs the verify module
func New(_ modkit.Deps, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("verify"),
		modkit.WithPrefix("/verify"),
	}, opts...)...)

	p, ok := b.Ports.(Ports)
	if !ok || p.Controller == nil || p.Registry == nil {
		return nil, fmt.Errorf("verify: controller and registry ports are required")
	}
	return &Module{name: b.Name, prefix: b.Prefix, mws: b.Mw, ports: p}, nil
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.Prefix(), m.mws, func(rr httpkit.Router) {
		verifyhttp.Register(rr, m.ports)
	})
}

// Name implements modkit.Module
func (m *Module) Name() string { return str.MustString(m.name, "verify") }

// Prefix is the mount path
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Ports implements modkit.Module; verify only consumes
func (m *Module) Ports() any { return nil }

// Package service builds the worker registry and the prompt driven investigators behind it
package service

import (
	"fmt"
	"slices"

	"factlens/internal/adapters/llm"
	"factlens/internal/core/promptpack"
	dom "factlens/internal/services/workers/domain"
)

// Registry is the read-only name to descriptor table
// it is never mutated after construction so concurrent reads need no locking
type Registry struct {
	byName map[string]dom.Descriptor
	names  []string
}

var _ dom.RegistryPort = (*Registry)(nil)

// NewRegistry indexes descs in the given order
func NewRegistry(descs ...dom.Descriptor) (*Registry, error) {
	r := &Registry{byName: make(map[string]dom.Descriptor, len(descs))}
	for _, d := range descs {
		if d.Name == "" {
			return nil, fmt.Errorf("workers: descriptor without a name")
		}
		if d.Investigator == nil {
			return nil, fmt.Errorf("workers: %q has no investigator", d.Name)
		}
		if _, dup := r.byName[d.Name]; dup {
			return nil, fmt.Errorf("workers: duplicate worker %q", d.Name)
		}
		r.byName[d.Name] = d
		r.names = append(r.names, d.Name)
	}
	return r, nil
}

// FromPack registers one PromptWorker per catalog entry
func FromPack(p *promptpack.Pack, provider llm.Provider, evidence dom.EvidencePort) (*Registry, error) {
	if provider == nil {
		return nil, fmt.Errorf("workers: nil reasoning provider")
	}
	descs := make([]dom.Descriptor, 0, len(p.Workers))
	for _, w := range p.Workers {
		descs = append(descs, dom.Descriptor{
			Name:         w.Name,
			Category:     w.Category,
			Description:  w.Description,
			Investigator: NewPromptWorker(w, provider, evidence),
		})
	}
	return NewRegistry(descs...)
}

// Exists reports whether name is registered
func (r *Registry) Exists(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Get returns the descriptor for name
func (r *Registry) Get(name string) (dom.Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// AllNames returns names in registration order; the slice is a copy
func (r *Registry) AllNames() []string { return slices.Clone(r.names) }

// Describe returns wire views in registration order
func (r *Registry) Describe() []dom.Info {
	out := make([]dom.Info, 0, len(r.names))
	for _, n := range r.names {
		d := r.byName[n]
		out = append(out, dom.Info{Name: d.Name, Category: d.Category, Description: d.Description})
	}
	return out
}

// Package promptpack loads the embedded worker catalog and prompt texts from catalog.yaml
// It validates names and defaults so the registry and router can trust it
package promptpack

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embedded []byte

// SchemaVersion is the catalog.yaml shape this package understands
const SchemaVersion = 1

var nameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

type rawStage struct {
	Instructions string `yaml:"instructions"`
	Task         string `yaml:"task"`
}

type rawWorker struct {
	Name         string `yaml:"name"`
	Category     string `yaml:"category"`
	Description  string `yaml:"description"`
	Rationale    string `yaml:"rationale"`
	Instructions string `yaml:"instructions"`
}

type rawPack struct {
	Version      int         `yaml:"version"`
	Defaults     []string    `yaml:"defaults"`
	ReportFormat string      `yaml:"report_format"`
	Router       rawStage    `yaml:"router"`
	Aggregator   rawStage    `yaml:"aggregator"`
	Workers      []rawWorker `yaml:"workers"`
}

// Stage is the prompt pair for a single provider call site
type Stage struct {
	Instructions string
	Task         string
}

// Worker is one catalog entry
type Worker struct {
	Name        string
	Category    string
	Description string
	// Rationale is used when a report carries no reasoning section of its own
	Rationale string
	// Instructions already include the shared report format
	Instructions string
}

// Pack is the validated catalog
type Pack struct {
	Version    int
	Defaults   []string
	Workers    []Worker // catalog order
	Router     Stage    // Instructions have the worker list rendered in
	Aggregator Stage

	byName map[string]int
}

// Worker returns the entry for name
func (p *Pack) Worker(name string) (Worker, bool) {
	i, ok := p.byName[name]
	if !ok {
		return Worker{}, false
	}
	return p.Workers[i], true
}

// Names returns worker names in catalog order
func (p *Pack) Names() []string {
	out := make([]string, len(p.Workers))
	for i, w := range p.Workers {
		out[i] = w.Name
	}
	return out
}

// Load parses and validates the embedded catalog
func Load() (*Pack, error) { return Parse(embedded) }

var (
	mustOnce sync.Once
	mustPack *Pack
	mustErr  error
)

// MustLoad returns the embedded catalog parsed once per process and panics if it is broken
// the catalog ships inside the binary so a failure here is a build defect
func MustLoad() *Pack {
	mustOnce.Do(func() { mustPack, mustErr = Load() })
	if mustErr != nil {
		panic(mustErr)
	}
	return mustPack
}

// Parse validates an arbitrary catalog document; tests and tooling use it directly
func Parse(doc []byte) (*Pack, error) {
	var rp rawPack
	if err := yaml.Unmarshal(doc, &rp); err != nil {
		return nil, fmt.Errorf("promptpack: parse catalog: %w", err)
	}
	if rp.Version != SchemaVersion {
		return nil, fmt.Errorf("promptpack: unsupported catalog version %d (want %d)", rp.Version, SchemaVersion)
	}
	if len(rp.Workers) == 0 {
		return nil, fmt.Errorf("promptpack: catalog has no workers")
	}

	p := &Pack{
		Version: rp.Version,
		byName:  make(map[string]int, len(rp.Workers)),
	}
	format := strings.TrimSpace(rp.ReportFormat)
	for _, w := range rp.Workers {
		name := strings.TrimSpace(w.Name)
		if !nameRe.MatchString(name) {
			return nil, fmt.Errorf("promptpack: invalid worker name %q", w.Name)
		}
		if _, dup := p.byName[name]; dup {
			return nil, fmt.Errorf("promptpack: duplicate worker %q", name)
		}
		instr := strings.TrimSpace(w.Instructions)
		if instr == "" {
			return nil, fmt.Errorf("promptpack: worker %q has no instructions", name)
		}
		if format != "" {
			instr += "\n\n" + format
		}
		p.byName[name] = len(p.Workers)
		p.Workers = append(p.Workers, Worker{
			Name:         name,
			Category:     strings.TrimSpace(w.Category),
			Description:  strings.TrimSpace(w.Description),
			Rationale:    strings.TrimSpace(w.Rationale),
			Instructions: instr,
		})
	}

	if len(rp.Defaults) == 0 {
		return nil, fmt.Errorf("promptpack: catalog has no default workers")
	}
	for _, d := range rp.Defaults {
		d = strings.TrimSpace(d)
		if _, ok := p.byName[d]; !ok {
			return nil, fmt.Errorf("promptpack: default worker %q not in catalog", d)
		}
		p.Defaults = append(p.Defaults, d)
	}

	if strings.TrimSpace(rp.Router.Instructions) == "" || strings.TrimSpace(rp.Aggregator.Instructions) == "" {
		return nil, fmt.Errorf("promptpack: router and aggregator instructions are required")
	}
	p.Router = Stage{
		Instructions: strings.ReplaceAll(strings.TrimSpace(rp.Router.Instructions), "{{workers}}", p.menu()),
		Task:         strings.TrimSpace(rp.Router.Task),
	}
	p.Aggregator = Stage{
		Instructions: strings.TrimSpace(rp.Aggregator.Instructions),
		Task:         strings.TrimSpace(rp.Aggregator.Task),
	}
	return p, nil
}

// menu renders "- name: description" lines for the router prompt
func (p *Pack) menu() string {
	var b strings.Builder
	for i, w := range p.Workers {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(w.Name)
		if w.Description != "" {
			b.WriteString(": ")
			b.WriteString(w.Description)
		}
	}
	return b.String()
}

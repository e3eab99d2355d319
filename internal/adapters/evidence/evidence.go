// Package evidence provides evidence providers for workers that do not talk to a search backend
package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	dom "factlens/internal/services/workers/domain"
)

// Noop never returns evidence
type Noop struct{}

// Lookup returns nothing
func (Noop) Lookup(context.Context, string, string) ([]dom.EvidenceRecord, error) { return nil, nil }

// Static serves a fixed record set, optionally narrowed per worker
// records under the "*" key go to every worker
type Static struct {
	byWorker map[string][]dom.EvidenceRecord
}

// Shared is the key whose records every worker receives
const Shared = "*"

// NewStatic copies the records
func NewStatic(byWorker map[string][]dom.EvidenceRecord) *Static {
	s := &Static{byWorker: make(map[string][]dom.EvidenceRecord, len(byWorker))}
	for k, v := range byWorker {
		s.byWorker[k] = slices.Clone(v)
	}
	return s
}

// LoadFile reads a JSON object of worker name to record list
func LoadFile(path string) (*Static, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("evidence: read %s: %w", path, err)
	}
	var m map[string][]dom.EvidenceRecord
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, fmt.Errorf("evidence: decode %s: %w", path, err)
	}
	return NewStatic(m), nil
}

// Lookup returns worker specific records followed by shared ones
func (s *Static) Lookup(ctx context.Context, worker, _ string) ([]dom.EvidenceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := slices.Clone(s.byWorker[worker])
	if worker != Shared {
		out = append(out, s.byWorker[Shared]...)
	}
	return out, nil
}

var (
	_ dom.EvidencePort = Noop{}
	_ dom.EvidencePort = (*Static)(nil)
)

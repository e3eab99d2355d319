package domain

import "context"

// RegistryPort is the read-only worker lookup shared across requests
type RegistryPort interface {
	Exists(name string) bool
	Get(name string) (Descriptor, bool)
	AllNames() []string
	Describe() []Info
}

// EvidencePort supplies source records a worker may fold into its prompt
type EvidencePort interface {
	Lookup(ctx context.Context, worker, content string) ([]EvidenceRecord, error)
}

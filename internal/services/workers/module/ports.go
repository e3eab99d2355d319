package module

import (
	"factlens/internal/core/promptpack"
	dom "factlens/internal/services/workers/domain"
)

// Ports holds the ports exposed by the workers module
type Ports struct {
	Registry dom.RegistryPort
	// Catalog is the pack the registry was built from; router and aggregator prompts come from it
	Catalog *promptpack.Pack
}

package module

import (
	"factlens/internal/core/promptpack"
	dom "factlens/internal/services/router/domain"
	wdom "factlens/internal/services/workers/domain"
)

// Ports holds the ports exposed by the router module
type Ports struct {
	Classifier dom.ClassifierPort
}

// Needs is what the router consumes from the workers module
type Needs struct {
	Registry wdom.RegistryPort
	Catalog  *promptpack.Pack
}

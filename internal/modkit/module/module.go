// Package module defines the contract pipeline stages and API modules share,
// plus the lookups used to cross wire their ports at startup
package module

import phttp "factlens/internal/platform/net/http"

// Module is implemented by every stage and API module
// stages that serve no HTTP keep MountRoutes as a no-op
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}

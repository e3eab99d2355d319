package modkit

import "factlens/internal/modkit/module"

// Module is the surface every pipeline stage and API module exposes
// it aliases module.Module so stage packages and the API agree on one contract
type Module = module.Module

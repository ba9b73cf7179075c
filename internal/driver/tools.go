package driver

import (
	"drift/internal/frontend"
	"drift/internal/frontend/cargotest"
	"drift/internal/frontend/gotest"
	"drift/internal/frontend/unidiff"
)

// DefaultRegistry wires every built-in front end: cargo test output, go
// test output, and unified diffs.
func DefaultRegistry() *frontend.Registry {
	reg := frontend.NewRegistry()
	reg.Register(cargotest.New())
	reg.Register(gotest.New())
	reg.Register(unidiff.New())
	return reg
}

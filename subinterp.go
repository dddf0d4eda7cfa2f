package subinterp

import (
	"context"

	"github.com/subrun/subinterp/interp"
	"github.com/subrun/subinterp/luahost"
)

// New creates a registry backed by the embedded Lua host. Most callers want
// this; construct interp.NewRegistry directly to supply a different host.
func New(opts ...interp.Option) *interp.Registry {
	return interp.NewRegistry(luahost.New(), opts...)
}

// CreateInterpreter creates a single sub-interpreter in its own registry.
// It is the one-call surface for programs that never need more than one
// interpreter; destroy the handle through the returned registry.
func CreateInterpreter(ctx context.Context, cfg interp.Config) (*interp.Handle, *interp.Registry, error) {
	reg := New()
	h, err := reg.Create(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return h, reg, nil
}

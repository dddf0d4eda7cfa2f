// Package subinterp manages isolated sub-interpreters inside a single Go
// process.
//
// Each sub-interpreter has its own namespace, its own loaded libraries and
// its own capability restrictions (spawn processes, run compiled code
// objects, spawn workers). The library's entire reason to exist is safe
// lifecycle and thread-affinity management: the underlying capability is
// unsafe at the runtime level, so creation is serialized, acquire/release
// is strictly enforced, configuration is validated before any allocation,
// and failures come back typed instead of corrupting the process.
//
// # Architecture Overview
//
// The library is organized into packages with distinct responsibilities:
//
//	subinterp/       Root package with the convenience constructor
//	├── interp/      Registry, handles and execution sessions
//	├── host/        Opaque host-runtime boundary (allocate, finalize,
//	│                switch context, execute source)
//	├── luahost/     Production host backed by embedded Lua states
//	└── errors/      Structured error types
//
// # Quick Start
//
//	ctx := context.Background()
//	reg := subinterp.New()
//
//	h, err := reg.Create(ctx, interp.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = h.Run(ctx, `x = 1 + 1`, nil, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := reg.Destroy(ctx, h.ID()); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// Registry is safe for concurrent use. Each Handle allows one session at a
// time; concurrent Run calls on one handle fail fast with already_active
// rather than queueing. Separate handles run concurrently on separate
// goroutines.
//
// # Known limitation
//
// Sub-interpreters still live at process exit are not finalized. If a
// configuration allowed daemonized workers, those can hold interpreter
// state past the point the runtime can clean up. This mirrors the
// underlying runtime's documented behavior and is surfaced through
// configuration rather than silently fixed.
package subinterp

// Package interp manages the lifecycle of isolated sub-interpreters inside a
// single host process.
//
// Each sub-interpreter has its own namespace, its own loaded-library set and
// its own capability restrictions (spawn processes, spawn workers, run
// pre-compiled code). The hard part is not executing code, it is lifecycle
// and thread-affinity management: creating interpreter states, switching the
// calling goroutine's association to them, running code with caller-supplied
// namespaces, and tearing them down without corrupting the host runtime.
//
// # Quick Start
//
//	ctx := context.Background()
//	reg := interp.NewRegistry(luahost.New())
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
// # Sessions
//
// Handle.Run is the only way to execute code. Internally it opens a session:
// acquire the handle, snapshot the calling goroutine's active interpreter
// context, switch to this interpreter, execute, then restore the prior
// context and release the handle on every exit path, including panics. A
// handle supports at most one session at a time; a second Run on an active
// handle fails with an already_active error rather than blocking.
//
// Separate handles may run concurrently from separate goroutines; that is
// the feature's entire purpose. A single Run blocks its goroutine for the
// full duration of the executed source; there is no preemption beyond what
// the context gives the host.
//
// # Capability configuration
//
// Config is immutable for a handle's lifetime and validated before any host
// resource is allocated. The zero value is maximally restrictive. A config
// violation (daemon threads without threads) is a typed invalid_config
// error, never an allocation.
//
// # Errors
//
// Recoverable failures are typed (package errors): invalid_config,
// allocation, already_active, finalized, busy, not_found, script,
// code_object. A script error leaves the interpreter fully usable. The one
// unrecoverable failure, the host failing to restore a goroutine's prior
// context or to finalize an interpreter state, is panicked as
// *AffinityFault and never caught here: the process's interpreter affinity
// is unknown at that point and continuing would corrupt unrelated code.
//
// # Known limitation
//
// Interpreters still live at process exit are not finalized; if a config
// allowed daemonized workers, those may hold interpreter state past the
// point the host can clean up. This mirrors the host runtime's own
// documented incomplete-teardown behavior.
package interp

package host

import "context"

// Options carries the capability flags a new interpreter state is created
// with. The wrapper validates them before any allocation happens; a Host may
// assume they are consistent (daemon threads imply threads).
type Options struct {
	AllowExec          bool
	AllowFork          bool
	AllowThreads       bool
	AllowDaemonThreads bool
}

// Host is the opaque host-runtime service. It exposes the four primitives the
// lifecycle layer needs: state allocation, state finalization, thread-context
// switching and source execution (via State).
//
// NewState and EndState are NOT safe to call concurrently with each other;
// the lifecycle layer serializes them under its creation lock.
type Host interface {
	// NewState allocates a fresh, isolated interpreter state.
	NewState(ctx context.Context, opts Options) (State, error)

	// EndState finalizes a state previously returned by NewState. The state
	// must not be active on any goroutine. The state must never be used
	// again afterwards.
	EndState(ctx context.Context, st State) error

	// Swap switches the calling goroutine's active interpreter context to st
	// and returns whatever context was active before. Passing nil clears the
	// association. An error means the host's bookkeeping no longer matches
	// reality; callers treat that as an unrecoverable fault.
	Swap(st State) (State, error)
}

// State is one isolated interpreter state, exclusively owned by a single
// lifecycle handle. A State is not safe for concurrent use; the lifecycle
// layer guarantees at most one Eval runs at a time.
type State interface {
	// Eval compiles and runs source against the given namespaces. Globals
	// and locals are bridged by copy; locals shadow globals. An error raised
	// by the source itself is returned as a *ScriptError and leaves the
	// state usable.
	Eval(ctx context.Context, source string, globals, locals map[string]any) error
}

// ScriptError reports a failure raised by the executed source in its own
// language, including syntax errors. The interpreter state remains valid.
type ScriptError struct {
	Message string
	Cause   error
}

func (e *ScriptError) Error() string {
	return e.Message
}

func (e *ScriptError) Unwrap() error {
	return e.Cause
}

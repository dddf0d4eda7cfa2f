package interp

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/subrun/subinterp/errors"
	"github.com/subrun/subinterp/host"
)

// Registry tracks every live sub-interpreter created through it and
// serializes creation and destruction against each other: the host's
// new-interpreter and end-interpreter primitives are not safe to call
// concurrently with themselves.
//
// A Registry is an explicitly constructed service, not a hidden global;
// tests construct independent registries over independent hosts.
type Registry struct {
	host   host.Host
	log    *zap.Logger
	nextID atomic.Uint64

	// creationMu serializes host NewState/EndState calls. These are rare,
	// setup/teardown-rate operations; contention is expected to be nil.
	creationMu sync.Mutex

	mu      sync.RWMutex
	handles map[uint64]*Handle
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry's logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRegistry creates a registry over the given host runtime.
func NewRegistry(h host.Host, opts ...Option) *Registry {
	r := &Registry{
		host:    h,
		log:     zap.NewNop(),
		handles: make(map[uint64]*Handle),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create validates cfg and allocates a new sub-interpreter. Validation is
// pure and fails fast: an invalid config never reaches the host.
func (r *Registry) Create(ctx context.Context, cfg Config) (*Handle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r.creationMu.Lock()
	defer r.creationMu.Unlock()

	st, err := r.host.NewState(ctx, cfg.hostOptions())
	if err != nil {
		return nil, errors.AllocationFailed(err)
	}

	h := &Handle{
		id:     r.nextID.Add(1),
		config: cfg,
		reg:    r,
		status: StatusCreated,
		state:  st,
	}

	r.mu.Lock()
	r.handles[h.id] = h
	r.mu.Unlock()

	r.log.Debug("sub-interpreter created",
		zap.Uint64("interp", h.id),
		zap.Bool("allow_exec", cfg.AllowExec),
		zap.Bool("allow_fork", cfg.AllowFork),
		zap.Bool("allow_threads", cfg.AllowThreads),
		zap.Bool("allow_daemon_threads", cfg.AllowDaemonThreads))

	return h, nil
}

// Destroy finalizes the sub-interpreter with the given id. Destruction is
// refused while a session holds the interpreter: tearing down a running
// interpreter is the host's documented unsafe path.
func (r *Registry) Destroy(ctx context.Context, id uint64) error {
	r.mu.RLock()
	h, ok := r.handles[id]
	r.mu.RUnlock()
	if !ok {
		return errors.NotFound(id)
	}

	if err := h.markFinalizing(); err != nil {
		return err
	}

	r.creationMu.Lock()
	defer r.creationMu.Unlock()

	st := h.takeState()
	var endErr error
	if st != nil {
		endErr = r.host.EndState(ctx, st)
	}
	h.markFinalized()

	r.mu.Lock()
	delete(r.handles, id)
	r.mu.Unlock()

	if endErr != nil {
		// A failed finalization leaves the host's global state unknown.
		// There is no correct continuation; report loudly and abort.
		r.log.Error("interpreter finalization failed; host state is inconsistent",
			zap.Uint64("interp", id), zap.Error(endErr))
		panic(&AffinityFault{Interp: id, Err: endErr})
	}

	r.log.Debug("sub-interpreter destroyed", zap.Uint64("interp", id))
	return nil
}

// Get returns the handle for id, if it is still live. Lookup only; status is
// not mutated.
func (r *Registry) Get(id uint64) (*Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handles[id]
	return h, ok
}

// Len returns the number of live sub-interpreters.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handles)
}

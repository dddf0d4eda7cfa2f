package interp

import (
	"sync"

	"github.com/subrun/subinterp/errors"
	"github.com/subrun/subinterp/host"
	"github.com/subrun/subinterp/internal/goid"
)

// Handle is one live sub-interpreter. It exclusively owns the underlying
// host state; the state is never exposed, so callers cannot bypass the
// session discipline. Handles are created by Registry.Create and freed only
// through Registry.Destroy, never by scope exit.
type Handle struct {
	id     uint64
	config Config
	reg    *Registry

	mu        sync.Mutex
	status    Status
	activeGID int64
	state     host.State
}

// ID returns the process-unique interpreter id. Ids are never reused.
func (h *Handle) ID() uint64 {
	return h.id
}

// Config returns the configuration the interpreter was created with.
func (h *Handle) Config() Config {
	return h.config
}

// Status returns the handle's current lifecycle status.
func (h *Handle) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// beginSession acquires the handle for the calling goroutine. At most one
// session holds a handle at a time; reentrant acquisition from the holding
// goroutine is refused the same as acquisition from another goroutine.
func (h *Handle) beginSession() (host.State, int64, error) {
	gid := goid.ID()

	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.status {
	case StatusFinalizing, StatusFinalized:
		return nil, 0, errors.Finalized(errors.PhaseAcquire, h.id)
	case StatusActive:
		return nil, 0, errors.AlreadyActive(h.id, h.activeGID)
	}

	h.status = StatusActive
	h.activeGID = gid
	return h.state, gid, nil
}

// endSession releases the handle. It is a restoration, not a fallible
// operation: it is called exactly once per session on every exit path.
func (h *Handle) endSession() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = StatusCreated
	h.activeGID = 0
}

// markFinalizing moves the handle to StatusFinalizing if no session holds
// it. Once finalizing, no session may begin.
func (h *Handle) markFinalizing() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.status {
	case StatusActive:
		return errors.Busy(h.id)
	case StatusFinalizing, StatusFinalized:
		return errors.NotFound(h.id)
	}

	h.status = StatusFinalizing
	return nil
}

// takeState removes and returns the owned host state so the freed state can
// never be dereferenced through this handle again.
func (h *Handle) takeState() host.State {
	h.mu.Lock()
	defer h.mu.Unlock()
	st := h.state
	h.state = nil
	return st
}

func (h *Handle) markFinalized() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = StatusFinalized
}

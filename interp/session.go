package interp

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/subrun/subinterp/errors"
	"github.com/subrun/subinterp/host"
)

// AffinityFault reports that the host failed to restore the calling
// goroutine's prior interpreter context (or to finalize an interpreter),
// leaving the process's notion of "current interpreter" inconsistent. No
// correct continuation exists, so it is panicked, never returned, and this
// library never recovers it.
type AffinityFault struct {
	Interp uint64
	Err    error
}

func (f *AffinityFault) Error() string {
	return fmt.Sprintf("interp %d: thread affinity fault: %v", f.Interp, f.Err)
}

func (f *AffinityFault) Unwrap() error {
	return f.Err
}

// Run executes source inside the sub-interpreter with the caller's
// namespaces bridged in by copy. Globals and locals may be nil; locals
// shadow globals during lookup.
//
// Run acquires the handle for the calling goroutine, switches the
// goroutine's active interpreter context to this handle, executes, and on
// every exit path (including a panic in the host) restores the prior
// context and releases the handle. After Run returns, the caller's active
// context is exactly what it was before the call and the handle is ready
// for the next session.
//
// An error raised by the source itself (including syntax errors) comes back
// as a recoverable script error; the interpreter remains usable afterwards.
func (h *Handle) Run(ctx context.Context, source string, globals, locals map[string]any) error {
	st, gid, err := h.beginSession()
	if err != nil {
		return err
	}

	hst := h.reg.host
	prev, err := hst.Swap(st)
	if err != nil {
		h.endSession()
		return errors.Wrap(errors.PhaseAcquire, errors.KindInvalidInput, err, "switch thread context")
	}

	h.reg.log.Debug("session opened",
		zap.Uint64("interp", h.id), zap.Int64("goroutine", gid))

	// Restoration is unconditional. Skipping it on any path would leave the
	// goroutine permanently bound to this interpreter.
	defer func() {
		if _, rerr := hst.Swap(prev); rerr != nil {
			h.reg.log.Error("thread context restoration failed; process state is inconsistent",
				zap.Uint64("interp", h.id), zap.Int64("goroutine", gid), zap.Error(rerr))
			panic(&AffinityFault{Interp: h.id, Err: rerr})
		}
		h.endSession()
		h.reg.log.Debug("session closed",
			zap.Uint64("interp", h.id), zap.Int64("goroutine", gid))
	}()

	if !h.config.AllowExec {
		if key, found := findCodeObject(globals); found {
			return errors.CodeObject(h.id, key)
		}
		if key, found := findCodeObject(locals); found {
			return errors.CodeObject(h.id, key)
		}
	}

	if err := st.Eval(ctx, Dedent(source), globals, locals); err != nil {
		var se *host.ScriptError
		if stderrors.As(err, &se) {
			return errors.Script(h.id, se)
		}
		return errors.Wrap(errors.PhaseExec, errors.KindInvalidInput, err, "execute source")
	}

	return nil
}

// findCodeObject returns the first namespace key, in sorted order, whose
// value is not plain data. When exec is disallowed only literal source may
// run; anything that could carry pre-compiled code never crosses into the
// interpreter.
func findCodeObject(ns map[string]any) (string, bool) {
	if len(ns) == 0 {
		return "", false
	}
	keys := make([]string, 0, len(ns))
	for k := range ns {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !plainValue(ns[k]) {
			return k, true
		}
	}
	return "", false
}

func plainValue(v any) bool {
	switch vv := v.(type) {
	case nil, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, string:
		return true
	case []any:
		for _, e := range vv {
			if !plainValue(e) {
				return false
			}
		}
		return true
	case map[string]any:
		for _, e := range vv {
			if !plainValue(e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

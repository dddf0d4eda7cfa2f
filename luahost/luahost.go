package luahost

import (
	"context"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/subrun/subinterp/errors"
	"github.com/subrun/subinterp/host"
	"github.com/subrun/subinterp/internal/goid"
)

// LuaHost backs each interpreter state with an isolated Lua state. It
// implements host.Host.
//
// Thread-context switching is pure bookkeeping at this host: a Lua state has
// no native notion of a current thread, so Swap maintains the per-goroutine
// active-state map and validates that the lifecycle layer's picture of
// affinity still matches reality.
type LuaHost struct {
	mu     sync.Mutex
	active map[int64]*luaState // goroutine id -> active state
	owner  map[*luaState]int64 // state -> goroutine it is active on
}

// New creates a Lua-backed host runtime.
func New() *LuaHost {
	return &LuaHost{
		active: make(map[int64]*luaState),
		owner:  make(map[*luaState]int64),
	}
}

// NewState allocates a fresh Lua state sandboxed according to opts.
func (h *LuaHost) NewState(ctx context.Context, opts host.Options) (host.State, error) {
	l := lua.NewState(lua.Options{SkipOpenLibs: true})
	if err := openLibraries(l, opts); err != nil {
		l.Close()
		return nil, err
	}

	st := &luaState{host: h, l: l, opts: opts}

	Logger().Debug("lua state allocated",
		zap.Bool("allow_exec", opts.AllowExec),
		zap.Bool("allow_fork", opts.AllowFork),
		zap.Bool("allow_threads", opts.AllowThreads))

	return st, nil
}

// EndState finalizes a state. The state must not be active on any goroutine.
func (h *LuaHost) EndState(ctx context.Context, st host.State) error {
	ls, err := h.own(st)
	if err != nil {
		return err
	}

	h.mu.Lock()
	if gid, held := h.owner[ls]; held {
		h.mu.Unlock()
		return errors.New(errors.PhaseDestroy, errors.KindBusy).
			Detail("state still active on goroutine %d", gid).
			Build()
	}
	if ls.closed {
		h.mu.Unlock()
		return errors.New(errors.PhaseDestroy, errors.KindFinalized).
			Detail("state already finalized").
			Build()
	}
	ls.closed = true
	h.mu.Unlock()

	ls.l.Close()
	Logger().Debug("lua state finalized")
	return nil
}

// Swap switches the calling goroutine's active state to st and returns the
// previously active one. A nil st clears the association. An inconsistency
// here means the caller's affinity picture has diverged from the host's;
// there is no safe continuation, so the error is surfaced for the lifecycle
// layer to escalate.
func (h *LuaHost) Swap(st host.State) (host.State, error) {
	var ls *luaState
	if st != nil {
		var err error
		if ls, err = h.own(st); err != nil {
			return nil, err
		}
	}

	gid := goid.ID()

	h.mu.Lock()
	defer h.mu.Unlock()

	prev := h.active[gid]

	if ls == nil {
		if prev != nil {
			delete(h.active, gid)
			delete(h.owner, prev)
		}
		if prev == nil {
			return nil, nil
		}
		return prev, nil
	}

	if ls.closed {
		return nil, errors.New(errors.PhaseRestore, errors.KindFinalized).
			Detail("swap to a finalized state").
			Build()
	}
	if holder, held := h.owner[ls]; held && holder != gid {
		return nil, errors.New(errors.PhaseRestore, errors.KindAlreadyActive).
			Detail("state already active on goroutine %d", holder).
			Build()
	}

	if prev != nil {
		delete(h.owner, prev)
	}
	h.active[gid] = ls
	h.owner[ls] = gid

	if prev == nil {
		return nil, nil
	}
	return prev, nil
}

// own checks that st was produced by this host.
func (h *LuaHost) own(st host.State) (*luaState, error) {
	ls, ok := st.(*luaState)
	if !ok || ls.host != h {
		return nil, errors.InvalidInput(errors.PhaseHost, "state does not belong to this host")
	}
	return ls, nil
}

// luaState is one isolated Lua state. The lifecycle layer guarantees at most
// one Eval at a time; a lua.LState is not safe for concurrent use.
type luaState struct {
	host   *LuaHost
	l      *lua.LState
	opts   host.Options
	closed bool // guarded by host.mu
}

// Eval compiles source and runs it under a fresh environment table: locals
// shadow globals, both shadow the sandboxed stdlib, and nothing written by
// the chunk escapes into later Eval calls.
func (s *luaState) Eval(ctx context.Context, source string, globals, locals map[string]any) error {
	s.host.mu.Lock()
	if s.closed {
		s.host.mu.Unlock()
		return errors.New(errors.PhaseExec, errors.KindFinalized).
			Detail("eval on a finalized state").
			Build()
	}
	if gid, held := s.host.owner[s]; !held || gid != goid.ID() {
		s.host.mu.Unlock()
		return errors.InvalidInput(errors.PhaseExec, "state is not active on the calling goroutine")
	}
	s.host.mu.Unlock()

	fn, err := s.l.LoadString(source)
	if err != nil {
		return &host.ScriptError{Message: err.Error(), Cause: err}
	}

	env := s.l.NewTable()
	if err := bridgeInto(s.l, env, globals); err != nil {
		return err
	}
	if err := bridgeInto(s.l, env, locals); err != nil {
		return err
	}
	mt := s.l.NewTable()
	mt.RawSetString("__index", s.l.G.Global)
	s.l.SetMetatable(env, mt)
	s.l.SetFEnv(fn, env)

	if ctx != nil {
		s.l.SetContext(ctx)
		defer s.l.RemoveContext()
	}

	if err := s.l.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}); err != nil {
		return &host.ScriptError{Message: err.Error(), Cause: err}
	}
	return nil
}

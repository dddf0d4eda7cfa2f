package interp

import (
	"context"
	"sync"

	"github.com/subrun/subinterp/host"
	"github.com/subrun/subinterp/internal/goid"
)

// fakeState records Eval calls and fails on demand.
type fakeState struct {
	mu      sync.Mutex
	opts    host.Options
	closed  bool
	sources []string
	evalErr error
	evalFn  func(ctx context.Context, source string, globals, locals map[string]any) error
}

func (s *fakeState) Eval(ctx context.Context, source string, globals, locals map[string]any) error {
	s.mu.Lock()
	s.sources = append(s.sources, source)
	fn := s.evalFn
	err := s.evalErr
	s.mu.Unlock()

	if fn != nil {
		return fn(ctx, source, globals, locals)
	}
	return err
}

func (s *fakeState) evaluated() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sources...)
}

// fakeHost implements host.Host with per-goroutine context bookkeeping, the
// same shape the production host has, so restoration properties can be
// asserted directly on the active map.
type fakeHost struct {
	mu        sync.Mutex
	states    []*fakeState
	active    map[int64]host.State
	newErr    error
	endErr    error
	swapCalls  int
	failSwapAt int // fail the Nth Swap call (1-based); 0 disables
}

func newFakeHost() *fakeHost {
	return &fakeHost{active: make(map[int64]host.State)}
}

func (f *fakeHost) NewState(ctx context.Context, opts host.Options) (host.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.newErr != nil {
		return nil, f.newErr
	}
	st := &fakeState{opts: opts}
	f.states = append(f.states, st)
	return st, nil
}

func (f *fakeHost) EndState(ctx context.Context, st host.State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.endErr != nil {
		return f.endErr
	}
	st.(*fakeState).closed = true
	return nil
}

func (f *fakeHost) Swap(st host.State) (host.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.swapCalls++
	if f.failSwapAt != 0 && f.swapCalls >= f.failSwapAt {
		return nil, errSwapFailed
	}

	gid := goid.ID()
	prev := f.active[gid]
	if st == nil {
		delete(f.active, gid)
	} else {
		f.active[gid] = st
	}
	return prev, nil
}

// activeHere returns the context currently recorded for the calling
// goroutine.
func (f *fakeHost) activeHere() host.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active[goid.ID()]
}

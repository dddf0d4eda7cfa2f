package interp

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/subrun/subinterp/errors"
)

var errSwapFailed = stderrors.New("swap failed")

func TestRegistry_CreateDestroy(t *testing.T) {
	ctx := context.Background()
	f := newFakeHost()
	reg := NewRegistry(f)

	h, err := reg.Create(ctx, Config{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if h.ID() == 0 {
		t.Error("id 0 must never be assigned")
	}
	if h.Status() != StatusCreated {
		t.Errorf("status = %v, want created", h.Status())
	}
	if reg.Len() != 1 {
		t.Errorf("len = %d, want 1", reg.Len())
	}

	if got, ok := reg.Get(h.ID()); !ok || got != h {
		t.Error("Get should return the live handle")
	}

	if err := reg.Destroy(ctx, h.ID()); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if h.Status() != StatusFinalized {
		t.Errorf("status = %v, want finalized", h.Status())
	}
	if reg.Len() != 0 {
		t.Errorf("len = %d, want 0", reg.Len())
	}
	if !f.states[0].closed {
		t.Error("host state was not finalized")
	}
	if _, ok := reg.Get(h.ID()); ok {
		t.Error("Get should not return a destroyed handle")
	}
}

func TestRegistry_IDsNeverReused(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(newFakeHost())

	seen := make(map[uint64]bool)
	for i := 0; i < 50; i++ {
		h, err := reg.Create(ctx, Config{})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if seen[h.ID()] {
			t.Fatalf("id %d reused", h.ID())
		}
		seen[h.ID()] = true
		if err := reg.Destroy(ctx, h.ID()); err != nil {
			t.Fatalf("destroy %d: %v", i, err)
		}
	}
}

func TestRegistry_InvalidConfigAllocatesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFakeHost()
	reg := NewRegistry(f)

	_, err := reg.Create(ctx, Config{AllowDaemonThreads: true})
	if err == nil {
		t.Fatal("expected invalid_config")
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseConfig, Kind: errors.KindInvalidConfig}) {
		t.Errorf("error = %v, want invalid_config", err)
	}
	if len(f.states) != 0 {
		t.Error("invalid config reached the host")
	}
	if reg.Len() != 0 {
		t.Error("invalid config was recorded")
	}
}

func TestRegistry_AllocationFailure(t *testing.T) {
	ctx := context.Background()
	f := newFakeHost()
	f.newErr = stderrors.New("resources exhausted")
	reg := NewRegistry(f)

	_, err := reg.Create(ctx, Config{})
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseCreate, Kind: errors.KindAllocation}) {
		t.Errorf("error = %v, want allocation", err)
	}
	if !stderrors.Is(err, f.newErr) {
		t.Error("host cause should be in the chain")
	}
}

func TestRegistry_DestroyUnknown(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(newFakeHost())

	err := reg.Destroy(ctx, 42)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseDestroy, Kind: errors.KindNotFound}) {
		t.Errorf("error = %v, want not_found", err)
	}
}

func TestRegistry_DestroyTwice(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(newFakeHost())

	h, err := reg.Create(ctx, Config{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := reg.Destroy(ctx, h.ID()); err != nil {
		t.Fatalf("first destroy: %v", err)
	}
	err = reg.Destroy(ctx, h.ID())
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseDestroy, Kind: errors.KindNotFound}) {
		t.Errorf("second destroy = %v, want not_found", err)
	}
}

func TestRegistry_DestroyBusy(t *testing.T) {
	ctx := context.Background()
	f := newFakeHost()
	reg := NewRegistry(f)

	h, err := reg.Create(ctx, Config{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	release := make(chan struct{})
	done := make(chan error, 1)
	f.states[0].evalFn = func(context.Context, string, map[string]any, map[string]any) error {
		<-release
		return nil
	}

	go func() {
		done <- h.Run(ctx, "spin()", nil, nil)
	}()

	waitForStatus(t, h, StatusActive)

	err = reg.Destroy(ctx, h.ID())
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseDestroy, Kind: errors.KindBusy}) {
		t.Errorf("destroy during session = %v, want busy", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}

	if err := reg.Destroy(ctx, h.ID()); err != nil {
		t.Fatalf("destroy after session: %v", err)
	}
}

func waitForStatus(t *testing.T, h *Handle, want Status) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.Status() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("handle never reached status %v", want)
}

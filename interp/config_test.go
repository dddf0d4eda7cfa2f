package interp

import (
	stderrors "errors"
	"testing"

	"github.com/subrun/subinterp/errors"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"zero value", Config{}, false},
		{"all allowed", Config{AllowExec: true, AllowFork: true, AllowThreads: true, AllowDaemonThreads: true}, false},
		{"threads without daemon", Config{AllowThreads: true}, false},
		{"daemon with threads", Config{AllowThreads: true, AllowDaemonThreads: true}, false},
		{"daemon without threads", Config{AllowDaemonThreads: true}, true},
		{"daemon without threads, rest allowed", Config{AllowExec: true, AllowFork: true, AllowDaemonThreads: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error")
				}
				if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseConfig, Kind: errors.KindInvalidConfig}) {
					t.Errorf("error = %v, want invalid_config", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_HostOptions(t *testing.T) {
	cfg := Config{AllowExec: true, AllowThreads: true}
	opts := cfg.hostOptions()

	if !opts.AllowExec || !opts.AllowThreads {
		t.Error("granted flags not carried to host options")
	}
	if opts.AllowFork || opts.AllowDaemonThreads {
		t.Error("withheld flags leaked into host options")
	}
}

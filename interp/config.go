package interp

import (
	"github.com/subrun/subinterp/errors"
	"github.com/subrun/subinterp/host"
)

// Config is the immutable capability configuration a sub-interpreter is
// created with. The zero value is maximally restrictive: no exec, no fork,
// no threads.
type Config struct {
	// AllowExec permits running pre-compiled code objects, not just the
	// literal source text passed to Run. When false, namespace values that
	// carry compiled code are rejected before execution and the host's
	// load/eval surface is withheld from the interpreter.
	AllowExec bool

	// AllowFork permits spawning OS child processes from within the
	// sub-interpreter. The effects of forking on a host running several
	// interpreters are largely unknown; you probably do not want this.
	AllowFork bool

	// AllowThreads permits code inside the sub-interpreter to spawn
	// concurrent workers.
	AllowThreads bool

	// AllowDaemonThreads permits those workers to outlive the Run call that
	// spawned them (non-joinable at shutdown). Meaningful only when
	// AllowThreads is set. Daemonized workers are the documented source of
	// incomplete teardown at process shutdown.
	AllowDaemonThreads bool
}

// Validate checks configuration invariants. It is pure: no host resource is
// touched, so a rejected config never allocates anything.
func (c Config) Validate() error {
	if c.AllowDaemonThreads && !c.AllowThreads {
		return errors.InvalidConfig("daemon threads cannot be enabled if threads are disallowed")
	}
	return nil
}

func (c Config) hostOptions() host.Options {
	return host.Options{
		AllowExec:          c.AllowExec,
		AllowFork:          c.AllowFork,
		AllowThreads:       c.AllowThreads,
		AllowDaemonThreads: c.AllowDaemonThreads,
	}
}

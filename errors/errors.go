package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the interpreter lifecycle the error occurred
type Phase string

const (
	PhaseConfig  Phase = "config"  // configuration validation
	PhaseCreate  Phase = "create"  // interpreter state allocation
	PhaseAcquire Phase = "acquire" // session acquisition
	PhaseExec    Phase = "exec"    // source execution
	PhaseDestroy Phase = "destroy" // interpreter finalization
	PhaseRestore Phase = "restore" // thread context restoration
	PhaseHost    Phase = "host"    // host backend internals
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidConfig Kind = "invalid_config"
	KindAllocation    Kind = "allocation"
	KindAlreadyActive Kind = "already_active"
	KindFinalized     Kind = "finalized"
	KindBusy          Kind = "busy"
	KindNotFound      Kind = "not_found"
	KindScript        Kind = "script"
	KindCodeObject    Kind = "code_object"
	KindInvalidInput  Kind = "invalid_input"
	KindUnsupported   Kind = "unsupported"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Interp uint64 // interpreter id, 0 when not tied to a handle
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Interp != 0 {
		fmt.Fprintf(&b, " (interp %d)", e.Interp)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Interp sets the interpreter id
func (b *Builder) Interp(id uint64) *Builder {
	b.err.Interp = id
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidConfig creates a configuration validation error
func InvalidConfig(detail string) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindInvalidConfig,
		Detail: detail,
	}
}

// AllocationFailed creates an interpreter allocation error
func AllocationFailed(cause error) *Error {
	return &Error{
		Phase:  PhaseCreate,
		Kind:   KindAllocation,
		Detail: "allocate interpreter state",
		Cause:  cause,
	}
}

// AlreadyActive creates a session conflict error
func AlreadyActive(id uint64, holder int64) *Error {
	return &Error{
		Phase:  PhaseAcquire,
		Kind:   KindAlreadyActive,
		Interp: id,
		Detail: fmt.Sprintf("session already active on goroutine %d", holder),
	}
}

// Finalized creates an error for operations on a finalized handle
func Finalized(phase Phase, id uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFinalized,
		Interp: id,
		Detail: "interpreter has shut down",
	}
}

// Busy creates an error for destroying a handle with an open session
func Busy(id uint64) *Error {
	return &Error{
		Phase:  PhaseDestroy,
		Kind:   KindBusy,
		Interp: id,
		Detail: "session still active",
	}
}

// NotFound creates an unknown interpreter id error
func NotFound(id uint64) *Error {
	return &Error{
		Phase:  PhaseDestroy,
		Kind:   KindNotFound,
		Interp: id,
		Detail: "no such interpreter",
	}
}

// Script creates an error for a failure raised by the executed source.
// The interpreter remains usable after a script error.
func Script(id uint64, cause error) *Error {
	return &Error{
		Phase:  PhaseExec,
		Kind:   KindScript,
		Interp: id,
		Detail: "script raised an error",
		Cause:  cause,
	}
}

// CodeObject creates an error for a compiled code object smuggled through a
// namespace when exec is disallowed
func CodeObject(id uint64, key string) *Error {
	return &Error{
		Phase:  PhaseExec,
		Kind:   KindCodeObject,
		Interp: id,
		Detail: fmt.Sprintf("namespace entry %q carries a code object and exec is disallowed", key),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Unsupported creates an unsupported value or operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

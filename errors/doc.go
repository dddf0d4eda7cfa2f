// Package errors provides structured error types for the sub-interpreter library.
//
// Errors are categorized by Phase (where in the lifecycle the error occurred)
// and Kind (error category). The Error type carries the interpreter id and a
// cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseExec, errors.KindScript).
//		Interp(id).
//		Detail("script raised an error").
//		Cause(luaErr).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidConfig("daemon threads require threads")
//	err := errors.Busy(id)
//
// All errors implement the standard error interface and support errors.Is/As;
// Is matches on Phase and Kind, so sentinel comparisons like
//
//	errors.Is(err, &errors.Error{Phase: errors.PhaseExec, Kind: errors.KindScript})
//
// work regardless of the detail text.
//
// Unrecoverable faults (a failed thread-context restoration) are deliberately
// not part of this taxonomy; see interp.AffinityFault.
package errors

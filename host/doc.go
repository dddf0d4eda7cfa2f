// Package host defines the boundary between the sub-interpreter lifecycle
// layer and the embedded language runtime that actually executes code.
//
// The runtime is consumed as an opaque service: an allocation primitive, a
// finalization primitive, a per-goroutine context-switch primitive, and a
// source-execution primitive. The lifecycle layer (package interp) never
// touches anything behind these interfaces and never exposes a State to
// callers, so the acquire/release discipline cannot be bypassed.
//
// The production implementation is package luahost, which backs each State
// with an isolated Lua state. Tests substitute in-memory fakes.
package host

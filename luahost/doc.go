// Package luahost implements the host.Host boundary over embedded Lua
// states (github.com/yuin/gopher-lua).
//
// One lua.LState per sub-interpreter gives real isolation: its own globals,
// its own loaded libraries, its own capability restrictions. The standard
// libraries are opened selectively and the withheld surfaces are replaced
// with stubs that raise ordinary Lua errors, so a configuration violation
// inside a script is a recoverable script error, never a host fault.
//
// Capability mapping:
//
//	AllowFork           io.popen and os.exit are available
//	AllowExec           load/loadstring/loadfile/dofile are available
//	AllowThreads        the channel library is opened
//	AllowDaemonThreads  bookkeeping only; this host spawns no OS threads
//	                    of its own, but the flag is validated and recorded
//	                    so hosts with real threading honor it
//
// Thread-context switching is bookkeeping here (a Lua state has no native
// current-thread register), but it is validating bookkeeping: Swap refuses
// to activate a state that is already active on another goroutine or that
// has been finalized, which is exactly the inconsistency the lifecycle
// layer escalates as an unrecoverable fault.
package luahost

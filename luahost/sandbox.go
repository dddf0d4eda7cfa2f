package luahost

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/subrun/subinterp/errors"
	"github.com/subrun/subinterp/host"
)

// openLibraries loads the Lua standard libraries, then withholds the
// capability surfaces the options do not grant. Violations surface inside
// the interpreter as ordinary Lua errors, so a denied call comes back to the
// caller as a recoverable script error and the state stays usable.
//
// Capability mapping:
//
//	AllowFork    io.popen, os.exit       (process spawn / process control)
//	AllowExec    load, loadstring,
//	             loadfile, dofile        (arbitrary compiled chunks)
//	AllowThreads channel library         (cross-state messaging workers)
func openLibraries(l *lua.LState, opts host.Options) error {
	libs := []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage}, // must be first
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
		{lua.OsLibName, lua.OpenOs},
		{lua.IoLibName, lua.OpenIo},
		{lua.CoroutineLibName, lua.OpenCoroutine},
	}
	if opts.AllowThreads {
		libs = append(libs, struct {
			name string
			fn   lua.LGFunction
		}{lua.ChannelLibName, lua.OpenChannel})
	}

	for _, lib := range libs {
		if err := l.CallByParam(lua.P{
			Fn:      l.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			return errors.Wrap(errors.PhaseHost, errors.KindAllocation, err, "open library "+lib.name)
		}
	}

	if !opts.AllowFork {
		setField(l, lua.IoLibName, "popen", denied(l, "spawning processes"))
		setField(l, lua.OsLibName, "exit", denied(l, "process control"))
		// fork itself does not exist in this host; calling it is already an
		// error. The stub keeps the diagnostic uniform.
		setField(l, lua.OsLibName, "fork", denied(l, "spawning processes"))
	}

	if !opts.AllowExec {
		for _, name := range []string{"load", "loadstring", "loadfile", "dofile"} {
			l.SetGlobal(name, denied(l, "executing code objects"))
		}
	}

	return nil
}

// denied returns a Lua function that raises a configuration error.
func denied(l *lua.LState, what string) *lua.LFunction {
	return l.NewFunction(func(ls *lua.LState) int {
		ls.RaiseError("%s is disallowed by interpreter configuration", what)
		return 0
	})
}

func setField(l *lua.LState, module, field string, v lua.LValue) {
	if tbl, ok := l.GetGlobal(module).(*lua.LTable); ok {
		tbl.RawSetString(field, v)
	}
}

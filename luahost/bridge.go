package luahost

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/subrun/subinterp/errors"
)

// bridgeInto copies a caller namespace into a Lua table. Values are bridged
// by copy: mutations made by the executed chunk never reach the caller's
// maps.
func bridgeInto(l *lua.LState, dst *lua.LTable, ns map[string]any) error {
	for k, v := range ns {
		lv, err := toLua(l, v)
		if err != nil {
			return err
		}
		dst.RawSetString(k, lv)
	}
	return nil
}

func toLua(l *lua.LState, v any) (lua.LValue, error) {
	switch vv := v.(type) {
	case nil:
		return lua.LNil, nil
	case bool:
		return lua.LBool(vv), nil
	case int:
		return lua.LNumber(vv), nil
	case int8:
		return lua.LNumber(vv), nil
	case int16:
		return lua.LNumber(vv), nil
	case int32:
		return lua.LNumber(vv), nil
	case int64:
		return lua.LNumber(vv), nil
	case uint:
		return lua.LNumber(vv), nil
	case uint8:
		return lua.LNumber(vv), nil
	case uint16:
		return lua.LNumber(vv), nil
	case uint32:
		return lua.LNumber(vv), nil
	case uint64:
		return lua.LNumber(vv), nil
	case float32:
		return lua.LNumber(vv), nil
	case float64:
		return lua.LNumber(vv), nil
	case string:
		return lua.LString(vv), nil
	case []any:
		tbl := l.NewTable()
		for _, e := range vv {
			lv, err := toLua(l, e)
			if err != nil {
				return nil, err
			}
			tbl.Append(lv)
		}
		return tbl, nil
	case map[string]any:
		tbl := l.NewTable()
		for k, e := range vv {
			lv, err := toLua(l, e)
			if err != nil {
				return nil, err
			}
			tbl.RawSetString(k, lv)
		}
		return tbl, nil
	case lua.LValue:
		// Pre-built host values, including functions. Whether these may
		// cross at all is decided upstream by the exec boundary.
		return vv, nil
	default:
		return nil, errors.Unsupported(errors.PhaseHost, fmt.Sprintf("cannot bridge Go value of type %T", v))
	}
}

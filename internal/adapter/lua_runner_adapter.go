package adapter

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"

	m "luaveil.dev/pkg/luaveil/internal/model"
)

// DefaultRunTimeout bounds a single script execution.
const DefaultRunTimeout = 10 * time.Second

// LuaRunnerAdapter executes Lua chunks in an embedded interpreter.
type LuaRunnerAdapter interface {
	// Run executes source as a chunk named name and returns what it printed
	// and returned.
	Run(ctx context.Context, name, source string) (m.Execution, error)
}

// LocalLuaRunnerAdapter runs every chunk in a fresh gopher-lua state.
type LocalLuaRunnerAdapter struct {
	timeout time.Duration
}

// NewLocalLuaRunnerAdapter constructs a runner. A zero timeout selects
// DefaultRunTimeout.
func NewLocalLuaRunnerAdapter(timeout time.Duration) *LocalLuaRunnerAdapter {
	if timeout <= 0 {
		timeout = DefaultRunTimeout
	}

	return &LocalLuaRunnerAdapter{timeout: timeout}
}

// Run executes source with print redirected into the returned Execution.
func (a *LocalLuaRunnerAdapter) Run(ctx context.Context, name, source string) (m.Execution, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	L := lua.NewState()
	defer L.Close()

	L.SetContext(ctx)

	var stdout strings.Builder

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		for i := 1; i <= L.GetTop(); i++ {
			if i > 1 {
				stdout.WriteByte('\t')
			}

			stdout.WriteString(render(L, L.Get(i)))
		}

		stdout.WriteByte('\n')

		return 0
	}))

	if osTable, ok := L.GetGlobal("os").(*lua.LTable); ok {
		osTable.RawSetString("exit", lua.LNil)
	}

	// A shebang line is not Lua; keep its line as a comment.
	if strings.HasPrefix(source, "#") {
		source = "--" + source
	}

	fn, err := L.Load(strings.NewReader(source), name)
	if err != nil {
		return m.Execution{}, errors.Wrapf(err, "load %s", name)
	}

	L.Push(fn)

	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return m.Execution{Stdout: stdout.String()}, errors.Wrapf(err, "run %s", name)
	}

	exec := m.Execution{Stdout: stdout.String()}
	for i := 1; i <= L.GetTop(); i++ {
		exec.Returns = append(exec.Returns, render(L, L.Get(i)))
	}

	return exec, nil
}

// render turns a value into text that is stable across runs: reference
// types print as their type name instead of an address.
func render(L *lua.LState, v lua.LValue) string {
	switch v.Type() {
	case lua.LTTable, lua.LTFunction, lua.LTUserData, lua.LTThread, lua.LTChannel:
		if mt := L.GetMetaField(v, "__tostring"); mt != lua.LNil {
			return L.ToStringMeta(v).String()
		}

		return v.Type().String()
	default:
		return v.String()
	}
}

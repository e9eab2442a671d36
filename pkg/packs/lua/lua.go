// Package lua loads pack scripts written in Lua. A script runs once at load
// time with a global `prevhs` table:
//
//	prevhs.register("Shout", {
//	    args = 1,
//	    expand = function(payload, token, args)
//	        return { "Type " .. string.upper(args[1]), "Enter" }
//	    end,
//	})
//	prevhs.transform("post", function(items, ctx)
//	    -- return a table of replacement lines, or nil for no change
//	end)
//
// Registered functions are called back during ProcessText, so the Lua state
// stays alive until the Script is closed. gopher-lua states are not
// goroutine safe; a mutex serializes callbacks.
package lua

import (
	"fmt"
	"sync"

	glua "github.com/yuin/gopher-lua"

	"github.com/hesreallyhim/pre-vhs/pkg/engine"
)

// Script is one loaded Lua pack. Close releases its interpreter state.
type Script struct {
	Path string

	mu sync.Mutex
	l  *glua.LState
}

var transformPhases = map[string]engine.Phase{
	"header":   engine.PhaseHeader,
	"pre":      engine.PhasePreExpand,
	"post":     engine.PhasePostExpand,
	"finalize": engine.PhaseFinalize,
}

// Load runs the script at path against a fresh Lua state, wiring its
// prevhs.register and prevhs.transform calls to the engine.
func Load(e *engine.Engine, path string) (*Script, error) {
	s := &Script{Path: path, l: glua.NewState()}

	mod := s.l.NewTable()
	s.l.SetField(mod, "register", s.l.NewFunction(s.registerFn(e)))
	s.l.SetField(mod, "transform", s.l.NewFunction(s.transformFn(e)))
	s.l.SetField(mod, "escape", s.l.NewFunction(func(L *glua.LState) int {
		L.Push(glua.LString(engine.EscapeLiteral(L.CheckString(1))))
		return 1
	}))
	s.l.SetGlobal("prevhs", mod)

	if err := s.l.DoFile(path); err != nil {
		s.l.Close()
		return nil, fmt.Errorf("lua pack %s: %w", path, err)
	}
	return s, nil
}

// Close shuts down the interpreter. The engine must not process documents
// using this script's macros afterwards.
func (s *Script) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.l.Close()
}

// registerFn implements prevhs.register(name, spec).
func (s *Script) registerFn(e *engine.Engine) glua.LGFunction {
	return func(L *glua.LState) int {
		name := L.CheckString(1)
		spec := L.CheckTable(2)

		m := engine.Macro{
			Args:    int(glua.LVAsNumber(spec.RawGetString("args"))),
			Greedy:  glua.LVAsBool(spec.RawGetString("greedy")),
			PerLine: glua.LVAsBool(spec.RawGetString("per_line")),
		}
		if fn, ok := spec.RawGetString("expand").(*glua.LFunction); ok {
			m.Expand = s.expansion(fn)
		}
		alwaysOn := glua.LVAsBool(spec.RawGetString("always_on"))

		e.RegisterMacros(map[string]engine.Macro{name: m}, engine.RegisterOptions{
			AlwaysOn: alwaysOn,
			Origin:   "lua:" + s.Path,
		})
		return 0
	}
}

// transformFn implements prevhs.transform(phase, fn).
func (s *Script) transformFn(e *engine.Engine) glua.LGFunction {
	return func(L *glua.LState) int {
		phaseName := L.CheckString(1)
		fn := L.CheckFunction(2)
		phase, ok := transformPhases[phaseName]
		if !ok {
			L.ArgError(1, "unknown phase "+phaseName)
			return 0
		}
		e.RegisterTransform(phase, s.transform(fn))
		return 0
	}
}

// expansion wraps a Lua function as an engine expansion. Lua errors and
// non-table returns degrade to "no output", matching the engine's lenient
// treatment of misbehaving macros.
func (s *Script) expansion(fn *glua.LFunction) engine.Expansion {
	return func(payload, token string, args *engine.Args, ctx *engine.Context) []string {
		s.mu.Lock()
		defer s.mu.Unlock()

		argsTbl := s.l.NewTable()
		for i := 1; i <= args.Len(); i++ {
			argsTbl.RawSetInt(i, glua.LString(args.Get(i)))
		}
		s.l.SetField(argsTbl, "greedy", glua.LString(args.Greedy()))

		err := s.l.CallByParam(glua.P{Fn: fn, NRet: 1, Protect: true},
			glua.LString(payload), glua.LString(token), argsTbl)
		if err != nil {
			return nil
		}
		ret := s.l.Get(-1)
		s.l.Pop(1)
		return tableToStrings(ret)
	}
}

// transform wraps a Lua function as an engine transform; nil/non-table
// returns mean "no change".
func (s *Script) transform(fn *glua.LFunction) engine.Transform {
	return func(items []string, ctx *engine.Context) []string {
		s.mu.Lock()
		defer s.mu.Unlock()

		itemsTbl := s.l.NewTable()
		for i, item := range items {
			itemsTbl.RawSetInt(i+1, glua.LString(item))
		}
		ctxTbl := s.l.NewTable()
		s.l.SetField(ctxTbl, "line", glua.LNumber(ctx.Line))
		s.l.SetField(ctxTbl, "token_index", glua.LNumber(ctx.TokenIndex))
		s.l.SetField(ctxTbl, "prev_command", glua.LString(ctx.PrevCommand))

		err := s.l.CallByParam(glua.P{Fn: fn, NRet: 1, Protect: true}, itemsTbl, ctxTbl)
		if err != nil {
			return nil
		}
		ret := s.l.Get(-1)
		s.l.Pop(1)
		return tableToStrings(ret)
	}
}

// tableToStrings converts a returned Lua array table to a string slice,
// nil for anything else.
func tableToStrings(v glua.LValue) []string {
	tbl, ok := v.(*glua.LTable)
	if !ok {
		return nil
	}
	n := tbl.Len()
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, glua.LVAsString(tbl.RawGetInt(i)))
	}
	return out
}

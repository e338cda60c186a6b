// lua_backend.go - sandboxed gopher-lua execution backend

package bytebeat

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// Operators without a Lua 5.1 equivalent, or whose Lua meaning differs from
// ours (% floors, comparisons yield booleans, 0 is truthy), become calls to
// Go helpers. Helpers evaluate both operands; that is safe because every
// operand is side-effect free.
var luaHelpers = map[string]string{
	"&":   "band",
	"|":   "bor",
	"^":   "bxor",
	"<<":  "shl",
	">>":  "shr",
	">>>": "ushr",
	"%":   "fmod",
	"**":  "ipow",
	"<":   "lt",
	"<=":  "le",
	">":   "gt",
	">=":  "ge",
	"==":  "eq",
	"!=":  "ne",
	"&&":  "land",
	"||":  "lor",
}

// newLuaGenerator lowers root to a Lua chunk and loads it into a fresh state
// opened without any standard library. The state is closed by Release.
func newLuaGenerator(src string, root *node, masked bool) (*Generator, error) {
	chunk := luaChunk(root)

	L := lua.NewState(lua.Options{SkipOpenLibs: true, CallStackSize: 64})
	registerLuaHelpers(L)

	loader, err := L.LoadString(chunk)
	if err != nil {
		L.Close()
		return nil, evalErr("lua load: %v", err)
	}
	if err := L.CallByParam(lua.P{Fn: loader, NRet: 1, Protect: true}); err != nil {
		L.Close()
		return nil, evalErr("lua init: %v", err)
	}
	fn, ok := L.Get(-1).(*lua.LFunction)
	L.Pop(1)
	if !ok {
		L.Close()
		return nil, evalErr("lua chunk did not return a function")
	}

	eval := func(t uint32, p Params) float64 {
		err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true},
			lua.LNumber(t), lua.LNumber(p.X), lua.LNumber(p.Y), lua.LNumber(p.A), lua.LNumber(p.B))
		if err != nil {
			panic(fmt.Errorf("lua: %w", err))
		}
		ret := L.Get(-1)
		L.Pop(1)
		n, ok := ret.(lua.LNumber)
		if !ok {
			panic(fmt.Errorf("lua: expression returned %s", ret.Type()))
		}
		return float64(n)
	}
	return newGenerator(src, masked, BackendLua, eval, L.Close), nil
}

func registerLuaHelpers(L *lua.LState) {
	for op, name := range luaHelpers {
		L.SetGlobal(name, L.NewFunction(luaBinary(op)))
	}
	L.SetGlobal("bnot", L.NewFunction(luaUnary("~")))
	L.SetGlobal("lnot", L.NewFunction(luaUnary("!")))
	L.SetGlobal("cond", L.NewFunction(func(L *lua.LState) int {
		if truthy(float64(L.CheckNumber(1))) {
			L.Push(L.Get(2))
		} else {
			L.Push(L.Get(3))
		}
		return 1
	}))
	for name, b := range builtins {
		if b.f1 != nil {
			f := b.f1
			L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
				L.Push(lua.LNumber(f(float64(L.CheckNumber(1)))))
				return 1
			}))
			continue
		}
		f := b.f2
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			L.Push(lua.LNumber(f(float64(L.CheckNumber(1)), float64(L.CheckNumber(2)))))
			return 1
		}))
	}
}

func luaBinary(op string) lua.LGFunction {
	return func(L *lua.LState) int {
		l := float64(L.CheckNumber(1))
		r := float64(L.CheckNumber(2))
		L.Push(lua.LNumber(applyBinary(op, l, r)))
		return 1
	}
}

func luaUnary(op string) lua.LGFunction {
	return func(L *lua.LState) int {
		L.Push(lua.LNumber(applyUnary(op, float64(L.CheckNumber(1)))))
		return 1
	}
}

func luaChunk(root *node) string {
	var sb strings.Builder
	sb.WriteString("return function(t, x, y, a, b) return ")
	writeLua(&sb, root)
	sb.WriteString(" end")
	return sb.String()
}

func writeLua(sb *strings.Builder, n *node) {
	switch n.kind {
	case nodeNum:
		sb.WriteString(luaNumber(n.num))
	case nodeVar:
		sb.WriteString(n.v.String())
	case nodeUnary:
		switch n.op {
		case "-":
			sb.WriteString("(-")
			writeLua(sb, n.args[0])
			sb.WriteByte(')')
		case "~":
			writeLuaCall(sb, "bnot", n.args...)
		case "!":
			writeLuaCall(sb, "lnot", n.args...)
		default:
			writeLua(sb, n.args[0])
		}
	case nodeBinary:
		switch n.op {
		case "+", "-", "*", "/":
			sb.WriteByte('(')
			writeLua(sb, n.args[0])
			sb.WriteString(" " + n.op + " ")
			writeLua(sb, n.args[1])
			sb.WriteByte(')')
		default:
			writeLuaCall(sb, luaHelpers[n.op], n.args...)
		}
	case nodeTernary:
		writeLuaCall(sb, "cond", n.args...)
	case nodeCall:
		b := builtins[n.op]
		if !b.variadic {
			writeLuaCall(sb, n.op, n.args...)
			return
		}
		// min(a, b, c) becomes min(min(a, b), c)
		for range len(n.args) - 1 {
			sb.WriteString(n.op + "(")
		}
		writeLua(sb, n.args[0])
		for _, a := range n.args[1:] {
			sb.WriteString(", ")
			writeLua(sb, a)
			sb.WriteByte(')')
		}
	}
}

func writeLuaCall(sb *strings.Builder, fn string, args ...*node) {
	sb.WriteString(fn)
	sb.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeLua(sb, a)
	}
	sb.WriteByte(')')
}

func luaNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "(0/0)"
	case math.IsInf(v, 1):
		return "(1/0)"
	case math.IsInf(v, -1):
		return "(-1/0)"
	case v < 0 || (v == 0 && math.Signbit(v)):
		return "(" + strconv.FormatFloat(v, 'g', -1, 64) + ")"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

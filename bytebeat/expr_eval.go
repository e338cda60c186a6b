// expr_eval.go - closure-tree compilation with bytebeat numeric semantics

package bytebeat

import (
	"math"
)

// env is passed by value through the closure tree so evaluation never
// allocates on the render path.
type env struct {
	t, x, y, a, b float64
}

type evalFn func(e env) float64

func newEnv(t uint32, p Params) env {
	return env{t: float64(t), x: float64(p.X), y: float64(p.Y), a: float64(p.A), b: float64(p.B)}
}

const two32 = 4294967296.0

// toInt32 converts like JavaScript's ToInt32: NaN and infinities become 0,
// everything else truncates and wraps modulo 2^32 into the signed range.
func toInt32(v float64) int32 {
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		return int32(v)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	m := math.Mod(math.Trunc(v), two32)
	if m < 0 {
		m += two32
	}
	return int32(uint32(m))
}

func toUint32(v float64) uint32 { return uint32(toInt32(v)) }

// clampByte interprets v as a signed 32-bit integer and clamps it into a byte.
func clampByte(v float64) uint8 {
	i := toInt32(v)
	if i < 0 {
		return 0
	}
	if i > 255 {
		return 255
	}
	return uint8(i)
}

func truthy(v float64) bool { return v != 0 && !math.IsNaN(v) }

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func jsRound(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Floor(v + 0.5)
}

func jsSign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return v
}

func jsPow(x, y float64) float64 {
	if math.IsNaN(y) {
		return math.NaN()
	}
	return math.Pow(x, y)
}

// applyBinary evaluates one binary operator on already evaluated operands.
// The short-circuit operators are handled here too since operands are pure.
func applyBinary(op string, l, r float64) float64 {
	switch op {
	case "+":
		return l + r
	case "-":
		return l - r
	case "*":
		return l * r
	case "/":
		return l / r
	case "%":
		return math.Mod(l, r)
	case "**":
		return jsPow(l, r)
	case "&":
		return float64(toInt32(l) & toInt32(r))
	case "|":
		return float64(toInt32(l) | toInt32(r))
	case "^":
		return float64(toInt32(l) ^ toInt32(r))
	case "<<":
		return float64(toInt32(l) << (toUint32(r) & 31))
	case ">>":
		return float64(toInt32(l) >> (toUint32(r) & 31))
	case ">>>":
		return float64(toUint32(l) >> (toUint32(r) & 31))
	case "<":
		return b2f(l < r)
	case "<=":
		return b2f(l <= r)
	case ">":
		return b2f(l > r)
	case ">=":
		return b2f(l >= r)
	case "==":
		return b2f(l == r)
	case "!=":
		return b2f(l != r)
	case "&&":
		if truthy(l) {
			return r
		}
		return l
	case "||":
		if truthy(l) {
			return l
		}
		return r
	}
	return math.NaN()
}

func applyUnary(op string, v float64) float64 {
	switch op {
	case "-":
		return -v
	case "+":
		return v
	case "~":
		return float64(^toInt32(v))
	case "!":
		return b2f(!truthy(v))
	}
	return math.NaN()
}

// fold replaces constant subtrees with their value.
func fold(n *node) *node {
	if len(n.args) == 0 {
		return n
	}
	allConst := true
	for i, c := range n.args {
		n.args[i] = fold(c)
		if !n.args[i].isConst() {
			allConst = false
		}
	}
	if n.kind == nodeTernary && n.args[0].isConst() {
		if truthy(n.args[0].num) {
			return n.args[1]
		}
		return n.args[2]
	}
	if !allConst {
		return n
	}
	return numNode(compileNode(n)(env{}), n.pos)
}

// compileNode lowers the tree into nested closures. Operator dispatch happens
// here once, so the per-sample path is a chain of direct calls.
func compileNode(n *node) evalFn {
	switch n.kind {
	case nodeNum:
		v := n.num
		return func(env) float64 { return v }
	case nodeVar:
		switch n.v {
		case varT:
			return func(e env) float64 { return e.t }
		case varX:
			return func(e env) float64 { return e.x }
		case varY:
			return func(e env) float64 { return e.y }
		case varA:
			return func(e env) float64 { return e.a }
		default:
			return func(e env) float64 { return e.b }
		}
	case nodeUnary:
		return compileUnary(n.op, compileNode(n.args[0]))
	case nodeBinary:
		return compileBinary(n.op, compileNode(n.args[0]), compileNode(n.args[1]))
	case nodeTernary:
		c, y, no := compileNode(n.args[0]), compileNode(n.args[1]), compileNode(n.args[2])
		return func(e env) float64 {
			if truthy(c(e)) {
				return y(e)
			}
			return no(e)
		}
	case nodeCall:
		return compileCall(n)
	}
	return func(env) float64 { return math.NaN() }
}

func compileUnary(op string, x evalFn) evalFn {
	switch op {
	case "-":
		return func(e env) float64 { return -x(e) }
	case "~":
		return func(e env) float64 { return float64(^toInt32(x(e))) }
	case "!":
		return func(e env) float64 { return b2f(!truthy(x(e))) }
	}
	return x
}

func compileBinary(op string, l, r evalFn) evalFn {
	switch op {
	case "+":
		return func(e env) float64 { return l(e) + r(e) }
	case "-":
		return func(e env) float64 { return l(e) - r(e) }
	case "*":
		return func(e env) float64 { return l(e) * r(e) }
	case "/":
		return func(e env) float64 { return l(e) / r(e) }
	case "%":
		return func(e env) float64 { return math.Mod(l(e), r(e)) }
	case "&":
		return func(e env) float64 { return float64(toInt32(l(e)) & toInt32(r(e))) }
	case "|":
		return func(e env) float64 { return float64(toInt32(l(e)) | toInt32(r(e))) }
	case "^":
		return func(e env) float64 { return float64(toInt32(l(e)) ^ toInt32(r(e))) }
	case "<<":
		return func(e env) float64 { return float64(toInt32(l(e)) << (toUint32(r(e)) & 31)) }
	case ">>":
		return func(e env) float64 { return float64(toInt32(l(e)) >> (toUint32(r(e)) & 31)) }
	case ">>>":
		return func(e env) float64 { return float64(toUint32(l(e)) >> (toUint32(r(e)) & 31)) }
	case "&&":
		return func(e env) float64 {
			if v := l(e); !truthy(v) {
				return v
			}
			return r(e)
		}
	case "||":
		return func(e env) float64 {
			if v := l(e); truthy(v) {
				return v
			}
			return r(e)
		}
	}
	return func(e env) float64 { return applyBinary(op, l(e), r(e)) }
}

func compileCall(n *node) evalFn {
	b := builtins[n.op]
	args := make([]evalFn, len(n.args))
	for i, a := range n.args {
		args[i] = compileNode(a)
	}
	if b.f1 != nil {
		f, a0 := b.f1, args[0]
		return func(e env) float64 { return f(a0(e)) }
	}
	f := b.f2
	if len(args) == 1 {
		return args[0]
	}
	acc := args[0]
	for _, next := range args[1:] {
		l, r := acc, next
		acc = func(e env) float64 { return f(l(e), r(e)) }
	}
	return acc
}

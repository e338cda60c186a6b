// expr_ast.go - expression tree produced by the parser

package bytebeat

import (
	"math"
	"strings"
)

type nodeKind int

const (
	nodeNum nodeKind = iota
	nodeVar
	nodeUnary
	nodeBinary
	nodeTernary
	nodeCall
)

type varID int

const (
	varT varID = iota
	varX
	varY
	varA
	varB
)

var varNames = [...]string{"t", "x", "y", "a", "b"}

func (v varID) String() string { return varNames[v] }

// node is one expression tree vertex. op holds the operator spelling for
// unary and binary nodes and the function name for calls.
type node struct {
	kind nodeKind
	op   string
	num  float64
	v    varID
	args []*node
	pos  int
}

func numNode(v float64, pos int) *node { return &node{kind: nodeNum, num: v, pos: pos} }

func (n *node) isConst() bool { return n.kind == nodeNum }

// builtin describes a callable math function. Variadic functions take at
// least arity arguments and are reduced pairwise with f2.
type builtin struct {
	arity    int
	variadic bool
	f1       func(float64) float64
	f2       func(float64, float64) float64
}

var builtins = map[string]builtin{
	"sin":   {arity: 1, f1: math.Sin},
	"cos":   {arity: 1, f1: math.Cos},
	"tan":   {arity: 1, f1: math.Tan},
	"abs":   {arity: 1, f1: math.Abs},
	"floor": {arity: 1, f1: math.Floor},
	"ceil":  {arity: 1, f1: math.Ceil},
	"round": {arity: 1, f1: jsRound},
	"sqrt":  {arity: 1, f1: math.Sqrt},
	"log":   {arity: 1, f1: math.Log},
	"exp":   {arity: 1, f1: math.Exp},
	"sign":  {arity: 1, f1: jsSign},
	"pow":   {arity: 2, f2: jsPow},
	"min":   {arity: 1, variadic: true, f2: math.Min},
	"max":   {arity: 1, variadic: true, f2: math.Max},
}

// call applies b to already evaluated arguments.
func (b builtin) call(vals []float64) float64 {
	if b.f1 != nil {
		return b.f1(vals[0])
	}
	acc := vals[0]
	if !b.variadic {
		return b.f2(acc, vals[1])
	}
	for _, v := range vals[1:] {
		acc = b.f2(acc, v)
	}
	return acc
}

var constants = map[string]float64{
	"PI": math.Pi,
	"E":  math.E,
}

// canonicalName strips the optional Math. prefix.
func canonicalName(name string) string {
	return strings.TrimPrefix(name, "Math.")
}

// walk visits n and its descendants depth first.
func (n *node) walk(fn func(*node)) {
	fn(n)
	for _, c := range n.args {
		c.walk(fn)
	}
}

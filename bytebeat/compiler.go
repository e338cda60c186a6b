// compiler.go - expression text to Generator

/*
██████╗ ██╗████████╗██████╗ ███████╗ █████╗ ████████╗
██╔══██╗██║╚══██╔══╝██╔══██╗██╔════╝██╔══██╗╚══██╔══╝
██████╔╝██║   ██║   ██████╔╝█████╗  ███████║   ██║
██╔══██╗██║   ██║   ██╔══██╗██╔══╝  ██╔══██║   ██║
██████╔╝██║   ██║   ██████╔╝███████╗██║  ██║   ██║
╚═════╝ ╚═╝   ╚═╝   ╚═════╝ ╚══════╝╚═╝  ╚═╝   ╚═╝

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/BitBeat
License: GPLv3 or later
*/

package bytebeat

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// Backend selects how a parsed expression is executed.
type Backend int

const (
	BackendNative Backend = iota // closure tree
	BackendLua                   // sandboxed gopher-lua chunk
)

func (b Backend) String() string {
	switch b {
	case BackendNative:
		return "native"
	case BackendLua:
		return "lua"
	}
	return fmt.Sprintf("backend(%d)", int(b))
}

func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "native":
		return BackendNative, nil
	case "lua":
		return BackendLua, nil
	}
	return 0, fmt.Errorf("%w: unknown backend %q (want native or lua)", ErrConfig, s)
}

// MaskPolicy decides when the implicit & 0xFF is applied.
type MaskPolicy int

const (
	// MaskTextual skips the implicit mask when the text contains "&255",
	// "&0xff" or "%256" once whitespace is removed and case folded. It can
	// fire on a reduction buried in a subexpression.
	MaskTextual MaskPolicy = iota
	// MaskSemantic skips the mask only when the outermost operation is an &
	// with a constant in [0,255] or a % by a constant of magnitude <= 256.
	MaskSemantic
)

func (m MaskPolicy) String() string {
	switch m {
	case MaskTextual:
		return "textual"
	case MaskSemantic:
		return "semantic"
	}
	return fmt.Sprintf("mask(%d)", int(m))
}

func ParseMaskPolicy(s string) (MaskPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "textual":
		return MaskTextual, nil
	case "semantic":
		return MaskSemantic, nil
	}
	return 0, fmt.Errorf("%w: unknown mask policy %q (want textual or semantic)", ErrConfig, s)
}

// CompileResult is one of three outcomes:
//
//	success:  Generator set, no Diagnostic, no Err
//	soft:     DefaultGenerator with a Diagnostic; the edit should be flagged
//	failure:  Diagnostic and Err, no Generator; keep the current one
type CompileResult struct {
	Generator  *Generator
	Diagnostic string
	Err        error
}

func (r CompileResult) Failed() bool { return r.Err != nil }

func (r CompileResult) Flagged() bool { return r.Err == nil && r.Diagnostic != "" }

// Accepted reports whether the result should be installed.
func (r CompileResult) Accepted() bool {
	return r.Err == nil && r.Diagnostic == "" && r.Generator != nil
}

// Compiler turns expression text into Generators. The zero value compiles
// natively with the textual mask policy. A Compiler keeps no state between
// calls but is meant for one control goroutine at a time.
type Compiler struct {
	Backend Backend
	Mask    MaskPolicy
}

func NewCompiler(backend Backend, mask MaskPolicy) *Compiler {
	return &Compiler{Backend: backend, Mask: mask}
}

// Compile with the default compiler.
func Compile(expr string, p Params) CompileResult {
	var c Compiler
	return c.Compile(expr, p)
}

// Compile parses, validates and probes expr. The probe evaluates once at t=0
// with p; a panic or a non-finite value there is a hard failure.
func (c *Compiler) Compile(expr string, p Params) CompileResult {
	src := normalizeSource(expr)
	if src == "" {
		return CompileResult{Generator: DefaultGenerator, Diagnostic: "empty expression"}
	}
	if len(src) > MAX_SOURCE_LEN {
		return failed(syntaxErr(-1, "expression is %d bytes, limit is %d", len(src), MAX_SOURCE_LEN))
	}

	root, err := parseExpr(src)
	if err != nil {
		return failed(err)
	}
	root = fold(root)
	masked := !c.hasReduction(src, root)

	var g *Generator
	switch c.Backend {
	case BackendLua:
		g, err = newLuaGenerator(src, root, masked)
		if err != nil {
			return failed(err)
		}
	default:
		g = newNativeGenerator(src, root, masked)
	}

	if err := probe(g, p); err != nil {
		g.Release()
		return failed(err)
	}
	return CompileResult{Generator: g}
}

func failed(err error) CompileResult {
	return CompileResult{Diagnostic: err.Error(), Err: err}
}

// normalizeSource trims whitespace and trailing statement terminators.
func normalizeSource(s string) string {
	s = strings.TrimSpace(s)
	for strings.HasSuffix(s, ";") {
		s = strings.TrimSpace(strings.TrimSuffix(s, ";"))
	}
	return s
}

func newNativeGenerator(src string, root *node, masked bool) *Generator {
	fn := compileNode(root)
	return newGenerator(src, masked, BackendNative, func(t uint32, p Params) float64 {
		return fn(newEnv(t, p))
	}, nil)
}

func probe(g *Generator, p Params) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = evalErr("evaluation at t=0 failed: %v", r)
		}
	}()
	v := g.Raw(0, p)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return evalErr("expression evaluates to %v at t=0", v)
	}
	return nil
}

// hasReduction reports whether the expression already bounds itself to a
// byte, in which case the implicit mask is skipped.
func (c *Compiler) hasReduction(src string, root *node) bool {
	if c.Mask == MaskSemantic {
		return semanticReduction(root)
	}
	return textualReduction(src)
}

func textualReduction(src string) bool {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, src)
	return strings.Contains(compact, "&255") ||
		strings.Contains(compact, "&0xff") ||
		strings.Contains(compact, "%256")
}

func semanticReduction(root *node) bool {
	if root.kind != nodeBinary {
		return false
	}
	l, r := root.args[0], root.args[1]
	switch root.op {
	case "&":
		return byteConst(l) || byteConst(r)
	case "%":
		return r.isConst() && r.num != 0 && math.Abs(r.num) <= 256
	}
	return false
}

func byteConst(n *node) bool {
	return n.isConst() && n.num >= 0 && n.num <= 255 && n.num == math.Trunc(n.num)
}

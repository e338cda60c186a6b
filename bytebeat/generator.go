// generator.go - compiled per-sample functions

package bytebeat

import (
	"sync"
)

// Generator is a compiled, immutable sample function. It is safe to call
// Sample from the render goroutine while the control side holds a reference.
type Generator struct {
	source  string
	masked  bool
	backend Backend
	eval    func(t uint32, p Params) float64
	release func()
	once    sync.Once
}

// DefaultGenerator is the sawtooth t & 0xFF. It is installed before the first
// successful compile and is the fallback after a render fault.
var DefaultGenerator = &Generator{
	source: "t & 0xFF",
	masked: true,
	eval: func(t uint32, _ Params) float64 {
		return float64(t & 0xFF)
	},
}

func newGenerator(source string, masked bool, backend Backend, eval func(uint32, Params) float64, release func()) *Generator {
	return &Generator{
		source:  source,
		masked:  masked,
		backend: backend,
		eval:    eval,
		release: release,
	}
}

// Sample evaluates the expression and reduces it to one byte. Masked
// expressions wrap through & 0xFF, the rest are clamped into [0,255].
func (g *Generator) Sample(t uint32, p Params) uint8 {
	v := g.eval(t, p)
	if g.masked {
		return uint8(toInt32(v) & 0xFF)
	}
	return clampByte(v)
}

// Raw returns the unreduced numeric result.
func (g *Generator) Raw(t uint32, p Params) float64 {
	return g.eval(t, p)
}

// Source is the normalized expression text the generator was compiled from.
func (g *Generator) Source() string { return g.source }

// Masked reports whether the implicit byte mask was applied.
func (g *Generator) Masked() bool { return g.masked }

func (g *Generator) Backend() Backend { return g.backend }

// Release frees backend resources. It is called by the engine once no render
// callback can still be using g, and is safe to call more than once.
func (g *Generator) Release() {
	if g == nil || g.release == nil {
		return
	}
	g.once.Do(g.release)
}

// params.go - live parameter set shared with the render path

package bytebeat

import (
	"fmt"
	"math"
	"strings"
	"sync/atomic"
)

const (
	ParamMin = 0.0
	ParamMax = 15.0
)

// Params is one snapshot of the four live scalars. It is passed by value into
// every Sample call so a compiled expression always sees a consistent set.
type Params struct {
	X, Y, A, B float32
}

// DefaultParams matches the startup pad positions.
var DefaultParams = Params{X: 5, Y: 8, A: 3, B: 11}

type ParamName int

const (
	ParamX ParamName = iota
	ParamY
	ParamA
	ParamB
	numParams
)

func (n ParamName) String() string {
	switch n {
	case ParamX:
		return "x"
	case ParamY:
		return "y"
	case ParamA:
		return "a"
	case ParamB:
		return "b"
	}
	return fmt.Sprintf("param(%d)", int(n))
}

// ParseParamName accepts the single-letter names used inside expressions.
func ParseParamName(s string) (ParamName, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return ParamX, nil
	case "y":
		return ParamY, nil
	case "a":
		return ParamA, nil
	case "b":
		return ParamB, nil
	}
	return 0, fmt.Errorf("unknown parameter %q (want x, y, a or b)", s)
}

// ClampParam bounds v to [ParamMin, ParamMax]. NaN maps to ParamMin.
func ClampParam(v float32) float32 {
	if v != v || v < ParamMin {
		return ParamMin
	}
	if v > ParamMax {
		return ParamMax
	}
	return v
}

func (p Params) Get(n ParamName) float32 {
	switch n {
	case ParamX:
		return p.X
	case ParamY:
		return p.Y
	case ParamA:
		return p.A
	case ParamB:
		return p.B
	}
	return 0
}

func (p *Params) Set(n ParamName, v float32) {
	switch n {
	case ParamX:
		p.X = v
	case ParamY:
		p.Y = v
	case ParamA:
		p.A = v
	case ParamB:
		p.B = v
	}
}

// Clamped returns p with every scalar bounded.
func (p Params) Clamped() Params {
	return Params{X: ClampParam(p.X), Y: ClampParam(p.Y), A: ClampParam(p.A), B: ClampParam(p.B)}
}

// paramStore holds each scalar as independently atomic float32 bits. The
// render path never waits on a writer.
type paramStore struct {
	v [numParams]atomic.Uint32
}

func (s *paramStore) store(n ParamName, v float32) {
	if n < 0 || n >= numParams {
		return
	}
	s.v[n].Store(math.Float32bits(v))
}

func (s *paramStore) storeAll(p Params) {
	s.v[ParamX].Store(math.Float32bits(p.X))
	s.v[ParamY].Store(math.Float32bits(p.Y))
	s.v[ParamA].Store(math.Float32bits(p.A))
	s.v[ParamB].Store(math.Float32bits(p.B))
}

func (s *paramStore) load() Params {
	return Params{
		X: math.Float32frombits(s.v[ParamX].Load()),
		Y: math.Float32frombits(s.v[ParamY].Load()),
		A: math.Float32frombits(s.v[ParamA].Load()),
		B: math.Float32frombits(s.v[ParamB].Load()),
	}
}

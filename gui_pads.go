// gui_pads.go - XY control pads and pointer routing

package main

import "github.com/intuitionamiga/bitbeat/bytebeat"

const PAD_COUNT = 2

// The mouse is routed like a touch with an ID above any real touch, so a
// finger on a pad wins over the mouse.
const mousePointerID = 1 << 30

type rect struct {
	X, Y, W, H float64
}

func (r rect) contains(px, py float64) bool {
	return px >= r.X && px < r.X+r.W && py >= r.Y && py < r.Y+r.H
}

// padValue maps a pointer position over pad r to a pair in
// [ParamMin, ParamMax]. The vertical value grows upward.
func padValue(r rect, px, py float64) (h, v float32) {
	if r.W <= 0 || r.H <= 0 {
		return bytebeat.ParamMin, bytebeat.ParamMin
	}
	fx := (px - r.X) / r.W
	fy := 1 - (py-r.Y)/r.H
	return bytebeat.ClampParam(float32(fx * bytebeat.ParamMax)),
		bytebeat.ClampParam(float32(fy * bytebeat.ParamMax))
}

// padPosition is the inverse of padValue, used to draw the puck.
func padPosition(r rect, h, v float32) (px, py float64) {
	fx := float64(bytebeat.ClampParam(h)) / bytebeat.ParamMax
	fy := float64(bytebeat.ClampParam(v)) / bytebeat.ParamMax
	return r.X + fx*r.W, r.Y + (1-fy)*r.H
}

type padPointer struct {
	ID   int
	X, Y float64
}

type padHit struct {
	Active  bool
	Pointer padPointer
	H, V    float32
}

// padRouter assigns every pointer to the pad it first landed in and keeps
// it there while it stays down, even when dragged outside. Within a pad the
// pointer with the lowest ID drives the values.
type padRouter struct {
	pads  [PAD_COUNT]rect
	owner map[int]int // pointer ID -> pad, -1 when it landed outside every pad
	live  map[int]struct{}
	hits  [PAD_COUNT]padHit
}

func newPadRouter() *padRouter {
	return &padRouter{
		owner: make(map[int]int),
		live:  make(map[int]struct{}),
	}
}

func (r *padRouter) setPads(pads [PAD_COUNT]rect) {
	r.pads = pads
}

func (r *padRouter) padAt(px, py float64) int {
	for i, p := range r.pads {
		if p.contains(px, py) {
			return i
		}
	}
	return -1
}

// route takes every pointer currently down and returns the winning pointer
// of each pad. Pointers missing from ptrs are forgotten.
func (r *padRouter) route(ptrs []padPointer) [PAD_COUNT]padHit {
	r.hits = [PAD_COUNT]padHit{}
	for _, p := range ptrs {
		pad, ok := r.owner[p.ID]
		if !ok {
			pad = r.padAt(p.X, p.Y)
			r.owner[p.ID] = pad
		}
		r.live[p.ID] = struct{}{}
		if pad < 0 {
			continue
		}
		h := &r.hits[pad]
		if !h.Active || p.ID < h.Pointer.ID {
			h.Active = true
			h.Pointer = p
			h.H, h.V = padValue(r.pads[pad], p.X, p.Y)
		}
	}
	for id := range r.owner {
		if _, ok := r.live[id]; !ok {
			delete(r.owner, id)
		}
	}
	clear(r.live)
	return r.hits
}

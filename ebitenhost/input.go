package ebitenhost

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/drift"
)

// PointerSink receives pointer input in viewport coordinates.
// *drift.Gallery satisfies it.
type PointerSink interface {
	MouseDown(x, y float64)
	MouseMove(x, y float64)
	MouseUp(x, y float64)
	TouchStart(id drift.TouchID, x, y float64)
	TouchMove(id drift.TouchID, x, y float64)
	TouchEnd(id drift.TouchID, x, y float64)
}

// touchPoint is one active touch contact in a polled frame.
type touchPoint struct {
	id  drift.TouchID
	pos drift.Vec2
}

// pointerFrame is a snapshot of the pointer devices for one tick.
type pointerFrame struct {
	mouse        drift.Vec2
	mousePressed bool
	touches      []touchPoint
}

// pointerTracker turns per-tick device snapshots into press, move and
// release transitions.
type pointerTracker struct {
	mouseDown bool
	mouseLast drift.Vec2

	touches  map[drift.TouchID]drift.Vec2
	seen     map[drift.TouchID]struct{}
	sawTouch bool

	touchIDs []ebiten.TouchID
	frame    pointerFrame
}

func newPointerTracker() *pointerTracker {
	return &pointerTracker{
		touches: make(map[drift.TouchID]drift.Vec2),
		seen:    make(map[drift.TouchID]struct{}),
	}
}

// read polls Ebitengine for the current mouse and touch state.
func (p *pointerTracker) read() pointerFrame {
	mx, my := ebiten.CursorPosition()
	p.frame.mouse = drift.Vec2{X: float64(mx), Y: float64(my)}
	p.frame.mousePressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	p.touchIDs = ebiten.AppendTouchIDs(p.touchIDs[:0])
	p.frame.touches = p.frame.touches[:0]
	for _, tid := range p.touchIDs {
		tx, ty := ebiten.TouchPosition(tid)
		p.frame.touches = append(p.frame.touches, touchPoint{
			id:  drift.TouchID(tid),
			pos: drift.Vec2{X: float64(tx), Y: float64(ty)},
		})
	}
	return p.frame
}

// apply diffs f against the previous frame and forwards the transitions.
// Touches are processed before the mouse so emulated mouse events on touch
// screens arrive after the touch that caused them.
func (p *pointerTracker) apply(f pointerFrame, sink PointerSink) {
	clear(p.seen)
	for _, t := range f.touches {
		p.seen[t.id] = struct{}{}
		p.sawTouch = true
		last, ok := p.touches[t.id]
		switch {
		case !ok:
			sink.TouchStart(t.id, t.pos.X, t.pos.Y)
		case last != t.pos:
			sink.TouchMove(t.id, t.pos.X, t.pos.Y)
		}
		p.touches[t.id] = t.pos
	}
	for id, last := range p.touches {
		if _, ok := p.seen[id]; ok {
			continue
		}
		sink.TouchEnd(id, last.X, last.Y)
		delete(p.touches, id)
	}

	switch {
	case f.mousePressed && !p.mouseDown:
		sink.MouseDown(f.mouse.X, f.mouse.Y)
	case f.mousePressed && f.mouse != p.mouseLast:
		sink.MouseMove(f.mouse.X, f.mouse.Y)
	case !f.mousePressed && p.mouseDown:
		sink.MouseUp(f.mouse.X, f.mouse.Y)
	}
	p.mouseDown = f.mousePressed
	p.mouseLast = f.mouse
}

// touchCapable reports whether any touch has been observed so far.
func (p *pointerTracker) touchCapable() bool {
	return p.sawTouch
}

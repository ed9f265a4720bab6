package drift

import "math"

// Vec2 is a 2D vector used for positions, offsets, velocities, and sizes
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v multiplied by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Dist returns the Euclidean distance between v and o.
func (v Vec2) Dist(o Vec2) float64 { return math.Hypot(v.X-o.X, v.Y-o.Y) }

// Size is the width and height of a viewport or tile.
type Size struct {
	Width, Height float64
}

// Empty reports whether the size has zero (or negative) area.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// ImageID is an opaque identifier for a cover image. The core never fetches
// or validates these; it only picks one per tile.
type ImageID string

// TouchID is the platform-assigned identifier of a single touch contact.
type TouchID int

// InputSource identifies which device drives the current drag session.
type InputSource uint8

const (
	SourceNone  InputSource = iota // no active session
	SourceMouse                    // mouse or pen
	SourceTouch                    // single-finger touch
)

// DragPhase is the state of the drag/momentum controller.
type DragPhase uint8

const (
	PhaseIdle      DragPhase = iota // offset frozen
	PhaseDragging                   // pointer held, offset follows it
	PhaseMomentum                   // released with velocity, decaying
	PhaseScrolling                  // programmatic tween (ScrollTo)
)

// String returns the phase name.
func (p DragPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseMomentum:
		return "momentum"
	case PhaseScrolling:
		return "scrolling"
	default:
		return "unknown"
	}
}

// EventType identifies a kind of tile event.
type EventType uint8

const (
	EventTileEnter EventType = iota // tile key appeared in the visible set
	EventTileExit                   // tile key left the visible set
	EventTileClick                  // press and release over the same tile
)

// String returns the event name.
func (e EventType) String() string {
	switch e {
	case EventTileEnter:
		return "enter"
	case EventTileExit:
		return "exit"
	case EventTileClick:
		return "click"
	default:
		return "unknown"
	}
}

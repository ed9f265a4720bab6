package drift

import (
	"math"
	"testing"
	"time"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// fakeClock is a manually advanced time source for DragController.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestVec2Math(t *testing.T) {
	a := Vec2{X: 3, Y: 4}
	b := Vec2{X: 1, Y: -2}
	if got := a.Add(b); got != (Vec2{4, 2}) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); got != (Vec2{2, 6}) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Scale(0.5); got != (Vec2{1.5, 2}) {
		t.Errorf("Scale = %v", got)
	}
	if a.Len() != 5 {
		t.Errorf("Len = %v, want 5", a.Len())
	}
	if d := a.Dist(Vec2{}); d != 5 {
		t.Errorf("Dist = %v, want 5", d)
	}
}

func TestRectContainsIntersects(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 10}
	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"inside", 15, 15, true},
		{"top-left edge", 10, 10, true},
		{"bottom-right edge", 30, 20, true},
		{"left of", 9.9, 15, false},
		{"below", 15, 20.1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%v,%v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}

	if !r.Intersects(Rect{X: 30, Y: 20, Width: 5, Height: 5}) {
		t.Error("edge-touching rects should intersect")
	}
	if r.Intersects(Rect{X: 31, Y: 0, Width: 5, Height: 5}) {
		t.Error("disjoint rects should not intersect")
	}
	if c := r.Center(); c != (Vec2{20, 15}) {
		t.Errorf("Center = %v", c)
	}
}

func TestSizeEmpty(t *testing.T) {
	if !(Size{}).Empty() {
		t.Error("zero size should be empty")
	}
	if !(Size{Width: 10}).Empty() {
		t.Error("zero height should be empty")
	}
	if (Size{Width: 1, Height: 1}).Empty() {
		t.Error("1x1 should not be empty")
	}
}

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{PhaseIdle.String(), "idle"},
		{PhaseDragging.String(), "dragging"},
		{PhaseMomentum.String(), "momentum"},
		{PhaseScrolling.String(), "scrolling"},
		{DragPhase(99).String(), "unknown"},
		{EventTileEnter.String(), "enter"},
		{EventTileExit.String(), "exit"},
		{EventTileClick.String(), "click"},
		{EventType(99).String(), "unknown"},
		{PlacementAligned.String(), "aligned"},
		{PlacementOrganic.String(), "organic"},
		{DeviceDesktop.String(), "desktop"},
		{DeviceTablet.String(), "tablet"},
		{DeviceMobile.String(), "mobile"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

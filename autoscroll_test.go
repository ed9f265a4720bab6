package drift

import (
	"testing"
	"time"
)

func TestAmbientScrollerUpdate(t *testing.T) {
	a := NewAmbientScroller(Vec2{X: 20, Y: -10})
	if !a.Enabled() || !a.IsScrolling() {
		t.Fatal("new scroller should be enabled and scrolling")
	}
	a.Update(500 * time.Millisecond)
	if got := a.Offset(); !approxEqual(got.X, 10, epsilon) || !approxEqual(got.Y, -5, epsilon) {
		t.Errorf("Offset = %v, want (10,-5)", got)
	}
	a.Update(0)
	a.Update(-time.Second)
	if got := a.Offset(); !approxEqual(got.X, 10, epsilon) {
		t.Errorf("non-positive dt moved the offset: %v", got)
	}
}

func TestAmbientScrollerPauseAndDisable(t *testing.T) {
	a := NewAmbientScroller(Vec2{X: 10})
	a.Pause()
	a.Update(time.Second)
	if a.Offset() != (Vec2{}) || a.IsScrolling() {
		t.Errorf("paused scroller moved: %v", a.Offset())
	}
	a.Resume()
	a.Update(time.Second)
	if !approxEqual(a.Offset().X, 10, epsilon) {
		t.Errorf("Offset = %v after resume", a.Offset())
	}

	a.Pause()
	a.SetEnabled(false)
	a.SetEnabled(true)
	if !a.IsScrolling() {
		t.Error("disabling should clear a pause")
	}

	if NewAmbientScroller(Vec2{}).IsScrolling() {
		t.Error("zero speed should not count as scrolling")
	}
}

func TestAmbientScrollerAttach(t *testing.T) {
	d, clock := newTestDrag()
	a := NewAmbientScroller(Vec2{X: 100})
	a.Attach(d)
	a.Attach(d) // re-attaching must not stack hooks

	a.Update(100 * time.Millisecond)
	if got := d.CombinedOffset(); !approxEqual(got.X, 10, epsilon) {
		t.Errorf("CombinedOffset = %v, want ambient 10", got)
	}

	d.MouseDown(0, 0)
	if a.IsScrolling() {
		t.Fatal("press should pause ambient drift")
	}
	a.Update(time.Second)
	clock.advance(100 * time.Millisecond)
	d.MouseMove(1, 0)
	d.MouseUp()
	if !a.IsScrolling() {
		t.Fatal("settled release should resume ambient drift")
	}
	if got := a.Offset(); !approxEqual(got.X, 10, epsilon) {
		t.Errorf("ambient moved while paused: %v", got)
	}

	a.Detach()
	d.MouseDown(0, 0)
	if !a.IsScrolling() {
		t.Error("detached scroller should ignore presses")
	}
}

func TestAmbientScrollerWaitsForMomentum(t *testing.T) {
	d, clock := newTestDrag()
	a := NewAmbientScroller(Vec2{Y: 30})
	a.Attach(d)

	flick(d, clock, 90, 3)
	if !d.IsInMomentum() {
		t.Fatal("expected momentum")
	}
	if a.IsScrolling() {
		t.Error("ambient should stay paused during momentum")
	}
	for d.IsInMomentum() {
		d.Tick(frame)
	}
	if !a.IsScrolling() {
		t.Error("ambient should resume once momentum settles")
	}
}

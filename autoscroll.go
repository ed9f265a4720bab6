package drift

import "time"

// AmbientScroller produces a slowly drifting offset that is added on top of
// the user-driven one. It pauses while the user interacts.
type AmbientScroller struct {
	// Speed is the drift velocity in world units per second.
	Speed Vec2

	offset  Vec2
	enabled bool
	paused  bool

	handles [2]CallbackHandle
}

// NewAmbientScroller creates an enabled scroller drifting at speed.
func NewAmbientScroller(speed Vec2) *AmbientScroller {
	return &AmbientScroller{Speed: speed, enabled: true}
}

// Offset returns the accumulated drift. It implements OffsetSource.
func (a *AmbientScroller) Offset() Vec2 { return a.offset }

// Update advances the drift by dt unless disabled or paused.
func (a *AmbientScroller) Update(dt time.Duration) {
	if !a.IsScrolling() || dt <= 0 {
		return
	}
	a.offset = a.offset.Add(a.Speed.Scale(dt.Seconds()))
}

// Pause suspends drifting until Resume.
func (a *AmbientScroller) Pause() { a.paused = true }

// Resume continues drifting after Pause.
func (a *AmbientScroller) Resume() { a.paused = false }

// SetEnabled turns drifting on or off. Disabling also clears a pause.
func (a *AmbientScroller) SetEnabled(enabled bool) {
	a.enabled = enabled
	if !enabled {
		a.paused = false
	}
}

// Enabled reports whether the scroller is switched on.
func (a *AmbientScroller) Enabled() bool { return a.enabled }

// IsScrolling reports whether the scroller is enabled and not paused.
func (a *AmbientScroller) IsScrolling() bool {
	return a.enabled && !a.paused && (a.Speed.X != 0 || a.Speed.Y != 0)
}

// Attach makes ctrl read this scroller as its external offset and wires the
// drag hooks so drifting stops on press and resumes once motion has settled.
// A previous attachment is detached first.
func (a *AmbientScroller) Attach(ctrl *DragController) {
	a.Detach()
	ctrl.SetExternal(a)
	a.handles[0] = ctrl.OnDragStart(a.Pause)
	a.handles[1] = ctrl.OnDragEnd(a.Resume)
}

// Detach removes the drag hooks installed by Attach.
func (a *AmbientScroller) Detach() {
	for i := range a.handles {
		a.handles[i].Remove()
		a.handles[i] = CallbackHandle{}
	}
}

package drift

import (
	"math"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DragConfig tunes the drag/momentum controller. Velocities are in world
// units per millisecond.
type DragConfig struct {
	// Lookback is the trailing window of pointer samples used to compute the
	// release velocity for mouse drags. TouchLookback applies to touch drags.
	Lookback      time.Duration
	TouchLookback time.Duration

	// DecayFactor multiplies the velocity once per FrameInterval during
	// momentum. TouchDecayFactor applies after touch drags.
	DecayFactor      float64
	TouchDecayFactor float64

	// MinReleaseVelocity is the speed a release must exceed to start
	// momentum. StopVelocity ends momentum once the speed falls below it.
	MinReleaseVelocity float64
	StopVelocity       float64

	// FrameInterval is the nominal frame length the decay factor refers to.
	FrameInterval time.Duration
}

// DefaultDragConfig returns the desktop tuning.
func DefaultDragConfig() DragConfig {
	return DragConfig{
		Lookback:           200 * time.Millisecond,
		TouchLookback:      150 * time.Millisecond,
		DecayFactor:        0.95,
		TouchDecayFactor:   0.92,
		MinReleaseVelocity: 0.1,
		StopVelocity:       0.01,
		FrameInterval:      16 * time.Millisecond,
	}
}

// withDefaults fills zero fields from DefaultDragConfig.
func (c DragConfig) withDefaults() DragConfig {
	d := DefaultDragConfig()
	if c.Lookback <= 0 {
		c.Lookback = d.Lookback
	}
	if c.TouchLookback <= 0 {
		c.TouchLookback = c.Lookback
	}
	if c.DecayFactor <= 0 || c.DecayFactor >= 1 {
		c.DecayFactor = d.DecayFactor
	}
	if c.TouchDecayFactor <= 0 || c.TouchDecayFactor >= 1 {
		c.TouchDecayFactor = c.DecayFactor
	}
	if c.MinReleaseVelocity <= 0 {
		c.MinReleaseVelocity = d.MinReleaseVelocity
	}
	if c.StopVelocity <= 0 {
		c.StopVelocity = d.StopVelocity
	}
	if c.FrameInterval <= 0 {
		c.FrameInterval = d.FrameInterval
	}
	return c
}

// OffsetSource supplies an externally owned offset, such as ambient
// auto-scroll. The controller only ever reads it.
type OffsetSource interface {
	Offset() Vec2
}

// dragSample is one pointer position in the velocity history.
type dragSample struct {
	pos Vec2
	at  time.Time
}

// scrollAnim holds active scroll-to tweens for the offset X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// DragController turns pointer input into a continuous pan offset, with
// inertial momentum after release. It is not safe for concurrent use; drive
// it from the host's update loop.
type DragController struct {
	cfg DragConfig
	now func() time.Time

	phase  DragPhase
	source InputSource

	// touchID is valid only while hasTouch is set.
	touchID  TouchID
	hasTouch bool

	offset      Vec2
	startOffset Vec2
	startPtr    Vec2
	velocity    Vec2
	decay       float64
	history     []dragSample

	scroll   *scrollAnim
	external OffsetSource

	// engaged is true from the first press until motion fully settles.
	engaged bool

	onStart handlerList[func()]
	onEnd   handlerList[func()]
}

// NewDragController creates an idle controller. Zero config fields take
// their DefaultDragConfig values.
func NewDragController(cfg DragConfig) *DragController {
	return &DragController{
		cfg:     cfg.withDefaults(),
		now:     time.Now,
		history: make([]dragSample, 0, 32),
	}
}

// Config returns the active configuration.
func (d *DragController) Config() DragConfig {
	return d.cfg
}

// SetConfig replaces the configuration. An in-flight gesture keeps running
// with the new values.
func (d *DragController) SetConfig(cfg DragConfig) {
	d.cfg = cfg.withDefaults()
}

// SetClock replaces the time source used to timestamp pointer samples.
func (d *DragController) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	d.now = now
}

// SetExternal sets the additive external offset source. nil clears it.
func (d *DragController) SetExternal(src OffsetSource) {
	d.external = src
}

// OnDragStart registers fn to run when an interaction begins from rest.
func (d *DragController) OnDragStart(fn func()) CallbackHandle {
	return d.onStart.add(fn)
}

// OnDragEnd registers fn to run once motion has fully settled: at release
// when there is no momentum, otherwise when momentum decays out.
func (d *DragController) OnDragEnd(fn func()) CallbackHandle {
	return d.onEnd.add(fn)
}

// Offset returns the internal (user-driven) offset.
func (d *DragController) Offset() Vec2 { return d.offset }

// CombinedOffset returns the internal offset plus the external one.
func (d *DragController) CombinedOffset() Vec2 {
	if d.external == nil {
		return d.offset
	}
	return d.offset.Add(d.external.Offset())
}

// Velocity returns the current momentum velocity in units per millisecond.
func (d *DragController) Velocity() Vec2 { return d.velocity }

// Phase returns the controller state.
func (d *DragController) Phase() DragPhase { return d.phase }

// Source returns the input source of the active session.
func (d *DragController) Source() InputSource { return d.source }

// IsDragging reports whether a pointer is currently held.
func (d *DragController) IsDragging() bool { return d.phase == PhaseDragging }

// IsInMomentum reports whether inertial motion is running.
func (d *DragController) IsInMomentum() bool { return d.phase == PhaseMomentum }

// SetOffset moves the internal offset directly, stopping any motion. During
// a drag the pointer keeps its relative grip on the new position.
func (d *DragController) SetOffset(v Vec2) {
	if d.phase == PhaseDragging {
		d.startOffset = d.startOffset.Add(v.Sub(d.offset))
		d.offset = v
		return
	}
	d.stopMotion()
	d.offset = v
	d.settle()
}

// --- Mouse ---

// MouseDown starts a mouse drag. Ignored while a touch drag is active.
func (d *DragController) MouseDown(x, y float64) {
	if d.phase == PhaseDragging {
		return
	}
	d.begin(SourceMouse, Vec2{x, y})
}

// MouseMove updates a mouse drag. Ignored without a preceding MouseDown.
func (d *DragController) MouseMove(x, y float64) {
	if d.phase != PhaseDragging || d.source != SourceMouse {
		return
	}
	d.move(Vec2{x, y})
}

// MouseUp ends a mouse drag.
func (d *DragController) MouseUp() {
	if d.phase != PhaseDragging || d.source != SourceMouse {
		return
	}
	d.release()
}

// --- Touch ---

// TouchStart starts a touch drag tracked by id. Only the first contact
// drives the gesture; further contacts are ignored until it ends.
func (d *DragController) TouchStart(id TouchID, x, y float64) {
	if d.phase == PhaseDragging {
		return
	}
	d.begin(SourceTouch, Vec2{x, y})
	d.touchID = id
	d.hasTouch = true
}

// TouchMove updates the drag if id is the tracked contact.
func (d *DragController) TouchMove(id TouchID, x, y float64) {
	if !d.tracking(id) {
		return
	}
	d.move(Vec2{x, y})
}

// TouchEnd releases the drag if id is the tracked contact.
func (d *DragController) TouchEnd(id TouchID) {
	if !d.tracking(id) {
		return
	}
	d.release()
}

// TouchCancel ends the drag without momentum if id is the tracked contact.
func (d *DragController) TouchCancel(id TouchID) {
	if !d.tracking(id) {
		return
	}
	d.history = d.history[:0]
	d.hasTouch = false
	d.source = SourceNone
	d.settle()
}

// TrackedTouch returns the contact driving the current touch drag.
func (d *DragController) TrackedTouch() (TouchID, bool) {
	return d.touchID, d.hasTouch
}

func (d *DragController) tracking(id TouchID) bool {
	return d.phase == PhaseDragging && d.source == SourceTouch && d.hasTouch && d.touchID == id
}

// --- State machine ---

// begin cancels in-flight motion and starts a new drag.
func (d *DragController) begin(src InputSource, p Vec2) {
	d.stopMotion()

	wasEngaged := d.engaged
	d.phase = PhaseDragging
	d.source = src
	d.hasTouch = false
	d.startPtr = p
	d.startOffset = d.offset
	d.history = append(d.history[:0], dragSample{pos: p, at: d.now()})
	d.engaged = true

	if !wasEngaged {
		for _, h := range d.onStart.snapshot() {
			h.fn()
		}
	}
}

func (d *DragController) move(p Vec2) {
	d.offset = d.startOffset.Add(p.Sub(d.startPtr))
	now := d.now()
	d.history = append(d.history, dragSample{pos: p, at: now})
	d.prune(now)
}

// prune drops samples older than the lookback window, always keeping the
// newest one.
func (d *DragController) prune(now time.Time) {
	cutoff := now.Add(-d.lookback())
	drop := 0
	for drop < len(d.history)-1 && d.history[drop].at.Before(cutoff) {
		drop++
	}
	if drop > 0 {
		n := copy(d.history, d.history[drop:])
		d.history = d.history[:n]
	}
}

func (d *DragController) release() {
	d.prune(d.now())
	d.velocity = releaseVelocity(d.history)
	d.history = d.history[:0]

	d.decay = d.cfg.DecayFactor
	if d.source == SourceTouch {
		d.decay = d.cfg.TouchDecayFactor
	}
	d.hasTouch = false
	d.source = SourceNone

	if d.velocity.Len() < d.cfg.MinReleaseVelocity {
		d.velocity = Vec2{}
		d.settle()
		return
	}
	d.phase = PhaseMomentum
}

// releaseVelocity is the average velocity between the oldest and newest
// retained samples, in units per millisecond.
func releaseVelocity(h []dragSample) Vec2 {
	if len(h) < 2 {
		return Vec2{}
	}
	oldest, newest := h[0], h[len(h)-1]
	ms := float64(newest.at.Sub(oldest.at)) / float64(time.Millisecond)
	if ms <= 0 {
		return Vec2{}
	}
	return newest.pos.Sub(oldest.pos).Scale(1 / ms)
}

// Tick advances momentum or a scroll animation by dt and returns the
// combined offset. It is a no-op while idle or dragging.
func (d *DragController) Tick(dt time.Duration) Vec2 {
	if dt > 0 {
		switch d.phase {
		case PhaseMomentum:
			d.stepMomentum(dt)
		case PhaseScrolling:
			d.stepScroll(dt)
		}
	}
	return d.CombinedOffset()
}

func (d *DragController) stepMomentum(dt time.Duration) {
	frames := float64(dt) / float64(d.cfg.FrameInterval)
	d.velocity = d.velocity.Scale(math.Pow(d.decay, frames))
	ms := float64(dt) / float64(time.Millisecond)
	d.offset = d.offset.Add(d.velocity.Scale(ms))
	if d.velocity.Len() < d.cfg.StopVelocity {
		d.velocity = Vec2{}
		d.settle()
	}
}

// ScrollTo animates the internal offset to target over duration seconds.
// Any pointer press cancels the animation.
func (d *DragController) ScrollTo(target Vec2, duration float32, easeFn ease.TweenFunc) {
	if d.phase == PhaseDragging {
		return
	}
	if easeFn == nil {
		easeFn = ease.OutCubic
	}
	d.velocity = Vec2{}
	d.scroll = &scrollAnim{
		tweenX: gween.New(float32(d.offset.X), float32(target.X), duration, easeFn),
		tweenY: gween.New(float32(d.offset.Y), float32(target.Y), duration, easeFn),
	}
	wasEngaged := d.engaged
	d.phase = PhaseScrolling
	d.engaged = true
	if !wasEngaged {
		for _, h := range d.onStart.snapshot() {
			h.fn()
		}
	}
}

func (d *DragController) stepScroll(dt time.Duration) {
	s := d.scroll
	if s == nil {
		d.settle()
		return
	}
	sec := float32(dt.Seconds())
	if !s.doneX {
		val, done := s.tweenX.Update(sec)
		d.offset.X = float64(val)
		s.doneX = done
	}
	if !s.doneY {
		val, done := s.tweenY.Update(sec)
		d.offset.Y = float64(val)
		s.doneY = done
	}
	if s.doneX && s.doneY {
		d.scroll = nil
		d.settle()
	}
}

// stopMotion cancels momentum and scroll animation without firing hooks.
func (d *DragController) stopMotion() {
	d.velocity = Vec2{}
	d.scroll = nil
	if d.phase == PhaseMomentum || d.phase == PhaseScrolling {
		d.phase = PhaseIdle
	}
}

// settle moves to Idle and fires the end hooks if an interaction was open.
func (d *DragController) settle() {
	d.phase = PhaseIdle
	if !d.engaged {
		return
	}
	d.engaged = false
	for _, h := range d.onEnd.snapshot() {
		h.fn()
	}
}

func (d *DragController) lookback() time.Duration {
	if d.source == SourceTouch {
		return d.cfg.TouchLookback
	}
	return d.cfg.Lookback
}

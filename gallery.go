package drift

import (
	"time"

	"github.com/sirupsen/logrus"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Gallery, tile events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event TileEvent)
}

// TileEvent describes a tile entering or leaving the visible set, or being
// clicked.
type TileEvent struct {
	Type  EventType
	Key   TileKey
	Tile  Tile
	Cover ImageID

	// ScreenX and ScreenY are the pointer position for clicks and the tile
	// center for enter/exit events.
	ScreenX float64
	ScreenY float64
}

const defaultClickDeadZone = 4.0

// GalleryConfig configures a Gallery. Zero fields take defaults.
type GalleryConfig struct {
	// Profiles resolves per-device tuning. Defaults to DefaultProfiles.
	Profiles ProfileTable

	// Mode is the initial placement mode.
	Mode PlacementMode

	// Roster is the ordered list of covers assigned to tiles.
	Roster []ImageID

	// AmbientSpeed is the auto-scroll drift in world units per second.
	// A zero value disables ambient drift.
	AmbientSpeed Vec2

	// Logger receives lifecycle and debug output. Defaults to the logrus
	// standard logger.
	Logger logrus.FieldLogger

	// ClickDeadZone is how far, in pixels, a pointer may travel between
	// press and release for the gesture to count as a click.
	ClickDeadZone float64

	// DisableAnimations skips entrance and exit tweens.
	DisableAnimations bool
}

// PlacedTile is one tile ready to draw.
type PlacedTile struct {
	Key   TileKey
	Tile  Tile
	Cover ImageID

	// Scale combines the entrance animation with edge shrinking.
	Scale float64
	Alpha float64

	// Screen is the scaled tile rectangle in viewport coordinates.
	Screen Rect

	Exiting bool
}

// Stats is a per-frame summary, also logged in debug mode.
type Stats struct {
	Class   DeviceClass
	Mode    PlacementMode
	Phase   DragPhase
	Offset  Vec2
	Visible int
	Exiting int
	Entered int
	Exited  int

	VirtualizeTime time.Duration
}

// pressState tracks a pointer press for click detection.
// Only the source that opened the press may complete it.
type pressState struct {
	active bool
	moved  bool
	start  Vec2
	source InputSource
	touch  TouchID
}

// Gallery composes the drag controller, ambient scroller, virtualizer,
// lifecycle tracker, and cover assignment into one per-frame step. It owns
// no rendering; hosts draw the result of Tiles.
type Gallery struct {
	log      logrus.FieldLogger
	profiles ProfileTable
	deadZone float64

	class    DeviceClass
	profile  DeviceProfile
	mode     PlacementMode
	viewport Size
	sized    bool
	roster   []ImageID

	drag    *DragController
	ambient *AmbientScroller
	tracker *Tracker

	visible []Tile
	nearby  []PlacedCover
	out     []PlacedTile
	stats   Stats

	press pressState
	store EntityStore
	debug bool

	onEnter      handlerList[func(TileEvent)]
	onExit       handlerList[func(TileEvent)]
	onClick      handlerList[func(TileEvent)]
	onScreenshot handlerList[func(string)]

	injectQueue []syntheticPointerEvent
	testRunner  *TestRunner
}

// NewGallery creates a gallery. Call Resize before the first Update.
func NewGallery(cfg GalleryConfig) *Gallery {
	profiles := cfg.Profiles
	if len(profiles) == 0 {
		profiles = DefaultProfiles()
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	deadZone := cfg.ClickDeadZone
	if deadZone <= 0 {
		deadZone = defaultClickDeadZone
	}

	g := &Gallery{
		log:      log,
		profiles: profiles,
		deadZone: deadZone,
		mode:     cfg.Mode,
		roster:   append([]ImageID(nil), cfg.Roster...),
		tracker:  NewTracker(),
	}
	g.tracker.Animate = !cfg.DisableAnimations
	g.profile = profiles.Lookup(DeviceDesktop)
	g.drag = NewDragController(g.profile.Drag)
	g.ambient = NewAmbientScroller(cfg.AmbientSpeed)
	g.ambient.Attach(g.drag)
	return g
}

// Resize sets the viewport and reclassifies the device. A class change
// swaps the profile and rebuilds the visible set from scratch.
func (g *Gallery) Resize(width, height float64, touch, mobileAgent bool) {
	g.viewport = Size{Width: width, Height: height}
	class := ClassifyDevice(width, touch, mobileAgent)
	if g.sized && class == g.class {
		return
	}
	prev := g.class
	g.class = class
	g.profile = g.profiles.Lookup(class)
	g.drag.SetConfig(g.profile.Drag)
	g.resetTiles()
	if g.sized {
		g.log.WithFields(logrus.Fields{
			"from": prev.String(),
			"to":   class.String(),
		}).Info("device class changed")
	}
	g.sized = true
}

// Viewport returns the current viewport size.
func (g *Gallery) Viewport() Size { return g.viewport }

// DeviceClass returns the class chosen by the last Resize.
func (g *Gallery) DeviceClass() DeviceClass { return g.class }

// Profile returns the active device profile.
func (g *Gallery) Profile() DeviceProfile { return g.profile }

// Layout returns the active layout.
func (g *Gallery) Layout() Layout { return g.profile.Layout(g.mode) }

// Mode returns the placement mode.
func (g *Gallery) Mode() PlacementMode { return g.mode }

// SetMode switches the placement mode. Tile keys are not comparable across
// modes, so every visible tile exits now and re-enters on the next Update.
func (g *Gallery) SetMode(mode PlacementMode) {
	if mode == g.mode {
		return
	}
	g.mode = mode
	g.resetTiles()
	g.log.WithField("mode", mode.String()).Info("placement mode changed")
}

// ToggleMode flips between aligned and organic placement.
func (g *Gallery) ToggleMode() {
	g.SetMode(g.mode.Toggle())
}

// SetRoster replaces the cover roster and reassigns every tile.
func (g *Gallery) SetRoster(roster []ImageID) {
	g.roster = append(g.roster[:0], roster...)
	g.resetTiles()
}

// Roster returns the cover roster. The returned slice MUST NOT be mutated.
func (g *Gallery) Roster() []ImageID { return g.roster }

// Drag returns the underlying drag controller.
func (g *Gallery) Drag() *DragController { return g.drag }

// Ambient returns the ambient scroller.
func (g *Gallery) Ambient() *AmbientScroller { return g.ambient }

// Offset returns the combined pan offset.
func (g *Gallery) Offset() Vec2 { return g.drag.CombinedOffset() }

// SetEntityStore sets the optional ECS bridge.
func (g *Gallery) SetEntityStore(store EntityStore) {
	g.store = store
}

// SetDebugMode enables or disables per-frame stats logging.
func (g *Gallery) SetDebugMode(enabled bool) {
	g.debug = enabled
}

// OnTileEnter registers a callback fired when a tile joins the visible set.
func (g *Gallery) OnTileEnter(fn func(TileEvent)) CallbackHandle {
	return g.onEnter.add(fn)
}

// OnTileExit registers a callback fired when a tile leaves the visible set.
func (g *Gallery) OnTileExit(fn func(TileEvent)) CallbackHandle {
	return g.onExit.add(fn)
}

// OnTileClick registers a callback fired when a tile is clicked or tapped.
func (g *Gallery) OnTileClick(fn func(TileEvent)) CallbackHandle {
	return g.onClick.add(fn)
}

// OnScreenshot registers a callback fired when a script or caller requests
// a labeled screenshot. Hosts capture the next rendered frame.
func (g *Gallery) OnScreenshot(fn func(label string)) CallbackHandle {
	return g.onScreenshot.add(fn)
}

// Screenshot requests a labeled screenshot from the host.
func (g *Gallery) Screenshot(label string) {
	for _, h := range g.onScreenshot.snapshot() {
		h.fn(label)
	}
}

// --- Pointer input ---

// MouseDown forwards a mouse press in viewport coordinates. Ignored while a
// touch gesture owns the canvas.
func (g *Gallery) MouseDown(x, y float64) {
	if g.touchActive() {
		return
	}
	g.beginPress(SourceMouse, 0, x, y)
	g.drag.MouseDown(x, y)
}

// MouseMove forwards mouse motion.
func (g *Gallery) MouseMove(x, y float64) {
	if g.touchActive() {
		return
	}
	if g.press.source == SourceMouse {
		g.trackPress(x, y)
	}
	g.drag.MouseMove(x, y)
}

// MouseUp forwards a mouse release at (x, y).
func (g *Gallery) MouseUp(x, y float64) {
	if g.touchActive() {
		return
	}
	g.drag.MouseUp()
	if g.press.source == SourceMouse {
		g.endPress(x, y)
	}
}

// TouchStart forwards a touch press. Only the first touch of a gesture
// drives the canvas, and a mouse drag in progress keeps it.
func (g *Gallery) TouchStart(id TouchID, x, y float64) {
	if _, busy := g.drag.TrackedTouch(); busy {
		return
	}
	if g.drag.Phase() == PhaseDragging && g.drag.Source() == SourceMouse {
		return
	}
	g.beginPress(SourceTouch, id, x, y)
	g.drag.TouchStart(id, x, y)
}

// TouchMove forwards touch motion.
func (g *Gallery) TouchMove(id TouchID, x, y float64) {
	if tracked, ok := g.drag.TrackedTouch(); !ok || tracked != id {
		return
	}
	if g.ownsPress(id) {
		g.trackPress(x, y)
	}
	g.drag.TouchMove(id, x, y)
}

// TouchEnd forwards a touch release at (x, y).
func (g *Gallery) TouchEnd(id TouchID, x, y float64) {
	if tracked, ok := g.drag.TrackedTouch(); !ok || tracked != id {
		return
	}
	g.drag.TouchEnd(id)
	if g.ownsPress(id) {
		g.endPress(x, y)
	}
}

// TouchCancel abandons the touch gesture without a click.
func (g *Gallery) TouchCancel(id TouchID) {
	if tracked, ok := g.drag.TrackedTouch(); !ok || tracked != id {
		return
	}
	g.drag.TouchCancel(id)
	g.press = pressState{}
}

// touchActive reports whether a touch gesture is dragging the canvas.
func (g *Gallery) touchActive() bool {
	return g.drag.Phase() == PhaseDragging && g.drag.Source() == SourceTouch
}

func (g *Gallery) ownsPress(id TouchID) bool {
	return g.press.active && g.press.source == SourceTouch && g.press.touch == id
}

func (g *Gallery) beginPress(src InputSource, id TouchID, x, y float64) {
	g.press = pressState{active: true, start: Vec2{X: x, Y: y}, source: src, touch: id}
}

func (g *Gallery) trackPress(x, y float64) {
	if !g.press.active || g.press.moved {
		return
	}
	if (Vec2{X: x, Y: y}).Dist(g.press.start) > g.deadZone {
		g.press.moved = true
	}
}

func (g *Gallery) endPress(x, y float64) {
	g.trackPress(x, y)
	p := g.press
	g.press = pressState{}
	if !p.active || p.moved {
		return
	}
	g.click(p.start)
}

// click hit-tests the visible tiles at a screen point using their drawn,
// scaled rectangles.
func (g *Gallery) click(at Vec2) {
	for i := len(g.out) - 1; i >= 0; i-- {
		pt := &g.out[i]
		if pt.Exiting || !pt.Screen.Contains(at.X, at.Y) {
			continue
		}
		g.emit(TileEvent{
			Type:    EventTileClick,
			Key:     pt.Key,
			Tile:    pt.Tile,
			Cover:   pt.Cover,
			ScreenX: at.X,
			ScreenY: at.Y,
		})
		return
	}
}

// --- Navigation ---

// CenterOn animates the pan so world point p sits at the viewport center.
func (g *Gallery) CenterOn(p Vec2, duration time.Duration) {
	target := CenterOffset(p, g.viewport).Sub(g.ambient.Offset())
	if duration <= 0 {
		g.drag.SetOffset(target)
		return
	}
	g.drag.ScrollTo(target, float32(duration.Seconds()), nil)
}

// FocusTile centers the tile with the given key if it is currently tracked.
func (g *Gallery) FocusTile(key TileKey, duration time.Duration) bool {
	st, ok := g.tracker.State(key)
	if !ok {
		return false
	}
	g.CenterOn(st.Tile.Center(), duration)
	return true
}

// --- Frame step ---

// Update advances one frame: injected input, ambient drift, momentum,
// virtualization, lifecycle, and cover assignment.
func (g *Gallery) Update(dt time.Duration) {
	if g.testRunner != nil {
		g.testRunner.step(g)
	}
	g.processInjectedInput()

	g.ambient.Update(dt)
	offset := g.drag.Tick(dt)

	var t0 time.Time
	if g.debug {
		t0 = time.Now()
	}

	layout := g.profile.Layout(g.mode)
	g.visible = AppendVisibleTiles(g.visible[:0], offset, g.viewport, g.profile.BufferSectors, layout)
	diff := g.tracker.Sync(g.visible)
	g.assignCovers(diff.Entered)
	g.tracker.Advance(dt)
	g.rebuild(offset, layout)

	g.stats = Stats{
		Class:   g.class,
		Mode:    g.mode,
		Phase:   g.drag.Phase(),
		Offset:  offset,
		Visible: len(g.visible),
		Exiting: len(g.tracker.Exiting()),
		Entered: len(diff.Entered),
		Exited:  len(diff.Exited),
	}
	if g.debug {
		g.stats.VirtualizeTime = time.Since(t0)
		g.debugLog(g.stats)
	}

	for _, key := range diff.Exited {
		st, ok := g.tracker.State(key)
		if !ok {
			st, _ = g.tracker.Departed(key)
		}
		g.emitExit(key, st, offset)
	}
	for _, key := range diff.Entered {
		st, _ := g.tracker.State(key)
		c := WorldToScreen(st.Tile.Center(), offset)
		g.emit(TileEvent{
			Type:    EventTileEnter,
			Key:     key,
			Tile:    st.Tile,
			Cover:   st.Cover,
			ScreenX: c.X,
			ScreenY: c.Y,
		})
	}
}

// emitExit reports key as gone. st may be nil when no state survives.
func (g *Gallery) emitExit(key TileKey, st *TileState, offset Vec2) {
	ev := TileEvent{Type: EventTileExit, Key: key}
	if st != nil {
		ev.Tile, ev.Cover = st.Tile, st.Cover
		c := WorldToScreen(st.Tile.Center(), offset)
		ev.ScreenX, ev.ScreenY = c.X, c.Y
	} else {
		ev.Tile = Tile{SectorX: key.SectorX, SectorY: key.SectorY, PointIndex: key.PointIndex}
	}
	g.emit(ev)
}

// resetTiles reports every visible tile as exited and forgets all state,
// so the next Update re-enters the visible set with fresh covers. Tiles
// already fading out were reported when they left.
func (g *Gallery) resetTiles() {
	offset := g.drag.CombinedOffset()
	for _, key := range g.tracker.Keys() {
		st, _ := g.tracker.State(key)
		g.emitExit(key, st, offset)
	}
	g.tracker.Reset()
	g.out = g.out[:0]
	g.visible = g.visible[:0]
}

// assignCovers gives each newly entered tile a cover, avoiding covers
// already shown within the profile's cover radius. Covers are assigned once
// per key and kept for as long as the key stays tracked.
func (g *Gallery) assignCovers(entered []TileKey) {
	if len(entered) == 0 || len(g.roster) == 0 {
		return
	}
	radius := g.profile.CoverRadius

	g.nearby = g.nearby[:0]
	for _, key := range g.tracker.Keys() {
		if st, ok := g.tracker.State(key); ok && st.Cover != "" {
			g.nearby = append(g.nearby, PlacedCover{Tile: st.Tile, Cover: st.Cover})
		}
	}
	for _, key := range entered {
		st, ok := g.tracker.State(key)
		if !ok || st.Cover != "" {
			continue
		}
		exclude := NearbyCovers(st.Tile, g.nearby, radius)
		st.Cover = AssignCover(key.SectorX, key.SectorY, key.PointIndex, g.roster, exclude)
		g.nearby = append(g.nearby, PlacedCover{Tile: st.Tile, Cover: st.Cover})
	}
}

// rebuild refreshes the draw list: visible tiles in virtualizer order, then
// fading tiles on top.
func (g *Gallery) rebuild(offset Vec2, layout Layout) {
	g.out = g.out[:0]
	for _, key := range g.tracker.Keys() {
		if st, ok := g.tracker.State(key); ok {
			g.out = append(g.out, g.place(st, offset, layout))
		}
	}
	for _, key := range g.tracker.Exiting() {
		if st, ok := g.tracker.State(key); ok {
			g.out = append(g.out, g.place(st, offset, layout))
		}
	}
}

func (g *Gallery) place(st *TileState, offset Vec2, layout Layout) PlacedTile {
	size := layout.TileSize()
	c := WorldToScreen(st.Tile.Center(), offset)
	scale := st.Scale * EdgeScale(c, g.viewport, g.profile.EdgeFadeZone, g.profile.EdgeMinScale)
	w, h := size.Width*scale, size.Height*scale
	return PlacedTile{
		Key:     st.Key,
		Tile:    st.Tile,
		Cover:   st.Cover,
		Scale:   scale,
		Alpha:   st.Alpha,
		Screen:  Rect{X: c.X - w/2, Y: c.Y - h/2, Width: w, Height: h},
		Exiting: st.Exiting,
	}
}

// Tiles returns the draw list from the last Update. The returned slice
// MUST NOT be mutated and is reused by the next Update.
func (g *Gallery) Tiles() []PlacedTile {
	return g.out
}

// VisibleTiles returns the virtualized tiles from the last Update.
func (g *Gallery) VisibleTiles() []Tile {
	return g.visible
}

// Cover returns the cover assigned to key, if the key is tracked.
func (g *Gallery) Cover(key TileKey) (ImageID, bool) {
	st, ok := g.tracker.State(key)
	if !ok {
		return "", false
	}
	return st.Cover, true
}

// Stats returns the summary of the last Update.
func (g *Gallery) Stats() Stats {
	return g.stats
}

func (g *Gallery) emit(ev TileEvent) {
	var list *handlerList[func(TileEvent)]
	switch ev.Type {
	case EventTileEnter:
		list = &g.onEnter
	case EventTileExit:
		list = &g.onExit
	case EventTileClick:
		list = &g.onClick
	}
	if list != nil {
		for _, h := range list.snapshot() {
			h.fn(ev)
		}
	}
	if g.store != nil {
		g.store.EmitEvent(ev)
	}
}

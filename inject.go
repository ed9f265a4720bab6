package drift

// pointerAction is the kind of a synthetic pointer event.
type pointerAction uint8

const (
	actionPress pointerAction = iota
	actionMove
	actionRelease
)

// syntheticPointerEvent represents a single injected pointer event in
// viewport coordinates. It is routed through the same mouse path as real
// input, so drags produce momentum and presses produce clicks.
type syntheticPointerEvent struct {
	x, y   float64
	action pointerAction
}

// InjectPress queues a pointer press at the given viewport coordinates.
// The event is consumed on the next Update.
func (g *Gallery) InjectPress(x, y float64) {
	g.injectQueue = append(g.injectQueue, syntheticPointerEvent{x: x, y: y, action: actionPress})
}

// InjectMove queues a pointer move with the button held down. Use this
// between InjectPress and InjectRelease to simulate a drag.
func (g *Gallery) InjectMove(x, y float64) {
	g.injectQueue = append(g.injectQueue, syntheticPointerEvent{x: x, y: y, action: actionMove})
}

// InjectRelease queues a pointer release at the given viewport coordinates.
func (g *Gallery) InjectRelease(x, y float64) {
	g.injectQueue = append(g.injectQueue, syntheticPointerEvent{x: x, y: y, action: actionRelease})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (g *Gallery) InjectClick(x, y float64) {
	g.InjectPress(x, y)
	g.InjectRelease(x, y)
}

// InjectDrag queues a full drag: press at (fromX, fromY), frames-2 linearly
// interpolated moves, and release at (toX, toY). The sequence consumes
// frames frames; the minimum is 2.
func (g *Gallery) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	g.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		g.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	g.InjectRelease(toX, toY)
}

// PendingInjections returns the number of queued synthetic events.
func (g *Gallery) PendingInjections() int {
	return len(g.injectQueue)
}

// processInjectedInput pops one queued event and feeds it through the mouse
// path. Returns true if an event was consumed.
func (g *Gallery) processInjectedInput() bool {
	if len(g.injectQueue) == 0 {
		return false
	}
	evt := g.injectQueue[0]
	copy(g.injectQueue, g.injectQueue[1:])
	g.injectQueue = g.injectQueue[:len(g.injectQueue)-1]

	switch evt.action {
	case actionPress:
		g.MouseDown(evt.x, evt.y)
	case actionMove:
		g.MouseMove(evt.x, evt.y)
	case actionRelease:
		g.MouseMove(evt.x, evt.y)
		g.MouseUp(evt.x, evt.y)
	}
	return true
}

package drift

import "testing"

func TestInjectClick(t *testing.T) {
	g, _ := newTestGallery(t, GalleryConfig{DisableAnimations: true})
	g.Update(frame)

	var clicked []TileEvent
	g.OnTileClick(func(ev TileEvent) { clicked = append(clicked, ev) })

	g.InjectClick(200, 200)
	if g.PendingInjections() != 2 {
		t.Fatalf("expected 2 queued events, got %d", g.PendingInjections())
	}

	// Frame 1: press
	g.Update(frame)
	if g.PendingInjections() != 1 {
		t.Fatalf("expected 1 remaining event after frame 1, got %d", g.PendingInjections())
	}
	if len(clicked) != 0 {
		t.Error("click should not fire on press frame")
	}

	// Frame 2: release fires the click
	g.Update(frame)
	if g.PendingInjections() != 0 {
		t.Fatalf("expected 0 remaining events after frame 2, got %d", g.PendingInjections())
	}
	if len(clicked) != 1 || clicked[0].Key != (TileKey{}) {
		t.Errorf("clicks = %+v, want the origin tile", clicked)
	}
}

func TestInjectDrag(t *testing.T) {
	g, _ := newTestGallery(t, GalleryConfig{DisableAnimations: true})
	g.Update(frame)

	var events []string
	g.Drag().OnDragStart(func() { events = append(events, "start") })
	g.Drag().OnDragEnd(func() { events = append(events, "end") })
	clicks := 0
	g.OnTileClick(func(TileEvent) { clicks++ })

	// frame 0: press at (500,400)
	// frames 1-3: moves to 600, 700, 800
	// frame 4: release at (900,400)
	g.InjectDrag(500, 400, 900, 400, 5)
	if g.PendingInjections() != 5 {
		t.Fatalf("expected 5 queued events, got %d", g.PendingInjections())
	}
	g.Update(frame)
	g.Update(frame)
	if got := g.Offset(); got != (Vec2{100, 0}) {
		t.Errorf("offset after first move = %v, want (100,0)", got)
	}
	for g.PendingInjections() > 0 {
		g.Update(frame)
	}

	if got := g.Offset(); got != (Vec2{400, 0}) {
		t.Errorf("offset = %v, want (400,0)", got)
	}
	if len(events) != 2 || events[0] != "start" || events[1] != "end" {
		t.Errorf("hooks = %v, want [start end]", events)
	}
	if clicks != 0 {
		t.Error("a drag must not click")
	}
}

func TestInjectDragMinimumFrames(t *testing.T) {
	g, _ := newTestGallery(t, GalleryConfig{})
	g.InjectDrag(0, 0, 10, 10, 0)
	if g.PendingInjections() != 2 {
		t.Errorf("expected press and release only, got %d", g.PendingInjections())
	}
	if !g.processInjectedInput() || !g.processInjectedInput() {
		t.Fatal("expected two events to be consumed")
	}
	if g.processInjectedInput() {
		t.Error("empty queue should report false")
	}
}

func TestInjectMoveWithoutPress(t *testing.T) {
	g, _ := newTestGallery(t, GalleryConfig{})
	g.InjectMove(300, 300)
	g.InjectRelease(300, 300)
	g.Update(frame)
	g.Update(frame)
	if g.Offset() != (Vec2{}) {
		t.Errorf("offset = %v, a move without press must not pan", g.Offset())
	}
}

package termhost

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/phanxgames/drift"
)

func newTestHost(t *testing.T) (*Host, *drift.Gallery, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 24)

	log, _ := test.NewNullLogger()
	catalog := drift.NewCatalog([]drift.Album{
		{ID: "1", Title: "#1", Artist: "RFD", ImageURL: "/a.jpg"},
		{ID: "2", Title: "#2", Artist: "RFD", ImageURL: "/b.jpg"},
	})
	g := drift.NewGallery(drift.GalleryConfig{
		Roster:            catalog.Roster(),
		DisableAnimations: true,
		Logger:            log,
	})
	frozen := time.Unix(1000, 0)
	g.Drag().SetClock(func() time.Time { return frozen })

	h := New(screen, g, Options{Catalog: catalog, Logger: log})
	return h, g, screen
}

func screenText(s tcell.SimulationScreen, row int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, row)
		b.WriteRune(r)
	}
	return b.String()
}

func countRune(s tcell.SimulationScreen, want rune) int {
	w, h := s.Size()
	n := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if r, _, _, _ := s.GetContent(x, y); r == want {
				n++
			}
		}
	}
	return n
}

func TestHostResizeSetsViewport(t *testing.T) {
	_, g, _ := newTestHost(t)
	vp := g.Viewport()
	if vp.Width != 80*defaultCellWidth || vp.Height != 24*defaultCellHeight {
		t.Errorf("viewport = %+v", vp)
	}
	if g.DeviceClass() != drift.DeviceDesktop {
		t.Errorf("class = %v, want desktop", g.DeviceClass())
	}
}

func TestHostDrawsTilesAndStatus(t *testing.T) {
	h, g, screen := newTestHost(t)
	h.Step(16 * time.Millisecond)

	if len(g.Tiles()) == 0 {
		t.Fatal("no tiles placed")
	}
	if n := countRune(screen, '┌'); n == 0 {
		t.Error("no tile corners drawn")
	}
	status := screenText(screen, 23)
	if !strings.HasPrefix(status, " aligned | desktop | tiles ") {
		t.Errorf("status = %q", status)
	}
}

func TestHostMouseDragPans(t *testing.T) {
	h, g, _ := newTestHost(t)
	h.Step(16 * time.Millisecond)

	h.HandleEvent(tcell.NewEventMouse(10, 10, tcell.Button1, tcell.ModNone))
	h.HandleEvent(tcell.NewEventMouse(20, 12, tcell.Button1, tcell.ModNone))
	h.HandleEvent(tcell.NewEventMouse(20, 12, tcell.ButtonNone, tcell.ModNone))

	want := drift.Vec2{X: 10 * defaultCellWidth, Y: 2 * defaultCellHeight}
	if got := g.Offset(); got != want {
		t.Errorf("offset = %+v, want %+v", got, want)
	}
	if g.Drag().Phase() != drift.PhaseIdle {
		t.Errorf("phase = %v, want idle", g.Drag().Phase())
	}
}

func TestHostClickSelectsTile(t *testing.T) {
	h, g, screen := newTestHost(t)
	h.Step(16 * time.Millisecond)

	var target drift.PlacedTile
	found := false
	for _, pt := range g.Tiles() {
		c := pt.Screen.Center()
		if c.X > 0 && c.Y > 0 && c.X < 80*defaultCellWidth && c.Y < 23*defaultCellHeight {
			target, found = pt, true
			break
		}
	}
	if !found {
		t.Fatal("no tile on screen")
	}
	c := target.Screen.Center()
	cx, cy := int(c.X/defaultCellWidth), int(c.Y/defaultCellHeight)

	h.HandleEvent(tcell.NewEventMouse(cx, cy, tcell.Button1, tcell.ModNone))
	h.HandleEvent(tcell.NewEventMouse(cx, cy, tcell.ButtonNone, tcell.ModNone))

	if !h.hasSel || h.selKey != target.Key {
		t.Fatalf("selected %v (has %v), want %v", h.selKey, h.hasSel, target.Key)
	}
	h.Step(16 * time.Millisecond)
	if status := screenText(screen, 23); !strings.Contains(status, "by RFD") {
		t.Errorf("status = %q, want album caption", status)
	}

	if !h.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("first Esc should only close the selection")
	}
	if h.hasSel {
		t.Error("selection should be cleared")
	}
}

func TestHostKeys(t *testing.T) {
	h, g, _ := newTestHost(t)

	if !h.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'g', tcell.ModNone)) {
		t.Fatal("g should not quit")
	}
	if g.Mode() != drift.PlacementOrganic {
		t.Errorf("mode = %v, want organic", g.Mode())
	}

	h.HandleEvent(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	if g.Drag().Phase() != drift.PhaseScrolling {
		t.Errorf("phase after arrow = %v, want scrolling", g.Drag().Phase())
	}

	if h.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("q should quit")
	}
	if h.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("Esc without a selection should quit")
	}
	if h.HandleEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)) {
		t.Error("Ctrl+C should quit")
	}
}

func TestHostResizeEvent(t *testing.T) {
	h, g, screen := newTestHost(t)
	screen.SetSize(40, 20)
	h.HandleEvent(tcell.NewEventResize(40, 20))
	if g.Viewport().Width != 40*defaultCellWidth {
		t.Errorf("viewport = %+v", g.Viewport())
	}
	if g.DeviceClass() != drift.DeviceMobile {
		t.Errorf("class = %v, want mobile", g.DeviceClass())
	}
}

func TestHostRunStopsOnCancel(t *testing.T) {
	h, _, _ := newTestHost(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := h.Run(ctx); err != context.DeadlineExceeded {
		t.Errorf("Run = %v, want deadline exceeded", err)
	}
}

// Package termhost runs a drift.Gallery in a terminal using tcell. Tiles are
// drawn as labelled boxes and the mouse drags the canvas.
package termhost

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/phanxgames/drift"
)

// Options configures a Host. Zero fields take defaults.
type Options struct {
	// CellWidth and CellHeight are the virtual pixel size of one terminal
	// cell. The gallery works in pixels, so these set the zoom level.
	CellWidth  float64
	CellHeight float64

	// TickInterval is the frame period of Run.
	TickInterval time.Duration

	// Catalog labels tiles with album titles. Without it the cover id is
	// shown.
	Catalog *drift.Catalog

	Logger logrus.FieldLogger
}

const (
	defaultCellWidth  = 16
	defaultCellHeight = 32
	defaultTick       = 16 * time.Millisecond

	panStep     = 400.0
	panDuration = 0.35
)

var (
	styleBorder = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleFading = tcell.StyleDefault.Foreground(tcell.ColorGray).Dim(true)
	styleLabel  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorTeal)
	styleSelect = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

// Host drives a Gallery from tcell events and renders it to a Screen.
type Host struct {
	screen  tcell.Screen
	gallery *drift.Gallery
	opts    Options
	log     logrus.FieldLogger

	width, height int
	mouseDown     bool
	debug         bool

	selected *drift.Album
	selKey   drift.TileKey
	hasSel   bool
}

// New creates a host for an initialized screen.
func New(screen tcell.Screen, g *drift.Gallery, opts Options) *Host {
	if opts.CellWidth <= 0 {
		opts.CellWidth = defaultCellWidth
	}
	if opts.CellHeight <= 0 {
		opts.CellHeight = defaultCellHeight
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = defaultTick
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	h := &Host{screen: screen, gallery: g, opts: opts, log: log}
	g.OnTileClick(h.selectTile)
	h.resize(screen.Size())
	return h
}

// Run processes events and ticks until ctx is cancelled or the user quits.
// The caller owns the screen and must Fini it afterwards.
func (h *Host) Run(ctx context.Context) error {
	h.screen.EnableMouse()
	defer h.screen.DisableMouse()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(h.opts.TickInterval)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !h.HandleEvent(ev) {
				return nil
			}
		case now := <-ticker.C:
			h.Step(now.Sub(last))
			last = now
		}
	}
}

// HandleEvent applies one tcell event. It returns false when the user asked
// to quit.
func (h *Host) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return h.handleKey(ev)
	case *tcell.EventMouse:
		h.handleMouse(ev)
	case *tcell.EventResize:
		h.resize(ev.Size())
		h.screen.Sync()
	}
	return true
}

func (h *Host) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		if h.hasSel {
			h.clearSelection()
			return true
		}
		return false
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		h.pan(drift.Vec2{X: panStep})
	case tcell.KeyRight:
		h.pan(drift.Vec2{X: -panStep})
	case tcell.KeyUp:
		h.pan(drift.Vec2{Y: panStep})
	case tcell.KeyDown:
		h.pan(drift.Vec2{Y: -panStep})
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return false
		case 'g', 'G':
			h.gallery.ToggleMode()
		case 'd', 'D':
			h.debug = !h.debug
			h.gallery.SetDebugMode(h.debug)
		case 'c', 'C':
			if h.hasSel {
				h.gallery.FocusTile(h.selKey, 600*time.Millisecond)
			}
		}
	}
	return true
}

// pan scrolls the canvas by delta with a short ease.
func (h *Host) pan(delta drift.Vec2) {
	target := h.gallery.Drag().Offset().Add(delta)
	h.gallery.Drag().ScrollTo(target, panDuration, nil)
}

func (h *Host) handleMouse(ev *tcell.EventMouse) {
	cx, cy := ev.Position()
	x, y := h.cellToPixel(cx, cy)
	pressed := ev.Buttons()&tcell.Button1 != 0

	switch {
	case pressed && !h.mouseDown:
		h.gallery.MouseDown(x, y)
	case pressed:
		h.gallery.MouseMove(x, y)
	case h.mouseDown:
		h.gallery.MouseUp(x, y)
	}
	h.mouseDown = pressed
}

func (h *Host) resize(w, ht int) {
	h.width, h.height = w, ht
	h.gallery.Resize(float64(w)*h.opts.CellWidth, float64(ht)*h.opts.CellHeight, false, false)
}

// cellToPixel maps a cell to the pixel at its center.
func (h *Host) cellToPixel(cx, cy int) (float64, float64) {
	return (float64(cx) + 0.5) * h.opts.CellWidth, (float64(cy) + 0.5) * h.opts.CellHeight
}

func (h *Host) selectTile(ev drift.TileEvent) {
	album := h.albumFor(ev.Cover)
	h.selected = &album
	h.selKey = ev.Key
	h.hasSel = true
	h.log.WithFields(logrus.Fields{
		"tile":  ev.Key.String(),
		"cover": string(ev.Cover),
	}).Info("tile selected")
}

func (h *Host) clearSelection() {
	h.selected = nil
	h.hasSel = false
}

func (h *Host) albumFor(id drift.ImageID) drift.Album {
	if h.opts.Catalog != nil {
		return h.opts.Catalog.Lookup(id)
	}
	return drift.Album{ID: "unknown", Title: string(id), ImageURL: id}
}

// Step advances the gallery by dt and redraws.
func (h *Host) Step(dt time.Duration) {
	h.gallery.Update(dt)
	h.Draw()
}

// Draw renders the current tiles and the status line.
func (h *Host) Draw() {
	h.screen.Clear()
	for _, t := range h.gallery.Tiles() {
		if t.Alpha <= 0 || t.Scale <= 0 {
			continue
		}
		h.drawTile(t)
	}
	h.drawStatus()
	h.screen.Show()
}

// cellRect converts a pixel rectangle to an inclusive cell range.
func (h *Host) cellRect(r drift.Rect) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor(r.X / h.opts.CellWidth))
	y0 = int(math.Floor(r.Y / h.opts.CellHeight))
	x1 = int(math.Ceil((r.X+r.Width)/h.opts.CellWidth)) - 1
	y1 = int(math.Ceil((r.Y+r.Height)/h.opts.CellHeight)) - 1
	return x0, y0, x1, y1
}

func (h *Host) drawTile(t drift.PlacedTile) {
	x0, y0, x1, y1 := h.cellRect(t.Screen)
	if x1 < 0 || y1 < 0 || x0 >= h.width || y0 >= h.height {
		return
	}

	style := styleBorder
	switch {
	case t.Exiting || t.Alpha < 0.5:
		style = styleFading
	case h.hasSel && t.Key == h.selKey:
		style = styleSelect
	}

	if x1-x0 < 1 || y1-y0 < 1 {
		h.set(x0, y0, '▪', style)
		return
	}

	for x := x0 + 1; x < x1; x++ {
		h.set(x, y0, '─', style)
		h.set(x, y1, '─', style)
	}
	for y := y0 + 1; y < y1; y++ {
		h.set(x0, y, '│', style)
		h.set(x1, y, '│', style)
	}
	h.set(x0, y0, '┌', style)
	h.set(x1, y0, '┐', style)
	h.set(x0, y1, '└', style)
	h.set(x1, y1, '┘', style)

	if y1-y0 < 2 || t.Exiting {
		return
	}
	label := h.albumFor(t.Cover).Title
	inner := x1 - x0 - 1
	runes := []rune(label)
	if len(runes) > inner {
		runes = runes[:inner]
	}
	lx := x0 + 1 + (inner-len(runes))/2
	ly := (y0 + y1) / 2
	for i, r := range runes {
		h.set(lx+i, ly, r, styleLabel)
	}
}

func (h *Host) set(x, y int, r rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= h.width || y >= h.height-1 {
		return
	}
	h.screen.SetContent(x, y, r, nil, style)
}

func (h *Host) drawStatus() {
	if h.height <= 0 {
		return
	}
	line := h.statusLine()
	y := h.height - 1
	runes := []rune(line)
	for x := 0; x < h.width; x++ {
		r := ' '
		if x < len(runes) {
			r = runes[x]
		}
		h.screen.SetContent(x, y, r, nil, styleStatus)
	}
}

func (h *Host) statusLine() string {
	s := h.gallery.Stats()
	line := fmt.Sprintf(" %s | %s | tiles %d", s.Mode, s.Class, s.Visible)
	if h.debug {
		line += fmt.Sprintf(" (+%d) | %s | %.0f,%.0f", s.Exiting, s.Phase, s.Offset.X, s.Offset.Y)
	}
	if h.selected != nil {
		line += " | " + h.selected.Title
		if h.selected.Artist != "" {
			line += " by " + h.selected.Artist
		}
		line += " [c] center [esc] close"
	} else {
		line += " | drag to explore  [g] layout  [q] quit"
	}
	return line
}

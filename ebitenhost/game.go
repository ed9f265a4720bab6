// Package ebitenhost runs a drift.Gallery inside an Ebitengine window.
package ebitenhost

import (
	"image"
	"image/color"
	"runtime"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"

	"github.com/phanxgames/drift"
)

// ImageSource supplies decoded cover images without blocking. A miss may
// start a background load; the tile shows a placeholder until it lands.
type ImageSource interface {
	Peek(id drift.ImageID) (image.Image, bool)
}

// RunConfig configures the window and host behavior.
type RunConfig struct {
	Title         string
	Width, Height int
	ShowFPS       bool
	Debug         bool

	// ScreenshotDir receives PNGs requested by scripts or the P key.
	ScreenshotDir string

	Background  color.RGBA
	Placeholder color.RGBA

	// Images and Catalog are optional. Without Images every tile is drawn
	// as a placeholder; without Catalog clicks show the raw cover id.
	Images  ImageSource
	Catalog *drift.Catalog

	Logger logrus.FieldLogger
}

var (
	defaultBackground  = color.RGBA{R: 0x11, G: 0x11, B: 0x14, A: 0xff}
	defaultPlaceholder = color.RGBA{R: 0x2a, G: 0x2a, B: 0x33, A: 0xff}
)

// whitePixel is a 1x1 white image scaled and tinted to draw placeholders.
var whitePixel = func() *ebiten.Image {
	img := ebiten.NewImage(1, 1)
	img.Fill(color.White)
	return img
}()

// Game adapts a Gallery to ebiten.Game.
type Game struct {
	gallery *drift.Gallery
	cfg     RunConfig
	log     logrus.FieldLogger

	input    *pointerTracker
	hud      hud
	shots    screenshotQueue
	textures map[drift.ImageID]*ebiten.Image

	width, height int
	touch         bool

	selected  int
	selection *drift.Album
}

// NewGame wires g to an Ebitengine host.
func NewGame(g *drift.Gallery, cfg RunConfig) *Game {
	if cfg.Background == (color.RGBA{}) {
		cfg.Background = defaultBackground
	}
	if cfg.Placeholder == (color.RGBA{}) {
		cfg.Placeholder = defaultPlaceholder
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	game := &Game{
		gallery:  g,
		cfg:      cfg,
		log:      log,
		input:    newPointerTracker(),
		hud:      hud{showFPS: cfg.ShowFPS, debug: cfg.Debug},
		shots:    screenshotQueue{dir: cfg.ScreenshotDir, log: log},
		textures: make(map[drift.ImageID]*ebiten.Image),
		selected: -1,
	}
	g.SetDebugMode(cfg.Debug)
	g.OnScreenshot(game.shots.push)
	g.OnTileClick(game.selectTile)
	return game
}

// Run opens a window and blocks until it is closed.
func Run(g *drift.Gallery, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 1024
	}
	if cfg.Height <= 0 {
		cfg.Height = 768
	}
	if cfg.Title == "" {
		cfg.Title = "drift"
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(NewGame(g, cfg))
}

// mobileAgent reports whether the process runs on a phone or tablet OS.
func mobileAgent() bool {
	return runtime.GOOS == "android" || runtime.GOOS == "ios"
}

// Update polls input and advances the gallery by one tick.
func (game *Game) Update() error {
	dt := time.Second / time.Duration(ebiten.TPS())

	game.handleKeys()
	game.input.apply(game.input.read(), game.gallery)
	if game.input.touchCapable() && !game.touch {
		game.touch = true
		game.resize()
	}

	game.gallery.Update(dt)
	game.hud.update(dt, game.gallery.Stats())
	return nil
}

func (game *Game) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		game.gallery.ToggleMode()
	case inpututil.IsKeyJustPressed(ebiten.KeyF3):
		game.hud.debug = !game.hud.debug
		game.gallery.SetDebugMode(game.hud.debug)
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		game.gallery.Screenshot("manual")
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		game.selection = nil
		game.selected = -1
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		game.browse(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		game.browse(-1)
	}
}

// selectTile opens the detail caption for a clicked tile.
func (game *Game) selectTile(ev drift.TileEvent) {
	album := drift.Album{ID: "unknown", Title: string(ev.Cover), ImageURL: ev.Cover}
	game.selected = -1
	if game.cfg.Catalog != nil {
		album = game.cfg.Catalog.Lookup(ev.Cover)
		game.selected = game.cfg.Catalog.Index(ev.Cover)
	}
	game.selection = &album
	game.log.WithFields(logrus.Fields{
		"tile":  ev.Key.String(),
		"cover": string(ev.Cover),
		"title": album.Title,
	}).Info("tile selected")
}

// browse steps the selection through the catalog, wrapping at the ends.
func (game *Game) browse(dir int) {
	c := game.cfg.Catalog
	if c == nil || game.selection == nil || game.selected < 0 {
		return
	}
	if dir > 0 {
		game.selected = c.Next(game.selected)
	} else {
		game.selected = c.Previous(game.selected)
	}
	if album, ok := c.ByIndex(game.selected); ok {
		game.selection = &album
	}
}

// Draw renders every placed tile, then the HUD, then pending screenshots.
func (game *Game) Draw(screen *ebiten.Image) {
	screen.Fill(game.cfg.Background)

	for _, t := range game.gallery.Tiles() {
		if t.Alpha <= 0 || t.Scale <= 0 {
			continue
		}
		if tex := game.texture(t.Cover); tex != nil {
			drawCover(screen, tex, t)
			continue
		}
		drawPlaceholder(screen, t, game.cfg.Placeholder)
	}

	game.hud.draw(screen, game.selection)
	game.shots.flush(screen)
}

// Layout tracks the outside size and resizes the gallery when it changes.
func (game *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != game.width || outsideHeight != game.height {
		game.width, game.height = outsideWidth, outsideHeight
		game.resize()
	}
	return outsideWidth, outsideHeight
}

func (game *Game) resize() {
	game.gallery.Resize(float64(game.width), float64(game.height), game.touch, mobileAgent())
}

// texture returns the GPU image for a cover, uploading it on first use.
func (game *Game) texture(id drift.ImageID) *ebiten.Image {
	if id == "" || game.cfg.Images == nil {
		return nil
	}
	if tex, ok := game.textures[id]; ok {
		return tex
	}
	img, ok := game.cfg.Images.Peek(id)
	if !ok {
		return nil
	}
	tex := ebiten.NewImageFromImage(img)
	game.textures[id] = tex
	return tex
}

func drawCover(screen, tex *ebiten.Image, t drift.PlacedTile) {
	src := coverCrop(tex.Bounds(), t.Screen.Width, t.Screen.Height)
	sub := tex.SubImage(src).(*ebiten.Image)

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(t.Screen.Width/float64(src.Dx()), t.Screen.Height/float64(src.Dy()))
	op.GeoM.Translate(t.Screen.X, t.Screen.Y)
	op.ColorScale.ScaleAlpha(float32(t.Alpha))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(sub, &op)
}

func drawPlaceholder(screen *ebiten.Image, t drift.PlacedTile, c color.RGBA) {
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(t.Screen.Width, t.Screen.Height)
	op.GeoM.Translate(t.Screen.X, t.Screen.Y)
	op.ColorScale.ScaleWithColor(c)
	op.ColorScale.ScaleAlpha(float32(t.Alpha))
	screen.DrawImage(whitePixel, &op)
}

// coverCrop returns the largest centered sub-rectangle of b with the aspect
// ratio w:h, so the image fills the tile without distortion.
func coverCrop(b image.Rectangle, w, h float64) image.Rectangle {
	bw, bh := float64(b.Dx()), float64(b.Dy())
	if w <= 0 || h <= 0 || bw <= 0 || bh <= 0 {
		return b
	}
	target := w / h
	if bw/bh > target {
		cw := max(int(bh*target), 1)
		x0 := b.Min.X + (b.Dx()-cw)/2
		return image.Rect(x0, b.Min.Y, x0+cw, b.Max.Y)
	}
	ch := max(int(bw/target), 1)
	y0 := b.Min.Y + (b.Dy()-ch)/2
	return image.Rect(b.Min.X, y0, b.Max.X, y0+ch)
}
